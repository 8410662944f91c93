package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// BulkInsert persists a generated batch in one call, preserving the
	// caller-supplied order.
	BulkInsert(ctx context.Context, db *gorm.DB, records []CallRecord) error

	FindAllByCalledNumber(ctx context.Context, db *gorm.DB, msisdn string) ([]CallRecord, error)
	FindAllByCallerNumber(ctx context.Context, db *gorm.DB, msisdn string) ([]CallRecord, error)

	// Month lookups filter on the calendar month of StartTime, evaluated in
	// loc so the window matches the zone the records were generated in.
	FindAllByCalledNumberInMonth(ctx context.Context, db *gorm.DB, msisdn string, year int, month time.Month, loc *time.Location) ([]CallRecord, error)
	FindAllByCallerNumberInMonth(ctx context.Context, db *gorm.DB, msisdn string, year int, month time.Month, loc *time.Location) ([]CallRecord, error)

	// FindAllInvolvingInRange returns records where msisdn is caller or
	// called and StartTime falls in [from, to], ordered by StartTime asc.
	FindAllInvolvingInRange(ctx context.Context, db *gorm.DB, msisdn string, from, to time.Time) ([]CallRecord, error)
}
