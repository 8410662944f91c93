package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/roamagg/internal/cdr/domain"
	"gorm.io/gorm"
)

const insertBatchSize = 500

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) BulkInsert(ctx context.Context, db *gorm.DB, records []domain.CallRecord) error {
	if len(records) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(records, insertBatchSize).Error
}

func (r *repo) FindAllByCalledNumber(ctx context.Context, db *gorm.DB, msisdn string) ([]domain.CallRecord, error) {
	var records []domain.CallRecord
	err := db.WithContext(ctx).
		Where("called_number = ?", msisdn).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindAllByCallerNumber(ctx context.Context, db *gorm.DB, msisdn string) ([]domain.CallRecord, error) {
	var records []domain.CallRecord
	err := db.WithContext(ctx).
		Where("caller_number = ?", msisdn).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindAllByCalledNumberInMonth(ctx context.Context, db *gorm.DB, msisdn string, year int, month time.Month, loc *time.Location) ([]domain.CallRecord, error) {
	from, to := monthBounds(year, month, loc)
	var records []domain.CallRecord
	err := db.WithContext(ctx).
		Where("called_number = ? AND start_time >= ? AND start_time < ?", msisdn, from, to).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindAllByCallerNumberInMonth(ctx context.Context, db *gorm.DB, msisdn string, year int, month time.Month, loc *time.Location) ([]domain.CallRecord, error) {
	from, to := monthBounds(year, month, loc)
	var records []domain.CallRecord
	err := db.WithContext(ctx).
		Where("caller_number = ? AND start_time >= ? AND start_time < ?", msisdn, from, to).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindAllInvolvingInRange(ctx context.Context, db *gorm.DB, msisdn string, from, to time.Time) ([]domain.CallRecord, error) {
	var records []domain.CallRecord
	err := db.WithContext(ctx).
		Where("(caller_number = ? OR called_number = ?) AND start_time >= ? AND start_time <= ?", msisdn, msisdn, from, to).
		Order("start_time asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// monthBounds compiles a calendar month to a half-open instant range so the
// same query plan works on postgres, mysql and sqlite and can use the
// start_time index.
func monthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}
