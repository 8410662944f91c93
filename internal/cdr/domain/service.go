package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Service interface {
	// GenerateForOneYear synthesizes a batch of call records covering
	// [now-1y, now) for the current subscriber population and persists it.
	// Returns the number of records written.
	GenerateForOneYear(ctx context.Context) (int, error)

	// GenerateReport renders every call involving msisdn with a start time
	// inside the inclusive [startDate, endDate] day range to a flat file
	// named "<msisdn>_<token>.txt" under the configured reports directory.
	// Returns the file name.
	GenerateReport(ctx context.Context, msisdn string, startDate, endDate time.Time, token uuid.UUID) (string, error)
}

var (
	// ErrInsufficientSubscribers is returned when fewer than two
	// subscribers exist; a call needs two distinct parties.
	ErrInsufficientSubscribers = errors.New("insufficient_subscribers")

	// ErrInvalidDateRange is returned when a report start date is after its
	// end date.
	ErrInvalidDateRange = errors.New("invalid_date_range")

	// ErrReportWrite wraps any I/O failure while producing a report file.
	ErrReportWrite = errors.New("report_write_failed")
)
