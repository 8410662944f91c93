package domain

import (
	"fmt"
	"time"

	cdrdomain "github.com/smallbiznis/roamagg/internal/cdr/domain"
)

// TotalCallTime reduces a record set to its summed duration, formatted as
// zero-padded HH:MM:SS. Hours use natural integer formatting, never modulo
// 24. A pure fold: record validity is not checked here, so a record with a
// negative duration shifts the running total down.
func TotalCallTime(records []cdrdomain.CallRecord) string {
	var total time.Duration
	for _, record := range records {
		total += record.Duration()
	}
	return FormatCallTime(total)
}

// FormatCallTime renders a duration as zero-padded HH:MM:SS.
func FormatCallTime(total time.Duration) string {
	seconds := int64(total / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
