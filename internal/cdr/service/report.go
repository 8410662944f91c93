package service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/roamagg/internal/cdr/domain"
	"go.uber.org/zap"
)

// ReportTimeLayout is the timestamp form used for report lines: ISO-8601
// local date-time, no zone suffix.
const ReportTimeLayout = "2006-01-02T15:04:05"

// GenerateReport writes the call log of one subscriber over an inclusive day
// range to "<msisdn>_<token>.txt". The file appears atomically: content is
// staged in a temp file and renamed into place only after a full write.
func (s *Service) GenerateReport(ctx context.Context, msisdn string, startDate, endDate time.Time, token uuid.UUID) (string, error) {
	if err := s.subscribers.EnsureExists(ctx, msisdn); err != nil {
		return "", err
	}
	if startDate.After(endDate) {
		return "", fmt.Errorf("start date %s is after end date %s: %w",
			startDate.Format(time.DateOnly), endDate.Format(time.DateOnly), domain.ErrInvalidDateRange)
	}

	cfg := s.roaming.Get()
	loc, err := time.LoadLocation(cfg.Generator.Timezone)
	if err != nil {
		return "", fmt.Errorf("load generator timezone %q: %w", cfg.Generator.Timezone, err)
	}

	// expand dates to a closed range covering both boundary days in full
	y, m, d := startDate.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	y, m, d = endDate.Date()
	to := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)

	records, err := s.repo.FindAllInvolvingInRange(ctx, s.db, msisdn, from, to)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s_%s.txt", msisdn, token)
	if err := s.writeReportFile(cfg.Report.Dir, fileName, records, loc); err != nil {
		return "", err
	}

	s.metrics.RecordReportWritten(ctx)
	s.log.Info("generated cdr report",
		zap.String("msisdn", msisdn),
		zap.String("file", fileName),
		zap.Int("records", len(records)),
	)
	return fileName, nil
}

func (s *Service) writeReportFile(dir, fileName string, records []domain.CallRecord, loc *time.Location) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create reports dir %q: %v", domain.ErrReportWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("%w: stage report %q: %v", domain.ErrReportWrite, fileName, err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, record := range records {
		line := strings.Join([]string{
			record.CallType,
			record.CallerNumber,
			record.CalledNumber,
			record.StartTime.In(loc).Format(ReportTimeLayout),
			record.EndTime.In(loc).Format(ReportTimeLayout),
		}, ",")
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("%w: write report %q: %v", domain.ErrReportWrite, fileName, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: flush report %q: %v", domain.ErrReportWrite, fileName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close report %q: %v", domain.ErrReportWrite, fileName, err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, fileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: publish report %q: %v", domain.ErrReportWrite, fileName, err)
	}
	return nil
}
