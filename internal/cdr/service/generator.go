package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/smallbiznis/roamagg/internal/cdr/domain"
	"go.uber.org/zap"
)

// calledRetryBudget caps the rejection-sampling loop for the called party.
// After the budget is spent the draw falls back to the next index, so the
// loop is finite even under a pathological random source.
const calledRetryBudget = 16

// GenerateForOneYear synthesizes a uniform random call log over the last
// year. The batch is sorted by start time before it is handed to the store;
// downstream range queries rely on that ordering.
func (s *Service) GenerateForOneYear(ctx context.Context) (int, error) {
	subscribers, err := s.subscribers.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(subscribers) < 2 {
		return 0, fmt.Errorf("%d subscriber(s) on file, need at least 2: %w",
			len(subscribers), domain.ErrInsufficientSubscribers)
	}

	cfg := s.roaming.Get().Generator
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return 0, fmt.Errorf("load generator timezone %q: %w", cfg.Timezone, err)
	}

	windowEnd := s.clock.Now().In(loc)
	windowStart := windowEnd.AddDate(-1, 0, 0)
	startMillis := windowStart.UnixMilli()
	endMillis := windowEnd.UnixMilli()
	maxDurationMillis := cfg.MaxCallDuration.Milliseconds()

	total := cfg.CallCountMin + s.rng.Intn(cfg.CallCountMax-cfg.CallCountMin+1)
	records := make([]domain.CallRecord, 0, total)

	for i := 0; i < total; i++ {
		callType := domain.CallTypeIncoming
		if s.rng.Intn(2) == 1 {
			callType = domain.CallTypeOutgoing
		}

		callerIdx := s.rng.Intn(len(subscribers))
		calledIdx := s.pickCalledIndex(callerIdx, len(subscribers))

		// duration in (0, max], start drawn so the call ends inside the window
		durationMillis := 1 + s.rng.Int63n(maxDurationMillis)
		callStartMillis := startMillis + s.rng.Int63n(endMillis-durationMillis-startMillis)

		records = append(records, domain.CallRecord{
			ID:           s.genID.Generate(),
			CallType:     callType,
			CallerNumber: subscribers[callerIdx].Msisdn,
			CalledNumber: subscribers[calledIdx].Msisdn,
			StartTime:    time.UnixMilli(callStartMillis).In(loc),
			EndTime:      time.UnixMilli(callStartMillis + durationMillis).In(loc),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime.Before(records[j].StartTime)
	})

	if err := s.repo.BulkInsert(ctx, s.db, records); err != nil {
		return 0, err
	}

	s.metrics.RecordCdrGenerated(ctx, total)
	s.log.Info("generated cdr batch",
		zap.Int("count", total),
		zap.Int("subscribers", len(subscribers)),
		zap.Time("window_start", windowStart),
		zap.Time("window_end", windowEnd),
	)
	return total, nil
}

func (s *Service) pickCalledIndex(callerIdx, n int) int {
	for attempt := 0; attempt < calledRetryBudget; attempt++ {
		if idx := s.rng.Intn(n); idx != callerIdx {
			return idx
		}
	}
	return (callerIdx + 1) % n
}
