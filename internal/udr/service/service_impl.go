package service

import (
	"context"
	"fmt"
	"time"

	cdrdomain "github.com/smallbiznis/roamagg/internal/cdr/domain"
	"github.com/smallbiznis/roamagg/internal/config"
	"github.com/smallbiznis/roamagg/internal/observability/metrics"
	subscriberdomain "github.com/smallbiznis/roamagg/internal/subscriber/domain"
	"github.com/smallbiznis/roamagg/internal/udr/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Roaming     *config.RoamingConfigHolder
	Cdrs        cdrdomain.Repository
	Subscribers subscriberdomain.Service
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	roaming     *config.RoamingConfigHolder
	cdrs        cdrdomain.Repository
	subscribers subscriberdomain.Service
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("udr.service"),
		roaming:     p.Roaming,
		cdrs:        p.Cdrs,
		subscribers: p.Subscribers,
		metrics:     p.Metrics,
	}
}

func (s *Service) ForSubscriberForAllTime(ctx context.Context, msisdn string) (domain.Udr, error) {
	if err := s.subscribers.EnsureExists(ctx, msisdn); err != nil {
		return domain.Udr{}, err
	}

	incoming, err := s.cdrs.FindAllByCalledNumber(ctx, s.db, msisdn)
	if err != nil {
		return domain.Udr{}, err
	}
	outgoing, err := s.cdrs.FindAllByCallerNumber(ctx, s.db, msisdn)
	if err != nil {
		return domain.Udr{}, err
	}

	s.metrics.RecordUdrRequest(ctx, "all_time")
	return domain.Udr{
		Msisdn:        msisdn,
		IncomingCall:  domain.CallData{TotalTime: domain.TotalCallTime(incoming)},
		OutcomingCall: domain.CallData{TotalTime: domain.TotalCallTime(outgoing)},
	}, nil
}

func (s *Service) ForSubscriberForMonth(ctx context.Context, msisdn string, year, month int) (domain.Udr, error) {
	if err := s.subscribers.EnsureExists(ctx, msisdn); err != nil {
		return domain.Udr{}, err
	}

	loc, err := s.location()
	if err != nil {
		return domain.Udr{}, err
	}

	incoming, err := s.cdrs.FindAllByCalledNumberInMonth(ctx, s.db, msisdn, year, time.Month(month), loc)
	if err != nil {
		return domain.Udr{}, err
	}
	outgoing, err := s.cdrs.FindAllByCallerNumberInMonth(ctx, s.db, msisdn, year, time.Month(month), loc)
	if err != nil {
		return domain.Udr{}, err
	}

	s.metrics.RecordUdrRequest(ctx, "month")
	return domain.Udr{
		Msisdn:        msisdn,
		IncomingCall:  domain.CallData{TotalTime: domain.TotalCallTime(incoming)},
		OutcomingCall: domain.CallData{TotalTime: domain.TotalCallTime(outgoing)},
	}, nil
}

func (s *Service) ForAllSubscribersForMonth(ctx context.Context, year, month int) ([]domain.Udr, error) {
	subscribers, err := s.subscribers.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	udrs := make([]domain.Udr, 0, len(subscribers))
	for _, subscriber := range subscribers {
		udr, err := s.ForSubscriberForMonth(ctx, subscriber.Msisdn, year, month)
		if err != nil {
			return nil, err
		}
		udrs = append(udrs, udr)
	}

	s.metrics.RecordUdrRequest(ctx, "all_subscribers")
	return udrs, nil
}

func (s *Service) location() (*time.Location, error) {
	tz := s.roaming.Get().Generator.Timezone
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load generator timezone %q: %w", tz, err)
	}
	return loc, nil
}
