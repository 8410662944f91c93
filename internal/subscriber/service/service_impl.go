package service

import (
	"context"
	"fmt"

	"github.com/smallbiznis/roamagg/internal/subscriber/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("subscriber.service"),
		repo: p.Repo,
	}
}

func (s *Service) FindAll(ctx context.Context) ([]domain.Subscriber, error) {
	return s.repo.FindAll(ctx, s.db)
}

func (s *Service) EnsureExists(ctx context.Context, msisdn string) error {
	exists, err := s.repo.ExistsByMsisdn(ctx, s.db, msisdn)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("subscriber %q: %w", msisdn, domain.ErrNoSuchSubscriber)
	}
	return nil
}
