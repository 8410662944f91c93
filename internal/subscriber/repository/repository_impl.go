package repository

import (
	"context"

	"github.com/smallbiznis/roamagg/internal/subscriber/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Subscriber, error) {
	var subscribers []domain.Subscriber
	err := db.WithContext(ctx).
		Model(&domain.Subscriber{}).
		Order("id asc").
		Find(&subscribers).Error
	if err != nil {
		return nil, err
	}
	return subscribers, nil
}

func (r *repo) ExistsByMsisdn(ctx context.Context, db *gorm.DB, msisdn string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Subscriber{}).
		Where("msisdn = ?", msisdn).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
