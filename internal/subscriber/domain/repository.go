package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]Subscriber, error)
	ExistsByMsisdn(ctx context.Context, db *gorm.DB, msisdn string) (bool, error)
}
