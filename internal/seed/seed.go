package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	subscriberdomain "github.com/smallbiznis/roamagg/internal/subscriber/domain"
	"github.com/smallbiznis/roamagg/pkg/db"
	"gorm.io/gorm"
)

// Default subscriber population for local and self-hosted environments. The
// generator needs at least two entries to produce a call.
var defaultMsisdns = []string{
	"79123456789",
	"79876543210",
	"79991112233",
	"79994445566",
	"79997778899",
	"79161234567",
	"79167654321",
	"79031112233",
	"79034445566",
	"79037778899",
}

// EnsureSubscribers seeds the default directory. Idempotent: entries that
// already exist are left untouched, and a unique-key conflict from another
// instance seeding the same database concurrently is treated as success.
func EnsureSubscribers(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, msisdn := range defaultMsisdns {
			var count int64
			if err := tx.Model(&subscriberdomain.Subscriber{}).
				Where("msisdn = ?", msisdn).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&subscriberdomain.Subscriber{
				ID:     node.Generate(),
				Msisdn: msisdn,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && db.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}
