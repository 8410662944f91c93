package migration

import (
	cdrdomain "github.com/smallbiznis/roamagg/internal/cdr/domain"
	"github.com/smallbiznis/roamagg/internal/config"
	"github.com/smallbiznis/roamagg/internal/seed"
	subscriberdomain "github.com/smallbiznis/roamagg/internal/subscriber/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite/mysql dev mode: no versioned migration driver wired,
			// let gorm reconcile the schema
			if err := conn.AutoMigrate(
				&subscriberdomain.Subscriber{},
				&cdrdomain.CallRecord{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureSubscribers(conn)
	}),
)
