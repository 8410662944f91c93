package service

import (
	"math/rand"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/roamagg/internal/cdr/domain"
	"github.com/smallbiznis/roamagg/internal/clock"
	"github.com/smallbiznis/roamagg/internal/config"
	"github.com/smallbiznis/roamagg/internal/observability/metrics"
	subscriberdomain "github.com/smallbiznis/roamagg/internal/subscriber/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Roaming     *config.RoamingConfigHolder
	Repo        domain.Repository
	Subscribers subscriberdomain.Service
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	roaming     *config.RoamingConfigHolder
	repo        domain.Repository
	subscribers subscriberdomain.Service
	metrics     *metrics.Metrics
	rng         *rand.Rand
}

func New(p Params) domain.Service {
	return NewWithRand(p, rand.New(rand.NewSource(p.Clock.Now().UnixNano())))
}

// NewWithRand accepts an explicit random source so generation runs are
// reproducible under test.
func NewWithRand(p Params, rng *rand.Rand) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("cdr.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		roaming:     p.Roaming,
		repo:        p.Repo,
		subscribers: p.Subscribers,
		metrics:     p.Metrics,
		rng:         rng,
	}
}
