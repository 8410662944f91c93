package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/roamagg/internal/cdr/domain"
	cdrrepository "github.com/smallbiznis/roamagg/internal/cdr/repository"
	"github.com/smallbiznis/roamagg/internal/clock"
	"github.com/smallbiznis/roamagg/internal/config"
	subscriberdomain "github.com/smallbiznis/roamagg/internal/subscriber/domain"
	subscriberrepository "github.com/smallbiznis/roamagg/internal/subscriber/repository"
	subscriberservice "github.com/smallbiznis/roamagg/internal/subscriber/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, conn.AutoMigrate(&subscriberdomain.Subscriber{}, &domain.CallRecord{}))
	return conn
}

func seedSubscribers(t *testing.T, conn *gorm.DB, node *snowflake.Node, msisdns ...string) {
	t.Helper()
	for _, msisdn := range msisdns {
		assert.NoError(t, conn.Create(&subscriberdomain.Subscriber{
			ID:     node.Generate(),
			Msisdn: msisdn,
		}).Error)
	}
}

func testRoamingConfig() config.RoamingConfig {
	cfg := config.DefaultRoamingConfig()
	cfg.Generator.CallCountMin = 50
	cfg.Generator.CallCountMax = 80
	cfg.Generator.MaxCallDuration = 30 * time.Minute
	return cfg
}

func newTestService(t *testing.T, conn *gorm.DB, clk clock.Clock, cfg config.RoamingConfig, seed int64) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	holder, err := config.NewStaticRoamingConfigHolder(cfg)
	assert.NoError(t, err)

	log := zap.NewNop()
	subscribers := subscriberservice.New(subscriberservice.Params{
		DB:   conn,
		Log:  log,
		Repo: subscriberrepository.Provide(),
	})

	return NewWithRand(Params{
		DB:          conn,
		Log:         log,
		GenID:       node,
		Clock:       clk,
		Roaming:     holder,
		Repo:        cdrrepository.Provide(),
		Subscribers: subscribers,
	}, rand.New(rand.NewSource(seed)))
}

// recordingRepo captures the batch handed to BulkInsert before delegating,
// so ordering of the in-memory batch can be asserted.
type recordingRepo struct {
	domain.Repository
	batch []domain.CallRecord
}

func (r *recordingRepo) BulkInsert(ctx context.Context, conn *gorm.DB, records []domain.CallRecord) error {
	r.batch = append([]domain.CallRecord(nil), records...)
	return r.Repository.BulkInsert(ctx, conn, records)
}

func TestGenerateForOneYear_BatchSortedByStartTime(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(2)
	seedSubscribers(t, conn, node, "79111111111", "79222222222", "79333333333")

	cfg := testRoamingConfig()
	loc, _ := time.LoadLocation(cfg.Generator.Timezone)
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, loc)

	genNode, err := snowflake.NewNode(1)
	assert.NoError(t, err)
	holder, err := config.NewStaticRoamingConfigHolder(cfg)
	assert.NoError(t, err)

	log := zap.NewNop()
	repo := &recordingRepo{Repository: cdrrepository.Provide()}
	svc := NewWithRand(Params{
		DB:      conn,
		Log:     log,
		GenID:   genNode,
		Clock:   clock.NewFakeClock(now),
		Roaming: holder,
		Repo:    repo,
		Subscribers: subscriberservice.New(subscriberservice.Params{
			DB:   conn,
			Log:  log,
			Repo: subscriberrepository.Provide(),
		}),
	}, rand.New(rand.NewSource(3)))

	_, err = svc.GenerateForOneYear(context.Background())
	assert.NoError(t, err)
	assert.NotEmpty(t, repo.batch)
	for i := 1; i < len(repo.batch); i++ {
		assert.False(t, repo.batch[i].StartTime.Before(repo.batch[i-1].StartTime),
			"batch must be non-decreasing in start time")
	}
}

func TestGenerateForOneYear_Properties(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(2)
	seedSubscribers(t, conn, node, "79111111111", "79222222222", "79333333333")

	cfg := testRoamingConfig()
	loc, err := time.LoadLocation(cfg.Generator.Timezone)
	assert.NoError(t, err)

	now := time.Date(2023, 6, 15, 12, 0, 0, 0, loc)
	svc := newTestService(t, conn, clock.NewFakeClock(now), cfg, 1)

	count, err := svc.GenerateForOneYear(context.Background())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, count, cfg.Generator.CallCountMin)
	assert.LessOrEqual(t, count, cfg.Generator.CallCountMax)

	var records []domain.CallRecord
	assert.NoError(t, conn.Find(&records).Error)
	assert.Len(t, records, count)

	windowStart := now.AddDate(-1, 0, 0)
	for _, r := range records {
		assert.Contains(t, []string{domain.CallTypeIncoming, domain.CallTypeOutgoing}, r.CallType)
		assert.NotEqual(t, r.CallerNumber, r.CalledNumber)
		assert.True(t, r.StartTime.Before(r.EndTime), "call must have positive duration")
		assert.LessOrEqual(t, r.Duration(), cfg.Generator.MaxCallDuration)
		assert.False(t, r.StartTime.Before(windowStart), "call starts inside the year window")
		assert.False(t, r.EndTime.After(now), "call ends inside the year window")
	}
}

func TestGenerateForOneYear_TwoSubscribersAlwaysDistinctParties(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(2)
	seedSubscribers(t, conn, node, "79111111111", "79222222222")

	cfg := testRoamingConfig()
	loc, _ := time.LoadLocation(cfg.Generator.Timezone)
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, loc)
	svc := newTestService(t, conn, clock.NewFakeClock(now), cfg, 7)

	count, err := svc.GenerateForOneYear(context.Background())
	assert.NoError(t, err)
	assert.Positive(t, count)

	var records []domain.CallRecord
	assert.NoError(t, conn.Find(&records).Error)
	for _, r := range records {
		assert.NotEqual(t, r.CallerNumber, r.CalledNumber)
	}
}

func TestGenerateForOneYear_InsufficientSubscribers(t *testing.T) {
	conn := newTestDB(t)
	node, _ := snowflake.NewNode(2)
	seedSubscribers(t, conn, node, "79111111111")

	cfg := testRoamingConfig()
	loc, _ := time.LoadLocation(cfg.Generator.Timezone)
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, loc)
	svc := newTestService(t, conn, clock.NewFakeClock(now), cfg, 1)

	count, err := svc.GenerateForOneYear(context.Background())
	assert.ErrorIs(t, err, domain.ErrInsufficientSubscribers)
	assert.Zero(t, count)

	var stored int64
	assert.NoError(t, conn.Model(&domain.CallRecord{}).Count(&stored).Error)
	assert.Zero(t, stored, "no records written on failure")
}

func TestGenerateForOneYear_ReproducibleWithSameSeed(t *testing.T) {
	cfg := testRoamingConfig()
	loc, _ := time.LoadLocation(cfg.Generator.Timezone)
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, loc)

	counts := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		conn := newTestDB(t)
		node, _ := snowflake.NewNode(2)
		seedSubscribers(t, conn, node, "79111111111", "79222222222", "79333333333")

		svc := newTestService(t, conn, clock.NewFakeClock(now), cfg, 42)
		count, err := svc.GenerateForOneYear(context.Background())
		assert.NoError(t, err)
		counts = append(counts, count)
	}
	assert.Equal(t, counts[0], counts[1])
}
