package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/roamagg/internal/cdr/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, conn.AutoMigrate(&domain.CallRecord{}))
	return conn
}

func makeCall(node *snowflake.Node, callType, caller, called string, start time.Time, d time.Duration) domain.CallRecord {
	return domain.CallRecord{
		ID:           node.Generate(),
		CallType:     callType,
		CallerNumber: caller,
		CalledNumber: called,
		StartTime:    start,
		EndTime:      start.Add(d),
	}
}

func TestBulkInsert(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	node, _ := snowflake.NewNode(5)

	base := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	records := make([]domain.CallRecord, 0, 1200)
	for i := 0; i < 1200; i++ {
		records = append(records, makeCall(node, domain.CallTypeOutgoing,
			"79111111111", "79222222222", base.Add(time.Duration(i)*time.Minute), time.Minute))
	}

	assert.NoError(t, repo.BulkInsert(context.Background(), conn, records))

	var count int64
	assert.NoError(t, conn.Model(&domain.CallRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1200, count)
}

func TestBulkInsert_EmptyBatch(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()

	assert.NoError(t, repo.BulkInsert(context.Background(), conn, nil))

	var count int64
	assert.NoError(t, conn.Model(&domain.CallRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMonthQueries_HalfOpenBounds(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	node, _ := snowflake.NewNode(5)
	loc, err := time.LoadLocation("Europe/Moscow")
	assert.NoError(t, err)

	ctx := context.Background()
	records := []domain.CallRecord{
		// last instant of April: excluded from May
		makeCall(node, domain.CallTypeIncoming, "79222222222", "79111111111",
			time.Date(2023, 4, 30, 23, 59, 59, 0, loc), time.Minute),
		// first instant of May: included
		makeCall(node, domain.CallTypeIncoming, "79222222222", "79111111111",
			time.Date(2023, 5, 1, 0, 0, 0, 0, loc), time.Minute),
		// last instant of May: included
		makeCall(node, domain.CallTypeIncoming, "79222222222", "79111111111",
			time.Date(2023, 5, 31, 23, 59, 59, 0, loc), time.Minute),
		// first instant of June: excluded
		makeCall(node, domain.CallTypeIncoming, "79222222222", "79111111111",
			time.Date(2023, 6, 1, 0, 0, 0, 0, loc), time.Minute),
	}
	assert.NoError(t, repo.BulkInsert(ctx, conn, records))

	incoming, err := repo.FindAllByCalledNumberInMonth(ctx, conn, "79111111111", 2023, time.May, loc)
	assert.NoError(t, err)
	assert.Len(t, incoming, 2)

	outgoing, err := repo.FindAllByCallerNumberInMonth(ctx, conn, "79222222222", 2023, time.May, loc)
	assert.NoError(t, err)
	assert.Len(t, outgoing, 2)
}

func TestMonthQueries_FilterByParty(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	node, _ := snowflake.NewNode(5)
	loc := time.UTC

	ctx := context.Background()
	start := time.Date(2023, 5, 10, 10, 0, 0, 0, loc)
	assert.NoError(t, repo.BulkInsert(ctx, conn, []domain.CallRecord{
		makeCall(node, domain.CallTypeOutgoing, "79111111111", "79222222222", start, time.Minute),
		makeCall(node, domain.CallTypeOutgoing, "79333333333", "79222222222", start, time.Minute),
	}))

	asCaller, err := repo.FindAllByCallerNumberInMonth(ctx, conn, "79111111111", 2023, time.May, loc)
	assert.NoError(t, err)
	assert.Len(t, asCaller, 1)
	assert.Equal(t, "79111111111", asCaller[0].CallerNumber)

	asCalled, err := repo.FindAllByCalledNumberInMonth(ctx, conn, "79222222222", 2023, time.May, loc)
	assert.NoError(t, err)
	assert.Len(t, asCalled, 2)
}

func TestFindAllInvolvingInRange_BothDirectionsOrdered(t *testing.T) {
	conn := newTestDB(t)
	repo := Provide()
	node, _ := snowflake.NewNode(5)
	loc := time.UTC

	ctx := context.Background()
	later := time.Date(2023, 5, 20, 10, 0, 0, 0, loc)
	earlier := time.Date(2023, 5, 2, 10, 0, 0, 0, loc)
	outside := time.Date(2023, 7, 1, 10, 0, 0, 0, loc)
	assert.NoError(t, repo.BulkInsert(ctx, conn, []domain.CallRecord{
		makeCall(node, domain.CallTypeOutgoing, "79111111111", "79222222222", later, time.Minute),
		makeCall(node, domain.CallTypeIncoming, "79222222222", "79111111111", earlier, time.Minute),
		makeCall(node, domain.CallTypeOutgoing, "79111111111", "79222222222", outside, time.Minute),
		// unrelated parties
		makeCall(node, domain.CallTypeOutgoing, "79333333333", "79444444444", earlier, time.Minute),
	}))

	from := time.Date(2023, 5, 1, 0, 0, 0, 0, loc)
	to := time.Date(2023, 5, 31, 23, 59, 59, 0, loc)
	records, err := repo.FindAllInvolvingInRange(ctx, conn, "79111111111", from, to)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.True(t, records[0].StartTime.Equal(earlier))
	assert.True(t, records[1].StartTime.Equal(later))
}
