package repository_test

import (
	"context"
	"testing"
	"time"

	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/adlenslabs/adlens/internal/transaction/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&txndomain.AffiliateTransaction{}))
	return db
}

func TestUpsertBatchDeduplicatesOnResync(t *testing.T) {
	db := openTestDB(t)
	repo := repository.Provide()
	ctx := context.Background()

	ownerID := snowflake.ID(1)
	platformID := snowflake.ID(10)
	at := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

	first := txndomain.AffiliateTransaction{
		ID:           snowflake.ID(100),
		OwnerID:      ownerID,
		PlatformID:   platformID,
		ExternalID:   "txn-001",
		MerchantID:   "10423",
		Commission:   25.50,
		Currency:     "USD",
		Orders:       1,
		Status:       txndomain.StatusPending,
		TransactedAt: at,
	}
	require.NoError(t, repo.UpsertBatch(ctx, db, []txndomain.AffiliateTransaction{first}))

	// Resync delivers the same external id with a status transition.
	resynced := first
	resynced.ID = snowflake.ID(101)
	resynced.Status = txndomain.StatusRejected
	require.NoError(t, repo.UpsertBatch(ctx, db, []txndomain.AffiliateTransaction{resynced}))

	rows, err := repo.ListByRange(ctx, db, ownerID, at.AddDate(0, 0, -1), at, "")
	require.NoError(t, err)
	require.Len(t, rows, 1, "resync must not duplicate a transaction")
	assert.Equal(t, txndomain.StatusRejected, rows[0].Status)
	assert.Equal(t, 25.50, rows[0].Commission)
}

func TestListByRangeMerchantFilter(t *testing.T) {
	db := openTestDB(t)
	repo := repository.Provide()
	ctx := context.Background()

	ownerID := snowflake.ID(1)
	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	rows := []txndomain.AffiliateTransaction{
		{ID: 1, OwnerID: ownerID, PlatformID: 10, ExternalID: "a", MerchantID: "10423", Commission: 10, TransactedAt: day.Add(2 * time.Hour), Status: txndomain.StatusApproved},
		{ID: 2, OwnerID: ownerID, PlatformID: 10, ExternalID: "b", MerchantID: "20991", Commission: 5, TransactedAt: day.Add(3 * time.Hour), Status: txndomain.StatusApproved},
		{ID: 3, OwnerID: 2, PlatformID: 10, ExternalID: "c", MerchantID: "10423", Commission: 7, TransactedAt: day.Add(4 * time.Hour), Status: txndomain.StatusApproved},
	}
	require.NoError(t, repo.UpsertBatch(ctx, db, rows))

	got, err := repo.ListByRange(ctx, db, ownerID, day, day, "10423")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ExternalID)
}

func TestRejectedTotalsByDay(t *testing.T) {
	db := openTestDB(t)
	repo := repository.Provide()
	ctx := context.Background()

	ownerID := snowflake.ID(1)
	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	rows := []txndomain.AffiliateTransaction{
		{ID: 1, OwnerID: ownerID, PlatformID: 10, ExternalID: "a", Commission: 10, TransactedAt: day.Add(time.Hour), Status: txndomain.StatusRejected},
		{ID: 2, OwnerID: ownerID, PlatformID: 10, ExternalID: "b", Commission: 4, TransactedAt: day.Add(2 * time.Hour), Status: txndomain.StatusRejected},
		{ID: 3, OwnerID: ownerID, PlatformID: 10, ExternalID: "c", Commission: 99, TransactedAt: day.Add(3 * time.Hour), Status: txndomain.StatusApproved},
	}
	require.NoError(t, repo.UpsertBatch(ctx, db, rows))

	totals, err := repo.RejectedTotalsByDay(ctx, db, ownerID, day, day)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 14.0, totals[0].Rejected)
	assert.Equal(t, day, totals[0].Day, "grouped day is a UTC midnight time")
	assert.Equal(t, ownerID, totals[0].OwnerID)
	assert.Equal(t, snowflake.ID(10), totals[0].PlatformID)
}

func TestUpsertBatchDuplicateExternalIDInOneBatch(t *testing.T) {
	db := openTestDB(t)
	repo := repository.Provide()
	ctx := context.Background()

	ownerID := snowflake.ID(1)
	at := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	// A provider page can repeat an external id; last row wins within the batch.
	rows := []txndomain.AffiliateTransaction{
		{ID: 1, OwnerID: ownerID, PlatformID: 10, ExternalID: "dup", Commission: 10, TransactedAt: at, Status: txndomain.StatusPending},
		{ID: 2, OwnerID: ownerID, PlatformID: 10, ExternalID: "dup", Commission: 12, TransactedAt: at, Status: txndomain.StatusApproved},
	}
	require.NoError(t, repo.UpsertBatch(ctx, db, rows))

	got, err := repo.ListByRange(ctx, db, ownerID, at, at, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12.0, got[0].Commission)
	assert.Equal(t, txndomain.StatusApproved, got[0].Status)
}
