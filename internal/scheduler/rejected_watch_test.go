package scheduler_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/adlenslabs/adlens/internal/clock"
	"github.com/adlenslabs/adlens/internal/config"
	identitydomain "github.com/adlenslabs/adlens/internal/identity/domain"
	identityrepo "github.com/adlenslabs/adlens/internal/identity/repository"
	notificationdomain "github.com/adlenslabs/adlens/internal/notification/domain"
	notificationrepo "github.com/adlenslabs/adlens/internal/notification/repository"
	"github.com/adlenslabs/adlens/internal/scheduler"
	syncdomain "github.com/adlenslabs/adlens/internal/sync/domain"
	syncrepo "github.com/adlenslabs/adlens/internal/sync/repository"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	txnrepo "github.com/adlenslabs/adlens/internal/transaction/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type watchFixture struct {
	db    *gorm.DB
	sched *scheduler.Scheduler
	node  *snowflake.Node
	owner identitydomain.User
}

func newWatchFixture(t *testing.T, now time.Time) *watchFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identitydomain.User{},
		&txndomain.AffiliateTransaction{},
		&notificationdomain.Notification{},
		&notificationdomain.RejectedSnapshot{},
		&syncdomain.SyncRun{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{}
	cfg.Scheduler.SyncLookbackDays = 7
	cfg.Scheduler.SyncRunRetentionDays = 30
	cfg.Scheduler.SyncInterval = time.Hour
	cfg.Scheduler.WatchInterval = time.Hour

	sched := scheduler.New(scheduler.Param{
		DB:           db,
		Log:          zap.NewNop(),
		Clock:        clock.Fixed{At: now},
		Config:       cfg,
		GenID:        node,
		IdentityRepo: identityrepo.Provide(),
		TxnRepo:      txnrepo.Provide(),
		NotifRepo:    notificationrepo.Provide(),
		RunRepo:      syncrepo.Provide(),
	})

	owner := identitydomain.User{
		ID:          node.Generate(),
		Email:       "owner@example.com",
		DisplayName: "Owner",
		Role:        identitydomain.RoleMember,
		Active:      true,
	}
	require.NoError(t, identityrepo.Provide().InsertUser(context.Background(), db, &owner))

	return &watchFixture{db: db, sched: sched, node: node, owner: owner}
}

func (f *watchFixture) addRejected(t *testing.T, platformID snowflake.ID, externalID string, amount float64, at time.Time) {
	t.Helper()
	require.NoError(t, txnrepo.Provide().UpsertBatch(context.Background(), f.db, []txndomain.AffiliateTransaction{{
		ID:           f.node.Generate(),
		OwnerID:      f.owner.ID,
		PlatformID:   platformID,
		ExternalID:   externalID,
		Commission:   amount,
		Currency:     "USD",
		Orders:       1,
		Status:       txndomain.StatusRejected,
		TransactedAt: at,
	}}))
}

func (f *watchFixture) notifications(t *testing.T) []notificationdomain.Notification {
	t.Helper()
	rows, err := notificationrepo.Provide().ListByOwner(context.Background(), f.db, f.owner.ID, false, 0)
	require.NoError(t, err)
	return rows
}

func TestRejectedWatchNotifiesOnIncrease(t *testing.T) {
	now := time.Date(2026, 2, 18, 6, 0, 0, 0, time.UTC)
	f := newWatchFixture(t, now)
	platformID := snowflake.ID(10)
	at := time.Date(2026, 2, 16, 14, 0, 0, 0, time.UTC)

	f.addRejected(t, platformID, "lb-001", 30.00, at)
	require.NoError(t, f.sched.RejectedWatchJob(context.Background()))

	rows := f.notifications(t)
	require.Len(t, rows, 1)
	assert.Equal(t, notificationdomain.KindRejectedCommissionDelta, rows[0].Kind)

	var payload notificationdomain.RejectedDeltaPayload
	require.NoError(t, json.Unmarshal(rows[0].Payload, &payload))
	assert.Equal(t, platformID, payload.PlatformID)
	assert.Equal(t, "2026-02-16", payload.Day)
	assert.Equal(t, 0.0, payload.Previous)
	assert.Equal(t, 30.00, payload.Current)
}

func TestRejectedWatchIsQuietWhenNothingChanged(t *testing.T) {
	now := time.Date(2026, 2, 18, 6, 0, 0, 0, time.UTC)
	f := newWatchFixture(t, now)
	platformID := snowflake.ID(10)
	at := time.Date(2026, 2, 16, 14, 0, 0, 0, time.UTC)

	f.addRejected(t, platformID, "lb-001", 30.00, at)
	require.NoError(t, f.sched.RejectedWatchJob(context.Background()))
	require.Len(t, f.notifications(t), 1)

	// Second pass over identical data: the snapshot absorbs it.
	require.NoError(t, f.sched.RejectedWatchJob(context.Background()))
	assert.Len(t, f.notifications(t), 1, "unchanged totals must not re-alert")
}

func TestRejectedWatchReportsPreviousTotal(t *testing.T) {
	now := time.Date(2026, 2, 18, 6, 0, 0, 0, time.UTC)
	f := newWatchFixture(t, now)
	platformID := snowflake.ID(10)
	at := time.Date(2026, 2, 16, 14, 0, 0, 0, time.UTC)

	f.addRejected(t, platformID, "lb-001", 30.00, at)
	require.NoError(t, f.sched.RejectedWatchJob(context.Background()))

	// A later resync rejects one more commission on the same day.
	f.addRejected(t, platformID, "lb-002", 12.50, at.Add(time.Hour))
	require.NoError(t, f.sched.RejectedWatchJob(context.Background()))

	rows := f.notifications(t)
	require.Len(t, rows, 2)

	// ListByOwner is newest-first.
	var payload notificationdomain.RejectedDeltaPayload
	require.NoError(t, json.Unmarshal(rows[0].Payload, &payload))
	assert.Equal(t, 30.00, payload.Previous)
	assert.Equal(t, 42.50, payload.Current)
}

func TestRetentionPrunesFinishedRuns(t *testing.T) {
	now := time.Date(2026, 2, 18, 6, 0, 0, 0, time.UTC)
	f := newWatchFixture(t, now)
	ctx := context.Background()
	runRepo := syncrepo.Provide()

	old := now.AddDate(0, 0, -60)
	finishedOld := old.Add(time.Minute)
	require.NoError(t, runRepo.Insert(ctx, f.db, &syncdomain.SyncRun{
		ID: "old-finished", OwnerID: f.owner.ID, PlatformID: 10,
		BeginDate: old, EndDate: old,
		Status: syncdomain.StatusSucceeded, StartedAt: old, FinishedAt: &finishedOld,
	}))
	require.NoError(t, runRepo.Insert(ctx, f.db, &syncdomain.SyncRun{
		ID: "old-running", OwnerID: f.owner.ID, PlatformID: 10,
		BeginDate: old, EndDate: old,
		Status: syncdomain.StatusRunning, StartedAt: old,
	}))
	require.NoError(t, runRepo.Insert(ctx, f.db, &syncdomain.SyncRun{
		ID: "recent", OwnerID: f.owner.ID, PlatformID: 10,
		BeginDate: now, EndDate: now,
		Status: syncdomain.StatusSucceeded, StartedAt: now, FinishedAt: &now,
	}))

	require.NoError(t, f.sched.RetentionJob(ctx))

	runs, err := runRepo.ListRecentByOwner(ctx, f.db, f.owner.ID, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	assert.ElementsMatch(t, []string{"old-running", "recent"}, ids,
		"finished runs past retention go, running and recent stay")
}
