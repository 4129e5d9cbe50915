// Package scheduler drives the background jobs: the periodic platform sync,
// the rejected-commission watcher and sync-run retention. One process runs
// all jobs; protection against doubled work comes from the sync service's
// own serialization, not from here.
package scheduler

import (
	"context"
	"time"

	"github.com/adlenslabs/adlens/internal/clock"
	"github.com/adlenslabs/adlens/internal/config"
	identitydomain "github.com/adlenslabs/adlens/internal/identity/domain"
	notificationdomain "github.com/adlenslabs/adlens/internal/notification/domain"
	syncdomain "github.com/adlenslabs/adlens/internal/sync/domain"
	syncservice "github.com/adlenslabs/adlens/internal/sync/service"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Scheduler struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cfg   config.SchedulerConfig
	genID *snowflake.Node

	syncSvc *syncservice.Service

	identityRepo identitydomain.Repository
	txnRepo      txndomain.Repository
	notifRepo    notificationdomain.Repository
	runRepo      syncdomain.Repository
}

type Param struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Config       config.Config
	GenID        *snowflake.Node
	SyncSvc      *syncservice.Service
	IdentityRepo identitydomain.Repository
	TxnRepo      txndomain.Repository
	NotifRepo    notificationdomain.Repository
	RunRepo      syncdomain.Repository
}

func New(p Param) *Scheduler {
	return &Scheduler{
		db:           p.DB,
		log:          p.Log.Named("scheduler"),
		clock:        p.Clock,
		cfg:          p.Config.Scheduler,
		genID:        p.GenID,
		syncSvc:      p.SyncSvc,
		identityRepo: p.IdentityRepo,
		txnRepo:      p.TxnRepo,
		notifRepo:    p.NotifRepo,
		runRepo:      p.RunRepo,
	}
}

// RunForever ticks each job on its own interval until ctx is cancelled.
// Retention runs daily.
func (s *Scheduler) RunForever(ctx context.Context) {
	syncTicker := time.NewTicker(s.cfg.SyncInterval)
	watchTicker := time.NewTicker(s.cfg.WatchInterval)
	retentionTicker := time.NewTicker(24 * time.Hour)
	defer syncTicker.Stop()
	defer watchTicker.Stop()
	defer retentionTicker.Stop()

	s.log.Info("scheduler started",
		zap.Duration("sync_interval", s.cfg.SyncInterval),
		zap.Duration("watch_interval", s.cfg.WatchInterval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-syncTicker.C:
			s.runJob(ctx, "platform_sync", s.SyncJob)
		case <-watchTicker.C:
			s.runJob(ctx, "rejected_watch", s.RejectedWatchJob)
		case <-retentionTicker.C:
			s.runJob(ctx, "sync_run_retention", s.RetentionJob)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, name string, job func(context.Context) error) {
	started := s.clock.Now()
	err := job(ctx)
	elapsed := time.Since(started)
	observeJob(name, err, elapsed)
	if err != nil {
		s.log.Error("job failed", zap.String("job", name), zap.Duration("elapsed", elapsed), zap.Error(err))
		return
	}
	s.log.Info("job finished", zap.String("job", name), zap.Duration("elapsed", elapsed))
}

// SyncJob runs one full sync pass over every active user.
func (s *Scheduler) SyncJob(ctx context.Context) error {
	return s.syncSvc.SyncAll(ctx)
}
