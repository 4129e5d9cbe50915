// Package service runs the platform sync: for each owner's active accounts it
// pulls daily metrics and commission transactions from the matching provider
// and records a SyncRun per pull. Owners sync serially; a failed platform
// never blocks the next one.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/adlenslabs/adlens/internal/clock"
	"github.com/adlenslabs/adlens/internal/config"
	identitydomain "github.com/adlenslabs/adlens/internal/identity/domain"
	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	syncdomain "github.com/adlenslabs/adlens/internal/sync/domain"
	"github.com/adlenslabs/adlens/internal/sync/provider"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node

	lookbackDays int
	registry     *provider.Registry

	identityRepo identitydomain.Repository
	platformRepo platformdomain.Repository
	metricRepo   metricdomain.Repository
	txnRepo      txndomain.Repository
	runRepo      syncdomain.Repository
	reportSvc    reportdomain.Service

	// mu serializes whole sync passes; overlapping ticks coalesce into one.
	mu sync.Mutex
}

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	GenID        *snowflake.Node
	Config       config.Config
	Registry     *provider.Registry
	IdentityRepo identitydomain.Repository
	PlatformRepo platformdomain.Repository
	MetricRepo   metricdomain.Repository
	TxnRepo      txndomain.Repository
	RunRepo      syncdomain.Repository
	ReportSvc    reportdomain.Service
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("sync.service"),
		clock:        p.Clock,
		genID:        p.GenID,
		lookbackDays: p.Config.Scheduler.SyncLookbackDays,
		registry:     p.Registry,
		identityRepo: p.IdentityRepo,
		platformRepo: p.PlatformRepo,
		metricRepo:   p.MetricRepo,
		txnRepo:      p.TxnRepo,
		runRepo:      p.RunRepo,
		reportSvc:    p.ReportSvc,
	}
}

// SyncAll runs one full pass over every active user. Per-owner failures are
// logged and counted but do not abort the pass.
func (s *Service) SyncAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.identityRepo.ListActiveUsers(ctx, s.db)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.syncOwner(ctx, u.ID); err != nil {
			s.log.Error("owner sync failed",
				zap.Int64("owner_id", int64(u.ID)),
				zap.Error(err))
		}
	}
	return nil
}

// SyncOwner syncs a single owner's accounts over the configured lookback
// window. It is the unit the API's manual-resync endpoint triggers.
func (s *Service) SyncOwner(ctx context.Context, ownerID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncOwner(ctx, ownerID)
}

func (s *Service) syncOwner(ctx context.Context, ownerID snowflake.ID) error {
	accounts, err := s.platformRepo.ListAccountsByOwner(ctx, s.db, ownerID)
	if err != nil {
		return err
	}
	platforms, err := s.platformRepo.ListByOwner(ctx, s.db, ownerID)
	if err != nil {
		return err
	}
	byID := make(map[snowflake.ID]platformdomain.Platform, len(platforms))
	for _, p := range platforms {
		byID[p.ID] = p
	}

	end := reportdomain.DateOnly(s.clock.Now()).AddDate(0, 0, -1)
	begin := end.AddDate(0, 0, -(s.lookbackDays - 1))

	changed := false
	for _, account := range accounts {
		if !account.Active {
			continue
		}
		platform, ok := byID[account.PlatformID]
		if !ok || !platform.Active {
			continue
		}
		prov, err := s.registry.Get(platform.Code)
		if err != nil {
			s.log.Warn("no provider for platform",
				zap.String("code", platform.Code),
				zap.Int64("platform_id", int64(platform.ID)))
			continue
		}
		if err := s.syncAccount(ctx, prov, platform, account, begin, end); err != nil {
			s.log.Error("account sync failed",
				zap.Int64("owner_id", int64(ownerID)),
				zap.String("platform", platform.Code),
				zap.Error(err))
			continue
		}
		changed = true
	}
	if changed {
		if err := s.reportSvc.InvalidateCache(ctx, ownerID); err != nil {
			s.log.Warn("cache invalidation failed",
				zap.Int64("owner_id", int64(ownerID)),
				zap.Error(err))
		}
	}
	return nil
}

func (s *Service) syncAccount(ctx context.Context, prov provider.Provider, platform platformdomain.Platform, account platformdomain.AffiliateAccount, begin, end time.Time) error {
	run := &syncdomain.SyncRun{
		ID:         uuid.NewString(),
		OwnerID:    account.OwnerID,
		PlatformID: platform.ID,
		BeginDate:  begin,
		EndDate:    end,
		Status:     syncdomain.StatusRunning,
		StartedAt:  s.clock.Now(),
	}
	if err := s.runRepo.Insert(ctx, s.db, run); err != nil {
		return err
	}

	syncErr := s.pull(ctx, prov, platform, account, begin, end, run)

	now := s.clock.Now()
	run.FinishedAt = &now
	if syncErr != nil {
		run.Status = syncdomain.StatusFailed
		run.Error = syncErr.Error()
	} else {
		run.Status = syncdomain.StatusSucceeded
	}
	if err := s.runRepo.Update(ctx, s.db, run); err != nil {
		s.log.Error("sync run update failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	return syncErr
}

func (s *Service) pull(ctx context.Context, prov provider.Provider, platform platformdomain.Platform, account platformdomain.AffiliateAccount, begin, end time.Time, run *syncdomain.SyncRun) error {
	for day := begin; !day.After(end); day = day.AddDate(0, 0, 1) {
		rows, err := prov.FetchDailyMetrics(ctx, account, day)
		if err != nil {
			return err
		}
		if rows == nil {
			continue
		}
		for i := range rows {
			rows[i].ID = s.genID.Generate()
			rows[i].OwnerID = account.OwnerID
			rows[i].PlatformID = platform.ID
			rows[i].MetricDate = day
		}
		if err := s.metricRepo.ReplaceDay(ctx, s.db, account.OwnerID, platform.ID, day, rows); err != nil {
			return err
		}
		run.MetricsSynced += len(rows)
	}

	txns, err := prov.FetchTransactions(ctx, account, begin, end)
	if err != nil {
		return err
	}
	if len(txns) > 0 {
		for i := range txns {
			txns[i].ID = s.genID.Generate()
			txns[i].OwnerID = account.OwnerID
			txns[i].PlatformID = platform.ID
		}
		if err := s.txnRepo.UpsertBatch(ctx, s.db, txns); err != nil {
			return err
		}
		run.TxnsSynced += len(txns)
	}
	return nil
}
