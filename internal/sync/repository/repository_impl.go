package repository

import (
	"context"
	"time"

	syncdomain "github.com/adlenslabs/adlens/internal/sync/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() syncdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, run *syncdomain.SyncRun) error {
	return db.WithContext(ctx).Create(run).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, run *syncdomain.SyncRun) error {
	return db.WithContext(ctx).
		Model(&syncdomain.SyncRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]any{
			"status":         run.Status,
			"metrics_synced": run.MetricsSynced,
			"txns_synced":    run.TxnsSynced,
			"error":          run.Error,
			"finished_at":    run.FinishedAt,
		}).Error
}

func (r *repo) ListRecentByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, limit int) ([]syncdomain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []syncdomain.SyncRun
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func (r *repo) DeleteFinishedBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Where("status <> ? AND started_at < ?", syncdomain.StatusRunning, cutoff).
		Delete(&syncdomain.SyncRun{})
	return result.RowsAffected, result.Error
}
