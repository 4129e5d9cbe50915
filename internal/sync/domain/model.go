// Package domain holds sync-run bookkeeping: one row per scheduled pull from
// an external platform, used for observability and retention.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type SyncRun struct {
	// ID is a uuid string; sync runs are operational records, not domain
	// entities, and do not consume snowflake ids.
	ID            string       `gorm:"primaryKey;type:text" json:"id"`
	OwnerID       snowflake.ID `gorm:"not null;index" json:"owner_id"`
	PlatformID    snowflake.ID `gorm:"not null" json:"platform_id"`
	BeginDate     time.Time    `gorm:"type:date;not null" json:"begin_date"`
	EndDate       time.Time    `gorm:"type:date;not null" json:"end_date"`
	Status        Status       `gorm:"type:text;not null" json:"status"`
	MetricsSynced int          `gorm:"not null;default:0" json:"metrics_synced"`
	TxnsSynced    int          `gorm:"not null;default:0" json:"txns_synced"`
	Error         string       `gorm:"type:text;not null;default:''" json:"error,omitempty"`
	StartedAt     time.Time    `gorm:"not null" json:"started_at"`
	FinishedAt    *time.Time   `json:"finished_at,omitempty"`
}

func (SyncRun) TableName() string { return "sync_runs" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, run *SyncRun) error
	Update(ctx context.Context, db *gorm.DB, run *SyncRun) error
	ListRecentByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, limit int) ([]SyncRun, error)
	// DeleteFinishedBefore prunes completed runs older than the cutoff and
	// returns how many rows went away.
	DeleteFinishedBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}
