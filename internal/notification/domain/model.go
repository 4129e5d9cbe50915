// Package domain holds operational notifications surfaced to the dashboard,
// e.g. a resync that increased a day's rejected commission.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Kind string

const (
	KindRejectedCommissionDelta Kind = "rejected_commission_delta"
	KindSyncFailed              Kind = "sync_failed"
)

type Notification struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	OwnerID   snowflake.ID   `gorm:"not null;index" json:"owner_id"`
	Kind      Kind           `gorm:"type:text;not null" json:"kind"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Read      bool           `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// RejectedDeltaPayload is the payload body for KindRejectedCommissionDelta.
type RejectedDeltaPayload struct {
	PlatformID snowflake.ID `json:"platform_id"`
	Day        string       `json:"day"`
	Previous   float64      `json:"previous"`
	Current    float64      `json:"current"`
}

// RejectedSnapshot remembers the last observed rejected-commission total per
// (owner, platform, day). The watcher compares fresh totals against it and
// notifies only on increases, so a steady rejected figure never re-alerts.
type RejectedSnapshot struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID    snowflake.ID `gorm:"not null;uniqueIndex:ux_rejected_snapshots_key,priority:1" json:"owner_id"`
	PlatformID snowflake.ID `gorm:"not null;uniqueIndex:ux_rejected_snapshots_key,priority:2" json:"platform_id"`
	Day        time.Time    `gorm:"type:date;not null;uniqueIndex:ux_rejected_snapshots_key,priority:3" json:"day"`
	Rejected   float64      `gorm:"not null;default:0" json:"rejected"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (RejectedSnapshot) TableName() string { return "rejected_snapshots" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, n *Notification) error
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (bool, error)
	// ListSnapshots returns stored rejected totals with day inside
	// [begin, end] inclusive.
	ListSnapshots(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time) ([]RejectedSnapshot, error)
	// UpsertSnapshot writes the latest total for (owner, platform, day).
	UpsertSnapshot(ctx context.Context, db *gorm.DB, snap *RejectedSnapshot) error
}
