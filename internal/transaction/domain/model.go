// Package domain holds affiliate commission transactions. A row is one
// commission-bearing event reported by an affiliate network; resyncs may move
// its status (pending -> approved/rejected) but never duplicate it, keyed by
// the platform-scoped external id.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type AffiliateTransaction struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_affiliate_txns_external,priority:1" json:"owner_id"`
	PlatformID snowflake.ID `gorm:"not null;uniqueIndex:ux_affiliate_txns_external,priority:2" json:"platform_id"`
	// ExternalID is the platform's transaction id, the dedup key across
	// resyncs.
	ExternalID string `gorm:"type:text;not null;uniqueIndex:ux_affiliate_txns_external,priority:3" json:"external_id"`
	// MerchantID may be empty when the network omits it; the joiner then
	// falls back to campaign match rules.
	MerchantID   string         `gorm:"type:text;not null;default:'';index" json:"merchant_id"`
	Commission   float64        `gorm:"not null;default:0" json:"commission"`
	Currency     string         `gorm:"type:text;not null;default:USD" json:"currency"`
	Orders       int64          `gorm:"not null;default:1" json:"orders"`
	Status       Status         `gorm:"type:text;not null;default:pending" json:"status"`
	TransactedAt time.Time      `gorm:"not null;index" json:"transacted_at"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AffiliateTransaction) TableName() string { return "affiliate_transactions" }

// RejectedDayTotal is the grouped rejected-commission figure the
// rejected-commission watcher compares between sync runs.
type RejectedDayTotal struct {
	OwnerID    snowflake.ID `json:"owner_id"`
	PlatformID snowflake.ID `json:"platform_id"`
	Day        time.Time    `json:"day"`
	Rejected   float64      `json:"rejected"`
}
