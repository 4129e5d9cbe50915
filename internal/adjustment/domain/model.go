// Package domain holds manual expense adjustments: per (owner, platform,
// date) overrides for cost and rejected commission that the automatic sync
// cannot know about. Upserts are last-write-wins.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ExpenseAdjustment struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID    snowflake.ID `gorm:"not null;uniqueIndex:ux_expense_adjustments_key,priority:1" json:"owner_id"`
	PlatformID snowflake.ID `gorm:"not null;uniqueIndex:ux_expense_adjustments_key,priority:2" json:"platform_id"`
	AdjustDate time.Time    `gorm:"type:date;not null;uniqueIndex:ux_expense_adjustments_key,priority:3" json:"adjust_date"`
	// ExtraCost supplements the synced ad cost for the day.
	ExtraCost float64 `gorm:"not null;default:0" json:"extra_cost"`
	// RejectedCommission overrides the synced rejected total when set.
	RejectedCommission *float64  `json:"rejected_commission,omitempty"`
	Note               string    `gorm:"type:text;not null;default:''" json:"note"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ExpenseAdjustment) TableName() string { return "expense_adjustments" }
