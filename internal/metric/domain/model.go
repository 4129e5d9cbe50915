// Package domain holds the per-source daily measurement rows. One row is a
// single platform's figures for one (owner, date); it is replaced wholesale
// on resync and never edited in place.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type DailyMetric struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID     snowflake.ID `gorm:"not null;uniqueIndex:ux_daily_metrics_key,priority:1" json:"owner_id"`
	PlatformID  snowflake.ID `gorm:"not null;uniqueIndex:ux_daily_metrics_key,priority:2" json:"platform_id"`
	MetricDate  time.Time    `gorm:"type:date;not null;uniqueIndex:ux_daily_metrics_key,priority:3" json:"metric_date"`
	// CampaignKey is the raw campaign name for ad-source rows; affiliate
	// platforms report a single daily row and leave it empty.
	CampaignKey string `gorm:"type:text;not null;default:'';uniqueIndex:ux_daily_metrics_key,priority:4" json:"campaign_key"`
	Cost        float64      `gorm:"not null;default:0" json:"cost"`
	// Currency the cost was reported in. Conversion happens on read so a
	// rate change never requires a backfill.
	Currency    string    `gorm:"type:text;not null;default:USD" json:"currency"`
	Clicks      int64     `gorm:"not null;default:0" json:"clicks"`
	Impressions int64     `gorm:"not null;default:0" json:"impressions"`
	Budget      float64   `gorm:"not null;default:0" json:"budget"`
	CPC         float64   `gorm:"not null;default:0" json:"cpc"`
	SyncedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"synced_at"`
}

func (DailyMetric) TableName() string { return "daily_metrics" }
