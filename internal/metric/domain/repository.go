package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// ListByRange returns rows with metric_date in [begin, end] inclusive,
	// optionally restricted to one platform (0 means all).
	ListByRange(ctx context.Context, db *gorm.DB, ownerID, platformID snowflake.ID, begin, end time.Time) ([]DailyMetric, error)
	// ReplaceDay swaps out every row for (owner, platform, day) in one
	// transaction. Synced metrics are immutable; resync replaces wholesale.
	ReplaceDay(ctx context.Context, db *gorm.DB, ownerID, platformID snowflake.ID, day time.Time, rows []DailyMetric) error
}
