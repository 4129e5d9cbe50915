package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListByRange(ctx context.Context, db *gorm.DB, ownerID, platformID snowflake.ID, begin, end time.Time) ([]ExpenseAdjustment, error)
	// Upsert writes by (owner_id, platform_id, adjust_date), last write wins.
	Upsert(ctx context.Context, db *gorm.DB, row *ExpenseAdjustment) error
}
