package domain

import (
	"context"
	"time"

	"github.com/adlenslabs/adlens/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// ListByRange returns transactions with transacted_at inside
	// [begin, end of day end] for the owner, optionally filtered by merchant.
	ListByRange(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time, merchantID string) ([]AffiliateTransaction, error)
	// ListPage is the paginated variant backing the drill-down listing.
	ListPage(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time, merchantID string, page pagination.Pagination) ([]AffiliateTransaction, error)
	// UpsertBatch inserts or updates by (owner_id, platform_id, external_id).
	// Amount and status take the incoming values; rows are never duplicated.
	UpsertBatch(ctx context.Context, db *gorm.DB, rows []AffiliateTransaction) error
	// RejectedTotalsByDay groups rejected commission per (platform, day)
	// over the window.
	RejectedTotalsByDay(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time) ([]RejectedDayTotal, error)
}
