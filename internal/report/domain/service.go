package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Daily returns per (platform, date) summaries for the inclusive range.
	// platformCode narrows to one platform when non-empty.
	Daily(ctx context.Context, ownerID snowflake.ID, begin, end time.Time, platformCode string) ([]DailySummary, error)
	// Range returns accumulated totals plus the calendar-day average profit.
	Range(ctx context.Context, ownerID snowflake.ID, begin, end time.Time) (*RangeSummary, error)
	// L7D returns the trailing 7-calendar-day window ending yesterday.
	L7D(ctx context.Context, ownerID snowflake.ID) (*RangeSummary, error)
	// Reconciliation joins cost rows to commission rows for one date,
	// retaining unattributed rows on both sides.
	Reconciliation(ctx context.Context, ownerID snowflake.ID, date time.Time) (*ReconciliationResult, error)
	// Team rolls the range up per user and per team. Managers only.
	Team(ctx context.Context, requesterID snowflake.ID, begin, end time.Time) (*TeamReport, error)
	// InvalidateCache drops cached summaries for the owner after an ingest.
	InvalidateCache(ctx context.Context, ownerID snowflake.ID) error
}
