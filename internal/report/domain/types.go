// Package domain defines the report pipeline's row shapes and summary
// outputs. Everything here is computed on demand from synced rows; nothing is
// persisted pre-aggregated, so rate or rule changes apply retroactively.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DateOnly truncates to a UTC calendar date. All window arithmetic in the
// pipeline is timezone-naive UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CostRow is one ad-side observation: a campaign's spend for one date, cost
// already normalized to USD.
type CostRow struct {
	Date        time.Time    `json:"date"`
	PlatformID  snowflake.ID `json:"platform_id"`
	Campaign    string       `json:"campaign"`
	Cost        float64      `json:"cost"`
	Clicks      int64        `json:"clicks"`
	Impressions int64        `json:"impressions"`
	CPC         float64      `json:"cpc"`
}

// CommissionRow is the commission side: per (date, merchant) totals
// aggregated from deduplicated transactions.
type CommissionRow struct {
	Date       time.Time    `json:"date"`
	PlatformID snowflake.ID `json:"platform_id"`
	MerchantID string       `json:"merchant_id"`
	Commission float64      `json:"commission"`
	Rejected   float64      `json:"rejected"`
	Orders     int64        `json:"orders"`
}

// DailyPlatformRow is the dense normalized grain: one row per (date,
// platform) across the requested range, zero-valued where a source reported
// nothing. Density keeps trailing-window aggregates honest.
type DailyPlatformRow struct {
	Date         time.Time    `json:"date"`
	PlatformID   snowflake.ID `json:"platform_id"`
	PlatformCode string       `json:"platform_code"`
	Cost         float64      `json:"cost"`
	Clicks       int64        `json:"clicks"`
	Impressions  int64        `json:"impressions"`
	Budget       float64      `json:"budget"`
	CPC          float64      `json:"cpc"`
	Commission   float64      `json:"commission"`
	Rejected     float64      `json:"rejected"`
	Orders       int64        `json:"orders"`
}

// ReconciledRow joins a merchant's ad spend to its commission for one date,
// with the derived ratios attached.
type ReconciledRow struct {
	Date        time.Time `json:"date"`
	MerchantID  string    `json:"merchant_id"`
	Cost        float64   `json:"cost"`
	Clicks      int64     `json:"clicks"`
	Impressions int64     `json:"impressions"`
	Commission  float64   `json:"commission"`
	Rejected    float64   `json:"rejected"`
	Orders      int64     `json:"orders"`
	EPC         Ratio     `json:"epc"`
	ROI         Ratio     `json:"roi"`
	// CostRowCount is how many campaign rows merged into this merchant row,
	// so callers can reconcile row accounting back to the input.
	CostRowCount int `json:"cost_row_count"`
}

// ReconciliationResult keeps every input row accounted for: matched rows plus
// the unattributed remainder on both sides. Nothing is dropped, so totals
// reconcile to 100% of known spend and commission.
type ReconciliationResult struct {
	Date                   time.Time       `json:"date"`
	Matched                []ReconciledRow `json:"matched"`
	UnattributedCost       []CostRow       `json:"unattributed_cost"`
	UnattributedCommission []CommissionRow `json:"unattributed_commission"`
}

// DailySummary is the per (platform, date) financial rollup.
type DailySummary struct {
	Date         time.Time    `json:"date"`
	PlatformID   snowflake.ID `json:"platform_id"`
	PlatformCode string       `json:"platform_code"`
	Commission   float64      `json:"commission"`
	AdCost       float64      `json:"ad_cost"`
	Rejected     float64      `json:"rejected"`
	NetProfit    float64      `json:"net_profit"`
	Clicks       int64        `json:"clicks"`
	Orders       int64        `json:"orders"`
	EPC          Ratio        `json:"epc"`
	ROI          Ratio        `json:"roi"`
}

// RangeSummary accumulates an inclusive [begin, end] window. AvgDailyProfit
// divides by calendar days in the range; idle days still count.
type RangeSummary struct {
	Begin          time.Time `json:"begin"`
	End            time.Time `json:"end"`
	Days           int       `json:"days"`
	Commission     float64   `json:"commission"`
	AdCost         float64   `json:"ad_cost"`
	Rejected       float64   `json:"rejected"`
	NetProfit      float64   `json:"net_profit"`
	AvgDailyProfit float64   `json:"avg_daily_profit"`
	Clicks         int64     `json:"clicks"`
	Orders         int64     `json:"orders"`
	EPC            Ratio     `json:"epc"`
	ROI            Ratio     `json:"roi"`
}

// UserSummary is one user's range totals inside a team report.
type UserSummary struct {
	UserID      snowflake.ID `json:"user_id"`
	DisplayName string       `json:"display_name"`
	RangeSummary
}

// TeamSummary groups user summaries; team totals are recomputed from the
// underlying rows, not summed from the user summaries.
type TeamSummary struct {
	TeamID   snowflake.ID  `json:"team_id"`
	TeamName string        `json:"team_name"`
	Users    []UserSummary `json:"users"`
	RangeSummary
}

type TeamReport struct {
	Begin time.Time     `json:"begin"`
	End   time.Time     `json:"end"`
	Teams []TeamSummary `json:"teams"`
}
