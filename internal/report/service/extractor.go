package service

import (
	"time"

	adjustmentdomain "github.com/adlenslabs/adlens/internal/adjustment/domain"
	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
)

// Extracted is the normalized output of one extraction pass: the dense daily
// grain feeding the aggregator, plus the per-campaign cost rows and
// per-merchant commission rows feeding the joiner.
type Extracted struct {
	Days           []reportdomain.DailyPlatformRow
	CostRows       []reportdomain.CostRow
	CommissionRows []reportdomain.CommissionRow
}

type dayPlatformKey struct {
	day      time.Time
	platform snowflake.ID
}

type merchantKey struct {
	day      time.Time
	platform snowflake.ID
	merchant string
}

// Extract normalizes raw synced rows into the common shape. Every date in
// [begin, end] appears for every tracked platform; a silent source yields a
// zero-valued row rather than a gap, so trailing windows stay dense.
// Transactions are deduplicated by (platform, external id) before totalling,
// so overlapping window fetches never double count.
func Extract(
	begin, end time.Time,
	platforms []platformdomain.Platform,
	metrics []metricdomain.DailyMetric,
	txns []txndomain.AffiliateTransaction,
	adjustments []adjustmentdomain.ExpenseAdjustment,
	cnyRate float64,
) (*Extracted, error) {
	begin = reportdomain.DateOnly(begin)
	end = reportdomain.DateOnly(end)
	if end.Before(begin) {
		return nil, reportdomain.NewValidationError("date_range", "end before begin")
	}

	out := &Extracted{}

	// Cost side: one CostRow per metric row with a campaign key; totals per
	// (date, platform) for the dense grain.
	type dayTotals struct {
		cost, budget float64
		clicks, imps int64
		commission   float64
		rejected     float64
		orders       int64
	}
	totals := make(map[dayPlatformKey]*dayTotals)
	totalFor := func(day time.Time, platform snowflake.ID) *dayTotals {
		key := dayPlatformKey{day: day, platform: platform}
		t, ok := totals[key]
		if !ok {
			t = &dayTotals{}
			totals[key] = t
		}
		return t
	}

	for _, m := range metrics {
		day := reportdomain.DateOnly(m.MetricDate)
		if day.Before(begin) || day.After(end) {
			continue
		}
		cost := NormalizeAmount(m.Cost, m.Currency, cnyRate)

		t := totalFor(day, m.PlatformID)
		t.cost += cost
		t.clicks += m.Clicks
		t.imps += m.Impressions
		t.budget += m.Budget

		if m.CampaignKey != "" {
			out.CostRows = append(out.CostRows, reportdomain.CostRow{
				Date:        day,
				PlatformID:  m.PlatformID,
				Campaign:    m.CampaignKey,
				Cost:        cost,
				Clicks:      m.Clicks,
				Impressions: m.Impressions,
				CPC:         m.CPC,
			})
		}
	}

	// Commission side: dedupe by (platform, external id), last row wins,
	// then total per (date, platform, merchant).
	deduped := make(map[string]txndomain.AffiliateTransaction, len(txns))
	order := make([]string, 0, len(txns))
	for _, txn := range txns {
		key := txn.PlatformID.String() + "/" + txn.ExternalID
		if _, seen := deduped[key]; !seen {
			order = append(order, key)
		}
		deduped[key] = txn
	}

	merchants := make(map[merchantKey]*reportdomain.CommissionRow)
	merchantOrder := make([]merchantKey, 0)
	for _, key := range order {
		txn := deduped[key]
		day := reportdomain.DateOnly(txn.TransactedAt)
		if day.Before(begin) || day.After(end) {
			continue
		}
		amount := NormalizeAmount(txn.Commission, txn.Currency, cnyRate)

		mk := merchantKey{day: day, platform: txn.PlatformID, merchant: txn.MerchantID}
		row, ok := merchants[mk]
		if !ok {
			row = &reportdomain.CommissionRow{
				Date:       day,
				PlatformID: txn.PlatformID,
				MerchantID: txn.MerchantID,
			}
			merchants[mk] = row
			merchantOrder = append(merchantOrder, mk)
		}

		t := totalFor(day, txn.PlatformID)
		if txn.Status == txndomain.StatusRejected {
			row.Rejected += amount
			t.rejected += amount
		} else {
			row.Commission += amount
			row.Orders += txn.Orders
			t.commission += amount
			t.orders += txn.Orders
		}
	}
	for _, mk := range merchantOrder {
		out.CommissionRows = append(out.CommissionRows, *merchants[mk])
	}

	// Manual adjustments: extra cost supplements, rejected override replaces.
	for _, adj := range adjustments {
		day := reportdomain.DateOnly(adj.AdjustDate)
		if day.Before(begin) || day.After(end) {
			continue
		}
		t := totalFor(day, adj.PlatformID)
		t.cost += adj.ExtraCost
		if adj.RejectedCommission != nil {
			t.rejected = *adj.RejectedCommission
		}
	}

	// Dense grain: every (date, platform) cell, zero-valued when silent.
	for day := begin; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, p := range platforms {
			row := reportdomain.DailyPlatformRow{
				Date:         day,
				PlatformID:   p.ID,
				PlatformCode: p.Code,
			}
			if t, ok := totals[dayPlatformKey{day: day, platform: p.ID}]; ok {
				row.Cost = t.cost
				row.Clicks = t.clicks
				row.Impressions = t.imps
				row.Budget = t.budget
				row.Commission = t.commission
				row.Rejected = t.rejected
				row.Orders = t.orders
				if t.clicks > 0 {
					row.CPC = round(t.cost/float64(t.clicks), 4)
				}
			}
			out.Days = append(out.Days, row)
		}
	}

	return out, nil
}
