package service

import (
	"sort"
	"strings"
	"time"
	"unicode"

	matchruledomain "github.com/adlenslabs/adlens/internal/matchrule/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
)

// MIDExtractor derives a merchant identifier from a campaign name. The exact
// naming convention varies between accounts, so the rule is pluggable rather
// than hard-coded.
type MIDExtractor interface {
	ExtractMID(campaign string) (string, bool)
}

// SeparatorMIDExtractor implements the default convention: the trailing
// numeric token after the last separator, e.g. "shop_electronics_10423".
type SeparatorMIDExtractor struct {
	Separator string
}

func (e SeparatorMIDExtractor) ExtractMID(campaign string) (string, bool) {
	sep := e.Separator
	if sep == "" {
		sep = "_"
	}
	idx := strings.LastIndex(campaign, sep)
	if idx < 0 || idx == len(campaign)-len(sep) {
		return "", false
	}
	token := campaign[idx+len(sep):]
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return "", false
		}
	}
	return token, true
}

// Reconcile joins cost rows to commission rows by merchant and date.
// Resolution order per cost row: merchant id extracted from the campaign
// name, then the first matching campaign rule in descending priority.
// Cost rows sharing a resolved (date, merchant) merge into one reconciled
// row. Rows that resolve to no counterpart are returned unattributed, never
// dropped.
func Reconcile(
	date time.Time,
	costRows []reportdomain.CostRow,
	commissionRows []reportdomain.CommissionRow,
	rules []matchruledomain.MatchRule,
	extractor MIDExtractor,
) *reportdomain.ReconciliationResult {
	date = reportdomain.DateOnly(date)
	result := &reportdomain.ReconciliationResult{Date: date}

	// Commission lookup by (date, merchant). Merchant ids are platform
	// reported; an empty merchant id can only be reached via a match rule.
	type commissionKey struct {
		day      time.Time
		merchant string
	}
	commissions := make(map[commissionKey]*reportdomain.CommissionRow, len(commissionRows))
	for i := range commissionRows {
		row := &commissionRows[i]
		key := commissionKey{day: reportdomain.DateOnly(row.Date), merchant: row.MerchantID}
		if existing, ok := commissions[key]; ok {
			existing.Commission += row.Commission
			existing.Rejected += row.Rejected
			existing.Orders += row.Orders
			continue
		}
		clone := *row
		commissions[key] = &clone
	}

	ordered := make([]matchruledomain.MatchRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority > ordered[j].Priority })

	resolveMID := func(campaign string) (string, bool) {
		if extractor != nil {
			if mid, ok := extractor.ExtractMID(campaign); ok {
				return mid, true
			}
		}
		for _, rule := range ordered {
			if rule.Matches(campaign) {
				return rule.MerchantID, true
			}
		}
		return "", false
	}

	type joined struct {
		row      reportdomain.ReconciledRow
		consumed *reportdomain.CommissionRow
	}
	matched := make(map[string]*joined)
	matchedOrder := make([]string, 0)
	consumedCommission := make(map[commissionKey]bool)

	for _, cost := range costRows {
		day := reportdomain.DateOnly(cost.Date)
		mid, ok := resolveMID(cost.Campaign)
		if !ok {
			result.UnattributedCost = append(result.UnattributedCost, cost)
			continue
		}
		key := commissionKey{day: day, merchant: mid}
		commission, exists := commissions[key]
		if !exists {
			result.UnattributedCost = append(result.UnattributedCost, cost)
			continue
		}

		j, ok := matched[mid]
		if !ok {
			j = &joined{
				row: reportdomain.ReconciledRow{
					Date:       day,
					MerchantID: mid,
					Commission: commission.Commission,
					Rejected:   commission.Rejected,
					Orders:     commission.Orders,
				},
				consumed: commission,
			}
			matched[mid] = j
			matchedOrder = append(matchedOrder, mid)
			consumedCommission[key] = true
		}
		j.row.Cost += cost.Cost
		j.row.Clicks += cost.Clicks
		j.row.Impressions += cost.Impressions
		j.row.CostRowCount++
	}

	for _, mid := range matchedOrder {
		j := matched[mid]
		row := j.row

		row.EPC = CalculateEPC(float64Ptr(row.Commission), int64Ptr(row.Clicks))
		var cpc *float64
		if row.Clicks > 0 {
			cpc = float64Ptr(round(row.Cost/float64(row.Clicks), 4))
		}
		row.ROI = CalculateROI(row.EPC, cpc)

		result.Matched = append(result.Matched, row)
	}

	for _, row := range commissionRows {
		key := commissionKey{day: reportdomain.DateOnly(row.Date), merchant: row.MerchantID}
		if !consumedCommission[key] {
			// Report the merged totals for the key, not the first raw row,
			// so duplicate-keyed commission still reconciles to 100%.
			result.UnattributedCommission = append(result.UnattributedCommission, *commissions[key])
			consumedCommission[key] = true
		}
	}

	return result
}
