package service

import (
	"testing"
	"time"

	adjustmentdomain "github.com/adlenslabs/adlens/internal/adjustment/domain"
	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adsPlatform = platformdomain.Platform{ID: 1, Code: platformdomain.SourceGoogleAds, Kind: platformdomain.KindAds}
	cgPlatform  = platformdomain.Platform{ID: 2, Code: "cg", Kind: platformdomain.KindAffiliate}
)

func day(d int) time.Time {
	return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractRejectsInvertedRange(t *testing.T) {
	_, err := Extract(day(15), day(10), nil, nil, nil, nil, 7.2)
	require.Error(t, err)
	assert.True(t, reportdomain.IsValidation(err))
}

func TestExtractEmitsDenseZeroRows(t *testing.T) {
	// Metrics exist for the 14th and 16th only; the 15th must still appear
	// as a zero-valued row for both platforms.
	metrics := []metricdomain.DailyMetric{
		{OwnerID: 1, PlatformID: cgPlatform.ID, MetricDate: day(14), Cost: 10, Currency: "USD", Clicks: 5},
		{OwnerID: 1, PlatformID: cgPlatform.ID, MetricDate: day(16), Cost: 20, Currency: "USD", Clicks: 8},
	}

	extracted, err := Extract(day(14), day(16),
		[]platformdomain.Platform{adsPlatform, cgPlatform}, metrics, nil, nil, 7.2)
	require.NoError(t, err)

	// 3 days x 2 platforms.
	require.Len(t, extracted.Days, 6)

	var gap *reportdomain.DailyPlatformRow
	for i := range extracted.Days {
		row := &extracted.Days[i]
		if row.Date.Equal(day(15)) && row.PlatformCode == "cg" {
			gap = row
		}
	}
	require.NotNil(t, gap, "missing day must still be emitted")
	assert.Equal(t, 0.0, gap.Cost)
	assert.Equal(t, int64(0), gap.Clicks)
}

func TestExtractConvertsCNYCost(t *testing.T) {
	metrics := []metricdomain.DailyMetric{
		{OwnerID: 1, PlatformID: adsPlatform.ID, MetricDate: day(14), CampaignKey: "shop_10423", Cost: 720, Currency: "CNY", Clicks: 100},
	}

	extracted, err := Extract(day(14), day(14),
		[]platformdomain.Platform{adsPlatform}, metrics, nil, nil, 7.2)
	require.NoError(t, err)

	require.Len(t, extracted.CostRows, 1)
	assert.Equal(t, 100.0, extracted.CostRows[0].Cost)
	assert.Equal(t, 100.0, extracted.Days[0].Cost)
}

func TestExtractDeduplicatesResyncedTransactions(t *testing.T) {
	at := day(14).Add(10 * time.Hour)
	txn := txndomain.AffiliateTransaction{
		OwnerID: 1, PlatformID: cgPlatform.ID, ExternalID: "txn-1",
		MerchantID: "10423", Commission: 40, Currency: "USD", Orders: 1,
		Status: txndomain.StatusApproved, TransactedAt: at,
	}

	// The same external id fetched twice must aggregate as one contribution.
	extracted, err := Extract(day(14), day(14),
		[]platformdomain.Platform{cgPlatform}, nil,
		[]txndomain.AffiliateTransaction{txn, txn}, nil, 7.2)
	require.NoError(t, err)

	require.Len(t, extracted.CommissionRows, 1)
	assert.Equal(t, 40.0, extracted.CommissionRows[0].Commission)
	assert.Equal(t, int64(1), extracted.CommissionRows[0].Orders)
	assert.Equal(t, 40.0, extracted.Days[0].Commission)
}

func TestExtractSplitsRejectedCommission(t *testing.T) {
	at := day(14).Add(time.Hour)
	txns := []txndomain.AffiliateTransaction{
		{OwnerID: 1, PlatformID: cgPlatform.ID, ExternalID: "a", MerchantID: "10423", Commission: 30, Orders: 1, Status: txndomain.StatusApproved, TransactedAt: at},
		{OwnerID: 1, PlatformID: cgPlatform.ID, ExternalID: "b", MerchantID: "10423", Commission: 12, Orders: 1, Status: txndomain.StatusRejected, TransactedAt: at},
	}

	extracted, err := Extract(day(14), day(14),
		[]platformdomain.Platform{cgPlatform}, nil, txns, nil, 7.2)
	require.NoError(t, err)

	require.Len(t, extracted.CommissionRows, 1)
	row := extracted.CommissionRows[0]
	assert.Equal(t, 30.0, row.Commission)
	assert.Equal(t, 12.0, row.Rejected)
	assert.Equal(t, int64(1), row.Orders, "rejected orders do not count")
}

func TestExtractAppliesAdjustments(t *testing.T) {
	metrics := []metricdomain.DailyMetric{
		{OwnerID: 1, PlatformID: cgPlatform.ID, MetricDate: day(14), Cost: 50, Currency: "USD"},
	}
	override := 9.0
	adjustments := []adjustmentdomain.ExpenseAdjustment{
		{OwnerID: 1, PlatformID: cgPlatform.ID, AdjustDate: day(14), ExtraCost: 5, RejectedCommission: &override},
	}

	extracted, err := Extract(day(14), day(14),
		[]platformdomain.Platform{cgPlatform}, metrics, nil, adjustments, 7.2)
	require.NoError(t, err)

	row := extracted.Days[0]
	assert.Equal(t, 55.0, row.Cost)
	assert.Equal(t, 9.0, row.Rejected)
}

func TestExtractIgnoresRowsOutsideRange(t *testing.T) {
	metrics := []metricdomain.DailyMetric{
		{OwnerID: 1, PlatformID: cgPlatform.ID, MetricDate: day(10), Cost: 99, Currency: "USD"},
		{OwnerID: 1, PlatformID: cgPlatform.ID, MetricDate: day(14), Cost: 10, Currency: "USD"},
	}

	extracted, err := Extract(day(14), day(14),
		[]platformdomain.Platform{cgPlatform}, metrics, nil, nil, 7.2)
	require.NoError(t, err)

	require.Len(t, extracted.Days, 1)
	assert.Equal(t, 10.0, extracted.Days[0].Cost)
}
