// Package googleads pulls daily campaign spend from the Google Ads reporting
// endpoint. It is cost-side only; it never reports commissions.
package googleads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://googleads.googleapis.com/v17"

type Provider struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func New(log *zap.Logger) *Provider {
	return &Provider{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.Named("provider.googleads"),
	}
}

// NewWithBaseURL points the provider at a different endpoint, used by tests.
func NewWithBaseURL(log *zap.Logger, baseURL string) *Provider {
	p := New(log)
	p.baseURL = baseURL
	return p
}

func (p *Provider) Code() string { return platformdomain.SourceGoogleAds }

type campaignMetric struct {
	CampaignName string  `json:"campaign_name"`
	CostMicros   int64   `json:"cost_micros"`
	Clicks       int64   `json:"clicks"`
	Impressions  int64   `json:"impressions"`
	BudgetMicros int64   `json:"budget_micros"`
	AverageCPC   float64 `json:"average_cpc"`
	Currency     string  `json:"currency_code"`
}

func (p *Provider) FetchDailyMetrics(ctx context.Context, account platformdomain.AffiliateAccount, day time.Time) ([]metricdomain.DailyMetric, error) {
	url := fmt.Sprintf("%s/customers/%s/campaignMetrics?date=%s",
		p.baseURL, account.Label, day.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+account.APIToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google ads request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google ads request: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Results []campaignMetric `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("google ads response: %w", err)
	}

	rows := make([]metricdomain.DailyMetric, 0, len(payload.Results))
	for _, m := range payload.Results {
		currency := m.Currency
		if currency == "" {
			currency = "USD"
		}
		rows = append(rows, metricdomain.DailyMetric{
			OwnerID:     account.OwnerID,
			PlatformID:  account.PlatformID,
			MetricDate:  day,
			CampaignKey: m.CampaignName,
			Cost:        float64(m.CostMicros) / 1e6,
			Currency:    currency,
			Clicks:      m.Clicks,
			Impressions: m.Impressions,
			Budget:      float64(m.BudgetMicros) / 1e6,
			CPC:         m.AverageCPC,
		})
	}
	return rows, nil
}

func (p *Provider) FetchTransactions(ctx context.Context, account platformdomain.AffiliateAccount, begin, end time.Time) ([]txndomain.AffiliateTransaction, error) {
	// Ads platforms have no commission side.
	return nil, nil
}
