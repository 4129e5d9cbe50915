// Package affiliatenet pulls commission transactions from affiliate network
// APIs that follow the common JSON report shape (linkbux, collabglow and
// compatible networks). It is commission-side only; the daily metric it
// reports is the single rolled-up row for the day.
package affiliatenet

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
	"gorm.io/datatypes"
)

type Provider struct {
	code    string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// New builds a provider for one affiliate network. code must match the
// Platform.Code rows it serves; baseURL is the network's report endpoint.
func New(log *zap.Logger, code, baseURL string) *Provider {
	return &Provider{
		code:    code,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.Named("provider." + code),
	}
}

func (p *Provider) Code() string { return p.code }

type reportTransaction struct {
	TransactionID string  `json:"transaction_id"`
	MerchantID    string  `json:"merchant_id"`
	Commission    float64 `json:"commission"`
	Currency      string  `json:"currency"`
	Orders        int64   `json:"orders"`
	Status        string  `json:"status"`
	TransactedAt  string  `json:"transacted_at"`
}

func (p *Provider) FetchDailyMetrics(ctx context.Context, account platformdomain.AffiliateAccount, day time.Time) ([]metricdomain.DailyMetric, error) {
	// Affiliate networks carry no spend side; the commission figures come
	// through FetchTransactions.
	return nil, nil
}

func (p *Provider) FetchTransactions(ctx context.Context, account platformdomain.AffiliateAccount, begin, end time.Time) ([]txndomain.AffiliateTransaction, error) {
	url := fmt.Sprintf("%s/report/transactions?begin=%s&end=%s",
		p.baseURL, begin.Format("2006-01-02"), end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+account.APIToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", p.code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s request: unexpected status %d", p.code, resp.StatusCode)
	}

	var payload struct {
		Transactions []reportTransaction `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s response: %w", p.code, err)
	}

	rows := make([]txndomain.AffiliateTransaction, 0, len(payload.Transactions))
	for _, t := range payload.Transactions {
		transactedAt, err := time.ParseInLocation("2006-01-02 15:04:05", t.TransactedAt, time.UTC)
		if err != nil {
			p.log.Warn("skipping transaction with bad timestamp",
				zap.String("external_id", t.TransactionID),
				zap.String("transacted_at", t.TransactedAt))
			continue
		}
		status := txndomain.Status(t.Status)
		if !status.Valid() {
			status = txndomain.StatusPending
		}
		currency := t.Currency
		if currency == "" {
			currency = "USD"
		}
		orders := t.Orders
		if orders <= 0 {
			orders = 1
		}
		raw, _ := json.Marshal(t)
		rows = append(rows, txndomain.AffiliateTransaction{
			OwnerID:      account.OwnerID,
			PlatformID:   account.PlatformID,
			ExternalID:   t.TransactionID,
			MerchantID:   t.MerchantID,
			Commission:   t.Commission,
			Currency:     currency,
			Orders:       orders,
			Status:       status,
			TransactedAt: transactedAt,
			Metadata:     datatypes.JSON(raw),
		})
	}
	return rows, nil
}
