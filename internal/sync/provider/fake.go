package provider

import (
	"context"
	"time"

	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
)

// Fake is a canned provider for tests. Metrics keyed by day, transactions
// returned for any window, errors returned verbatim.
type Fake struct {
	ProviderCode string
	Metrics      map[string][]metricdomain.DailyMetric
	Transactions []txndomain.AffiliateTransaction
	Err          error

	MetricCalls []time.Time
	TxnCalls    int
}

func (f *Fake) Code() string { return f.ProviderCode }

func (f *Fake) FetchDailyMetrics(ctx context.Context, account platformdomain.AffiliateAccount, day time.Time) ([]metricdomain.DailyMetric, error) {
	f.MetricCalls = append(f.MetricCalls, day)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Metrics[day.Format("2006-01-02")], nil
}

func (f *Fake) FetchTransactions(ctx context.Context, account platformdomain.AffiliateAccount, begin, end time.Time) ([]txndomain.AffiliateTransaction, error) {
	f.TxnCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Transactions, nil
}
