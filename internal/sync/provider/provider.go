// Package provider defines the external platform pull interface and the
// registry of implementations. Providers consume already-valid API tokens;
// token refresh is handled outside this service.
package provider

import (
	"context"
	"errors"
	"sort"
	"time"

	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
)

var ErrUnknownProvider = errors.New("unknown_provider")

type Provider interface {
	// Code matches Platform.Code for the platforms this provider serves.
	Code() string
	// FetchDailyMetrics pulls one calendar day of spend metrics. The caller
	// replaces the day wholesale, so the returned slice is authoritative.
	FetchDailyMetrics(ctx context.Context, account platformdomain.AffiliateAccount, day time.Time) ([]metricdomain.DailyMetric, error)
	// FetchTransactions pulls commission events inside [begin, end]. Rows
	// are upserted by external id, so re-delivery is harmless.
	FetchTransactions(ctx context.Context, account platformdomain.AffiliateAccount, begin, end time.Time) ([]txndomain.AffiliateTransaction, error)
}

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Code()] = p
	}
	return r
}

func (r *Registry) Get(code string) (Provider, error) {
	p, ok := r.providers[code]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.providers))
	for code := range r.providers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
