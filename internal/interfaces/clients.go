// Package interfaces defines service contracts for equityscan
package interfaces

import (
	"context"
	"time"

	"github.com/mbraddock/equityscan/internal/models"
)

// MarketDataClient provides access to the price/fundamentals provider.
// Implementations surface typed failures: *models.ProviderError for
// network/rate-limit/unknown-ticker, *models.EmptyDataError when a ticker
// resolves but returns zero bars.
type MarketDataClient interface {
	// GetEOD retrieves daily price bars, ascending by date
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) ([]models.PriceBar, error)

	// GetFundamentals retrieves a single fundamentals snapshot
	GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From   time.Time
	To     time.Time
	Period string // d=daily, w=weekly, m=monthly
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// WithPeriod sets the period for EOD query
func WithPeriod(period string) EODOption {
	return func(p *EODParams) {
		p.Period = period
	}
}
