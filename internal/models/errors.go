package models

import (
	"fmt"
)

// MinCleanBars is the minimum number of cleaned bars required before metric
// computation can proceed. Multi-day history metrics are undefined below it.
const MinCleanBars = 2

// ProviderError indicates the data provider failed: network error, rate limit,
// or an unknown ticker. Fatal for the ticker's run; never retried here.
type ProviderError struct {
	Ticker     string
	StatusCode int
	Endpoint   string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider error for %s: %v", e.Ticker, e.Err)
	}
	return fmt.Sprintf("provider error for %s: status %d (endpoint: %s)", e.Ticker, e.StatusCode, e.Endpoint)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// EmptyDataError indicates the ticker resolved but the provider returned zero
// bars. Terminal for the ticker's run.
type EmptyDataError struct {
	Ticker string
}

func (e *EmptyDataError) Error() string {
	return fmt.Sprintf("no price data returned for %s", e.Ticker)
}

// InsufficientDataError indicates fewer than MinCleanBars bars remained after
// cleaning, so multi-day metrics cannot be produced. Terminal for the ticker.
type InsufficientDataError struct {
	Ticker string
	Bars   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %d bars after cleaning (need %d)", e.Ticker, e.Bars, MinCleanBars)
}
