// Package models defines data structures for equityscan
package models

import (
	"time"
)

// PriceBar represents a single day's price data as returned by the provider.
// Value fields are pointers: a nil field means the provider did not supply a
// value for that day. Close may be forward-filled during cleaning; Open, High,
// Low and Volume are never synthesized.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   *float64  `json:"open"`
	High   *float64  `json:"high"`
	Low    *float64  `json:"low"`
	Close  *float64  `json:"close"`
	Volume *int64    `json:"volume"`
}

// CloseValue returns the close price, or 0 when absent. Use only on cleaned
// bars where Close is known to be non-nil.
func (b PriceBar) CloseValue() float64 {
	if b.Close == nil {
		return 0
	}
	return *b.Close
}

// Fundamentals holds a single fundamentals snapshot for a ticker. The snapshot
// is not a time series: one record per screening run, attached to the result
// record as-is. All value fields are optional. RawFields preserves every
// mapped numeric field the provider returned so unmapped data survives export.
type Fundamentals struct {
	Ticker            string             `json:"ticker"`
	AsOf              time.Time          `json:"as_of"`
	BookValuePerShare *float64           `json:"book_value_per_share,omitempty"`
	TotalEquity       *float64           `json:"total_equity,omitempty"`
	PreferredEquity   *float64           `json:"preferred_equity,omitempty"`
	SharesOutstanding *float64           `json:"shares_outstanding,omitempty"`
	RawFields         map[string]float64 `json:"raw_fields,omitempty"`
}

// Float returns a pointer to v. Convenience for building nullable fields.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int64) *int64 {
	return &v
}
