package models

import (
	"time"
)

// CrossKind identifies the direction of an SMA crossover.
type CrossKind string

const (
	CrossGolden CrossKind = "golden"
	CrossDeath  CrossKind = "death"
)

// CrossoverEvent records a single SMA crossover on a trading day.
type CrossoverEvent struct {
	Kind CrossKind `json:"type"`
	Date time.Time `json:"date"`
}

// ComputedMetrics holds the technical and fundamental metrics for one
// (ticker, date). Metric fields are nil when the metric could not be computed
// under its window/input policy; they are never fabricated.
type ComputedMetrics struct {
	Ticker            string    `json:"ticker"`
	Date              time.Time `json:"date"`
	Close             float64   `json:"close"`
	SMA50             *float64  `json:"sma_50"`
	SMA200            *float64  `json:"sma_200"`
	High52W           *float64  `json:"high_52w"`
	PctFromHigh       *float64  `json:"pct_from_high"`
	BookValuePerShare *float64  `json:"book_value_per_share"`
	PriceToBook       *float64  `json:"price_to_book"`
}

// ResultRecord is the consolidated output of one screening run and the unit of
// persistence and export. At most one record exists per (ticker, date) key;
// upserts overwrite the whole record.
type ResultRecord struct {
	ID                string        `json:"id"`
	Ticker            string        `json:"ticker"`
	Date              time.Time     `json:"date"`
	Close             float64       `json:"close"`
	SMA50             *float64      `json:"sma_50"`
	SMA200            *float64      `json:"sma_200"`
	High52W           *float64      `json:"high_52w"`
	PctFromHigh       *float64      `json:"pct_from_high"`
	BookValuePerShare *float64      `json:"book_value_per_share"`
	PriceToBook       *float64      `json:"price_to_book"`
	GoldenCrossDates  []time.Time   `json:"golden_cross_dates"`
	DeathCrossDates   []time.Time   `json:"death_cross_dates"`
	Fundamentals      *Fundamentals `json:"fundamentals,omitempty"`
	Warnings          []string      `json:"warnings,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Key returns the composite storage key for this record.
func (r *ResultRecord) Key() string {
	return ResultKey(r.Ticker, r.Date)
}

// ResultKey builds the composite (ticker, date) storage key.
func ResultKey(ticker string, date time.Time) string {
	return ticker + "|" + date.Format("2006-01-02")
}
