// Package interfaces defines service contracts for equityscan
package interfaces

import (
	"context"
	"time"

	"github.com/mbraddock/equityscan/internal/models"
)

// ScreenService runs the screening pipeline: fetch, clean, compute, detect,
// persist.
type ScreenService interface {
	// Screen runs the full pipeline for one ticker and returns the persisted
	// record. Fatal errors (*models.ProviderError, *models.EmptyDataError,
	// *models.InsufficientDataError) abort before persistence.
	Screen(ctx context.Context, ticker string, opts ...ScreenOption) (*models.ResultRecord, error)

	// ScreenBatch runs independent pipelines for multiple tickers. One
	// ticker's failure never aborts the others; outcomes are returned in
	// input order.
	ScreenBatch(ctx context.Context, tickers []string, opts ...ScreenOption) []BatchResult
}

// BatchResult holds the outcome of one ticker's pipeline within a batch run.
type BatchResult struct {
	Ticker string
	Record *models.ResultRecord
	Err    error
}

// ScreenOption configures a screening run
type ScreenOption func(*ScreenParams)

// ScreenParams holds screening run parameters
type ScreenParams struct {
	LookbackYears int       // 0 = config default
	EvalDate      time.Time // zero = latest available bar
	Workers       int       // batch concurrency, 0 = config default
}

// WithLookbackYears overrides the historical lookback window
func WithLookbackYears(years int) ScreenOption {
	return func(p *ScreenParams) {
		p.LookbackYears = years
	}
}

// WithEvalDate sets the evaluation date for metric computation
func WithEvalDate(date time.Time) ScreenOption {
	return func(p *ScreenParams) {
		p.EvalDate = date
	}
}

// WithWorkers sets batch concurrency
func WithWorkers(n int) ScreenOption {
	return func(p *ScreenParams) {
		p.Workers = n
	}
}
