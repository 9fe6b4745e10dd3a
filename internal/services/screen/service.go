// Package screen implements the equity screening pipeline
package screen

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mbraddock/equityscan/internal/clients/eodhd"
	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/interfaces"
	"github.com/mbraddock/equityscan/internal/models"
	"github.com/mbraddock/equityscan/internal/signals"
)

// Service implements ScreenService
type Service struct {
	client interfaces.MarketDataClient
	store  interfaces.ResultStore
	logger *common.Logger
	cfg    *common.Config
}

// NewService creates a new screen service
func NewService(client interfaces.MarketDataClient, store interfaces.ResultStore, logger *common.Logger, cfg *common.Config) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
}

// Screen runs the full pipeline for one ticker: fetch, clean, compute, detect,
// persist. Fatal errors abort before persistence; no partial record is ever
// written. Fundamentals failures are downgraded to warnings.
func (s *Service) Screen(ctx context.Context, ticker string, opts ...interfaces.ScreenOption) (*models.ResultRecord, error) {
	params := s.params(opts)

	normalized, err := eodhd.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	from := now.AddDate(-params.LookbackYears, 0, 0)

	bars, err := s.client.GetEOD(ctx, normalized, interfaces.WithDateRange(from, now))
	if err != nil {
		return nil, err
	}

	var warnings []string
	fundamentals, err := s.client.GetFundamentals(ctx, normalized)
	if err != nil {
		s.logger.Warn().Str("ticker", normalized).Err(err).Msg("Fundamentals fetch failed; continuing without")
		warnings = append(warnings, "fundamentals fetch failed for "+normalized)
		fundamentals = nil
	}

	series, err := Clean(normalized, bars)
	if err != nil {
		return nil, err
	}

	metrics, computeWarnings, err := ComputeMetrics(normalized, series, fundamentals, params.EvalDate, s.cfg.Data)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, computeWarnings...)

	golden, death := signals.CrossoverDates(series, s.cfg.Data.SMAShort, s.cfg.Data.SMALong)

	record := &models.ResultRecord{
		ID:                uuid.NewString(),
		Ticker:            normalized,
		Date:              metrics.Date,
		Close:             metrics.Close,
		SMA50:             metrics.SMA50,
		SMA200:            metrics.SMA200,
		High52W:           metrics.High52W,
		PctFromHigh:       metrics.PctFromHigh,
		BookValuePerShare: metrics.BookValuePerShare,
		PriceToBook:       metrics.PriceToBook,
		GoldenCrossDates:  golden,
		DeathCrossDates:   death,
		Fundamentals:      fundamentals,
		Warnings:          warnings,
		CreatedAt:         now,
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("ticker", normalized).
		Str("date", record.Date.Format("2006-01-02")).
		Int("bars", len(series)).
		Int("golden", len(golden)).
		Int("death", len(death)).
		Int("warnings", len(warnings)).
		Msg("Screen complete")

	return record, nil
}

// ScreenBatch runs independent pipelines for multiple tickers on a bounded
// worker pool. Tickers share no mutable state; one failure never aborts the
// rest. Outcomes are returned in input order.
func (s *Service) ScreenBatch(ctx context.Context, tickers []string, opts ...interfaces.ScreenOption) []interfaces.BatchResult {
	params := s.params(opts)

	workers := params.Workers
	if workers > len(tickers) {
		workers = len(tickers)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]interfaces.BatchResult, len(tickers))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, err := s.Screen(ctx, tickers[i], opts...)
				results[i] = interfaces.BatchResult{Ticker: tickers[i], Record: record, Err: err}
				if err != nil {
					s.logger.Warn().Str("ticker", tickers[i]).Err(err).Msg("Batch ticker failed")
				}
			}
		}()
	}

	for i := range tickers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (s *Service) params(opts []interfaces.ScreenOption) *interfaces.ScreenParams {
	params := &interfaces.ScreenParams{
		LookbackYears: s.cfg.Data.LookbackYears,
		Workers:       s.cfg.Data.BatchWorkers,
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.LookbackYears <= 0 {
		params.LookbackYears = common.NewDefaultConfig().Data.LookbackYears
	}
	return params
}

// Ensure Service implements ScreenService
var _ interfaces.ScreenService = (*Service)(nil)
