package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/interfaces"
)

// scheduler refreshes screening results for a fixed ticker list on a cron
// schedule.
type scheduler struct {
	cron    *cron.Cron
	service interfaces.ScreenService
	logger  *common.Logger
	tickers []string
}

func newScheduler(service interfaces.ScreenService, logger *common.Logger, cfg common.ScheduleConfig) (*scheduler, error) {
	s := &scheduler{
		cron:    cron.New(cron.WithSeconds()),
		service: service,
		logger:  logger,
		tickers: cfg.Tickers,
	}

	if _, err := s.cron.AddFunc(cfg.Cron, s.refresh); err != nil {
		return nil, fmt.Errorf("register refresh schedule %q: %w", cfg.Cron, err)
	}

	return s, nil
}

func (s *scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Str("tickers", fmt.Sprintf("%v", s.tickers)).Msg("Scheduler started")
}

func (s *scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *scheduler) refresh() {
	start := time.Now()

	results := s.service.ScreenBatch(context.Background(), s.tickers)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	s.logger.Info().
		Int("tickers", len(results)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled refresh complete")
}
