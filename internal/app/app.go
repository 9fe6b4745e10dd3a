// Package app wires configuration, storage, clients, and services together.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mbraddock/equityscan/internal/clients/eodhd"
	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/interfaces"
	"github.com/mbraddock/equityscan/internal/services/screen"
	"github.com/mbraddock/equityscan/internal/storage/badger"
)

// App holds all initialized services, clients, and storage. It is the shared
// core used by cmd/equityscan.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Store         *badger.Store
	Results       interfaces.ResultStore
	Client        interfaces.MarketDataClient
	ScreenService interfaces.ScreenService
	StartupTime   time.Time

	scheduler *scheduler
}

// NewApp initializes configuration, logging, storage, the provider client,
// and the screening service. configPath may be empty, in which case
// EQUITYSCAN_CONFIG and a config-dir fallback are tried.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	if configPath == "" {
		configPath = os.Getenv("EQUITYSCAN_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join("config", "equityscan.toml")
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	results := badger.NewResultStorage(store, logger)

	if config.Clients.EODHD.APIKey == "" {
		logger.Warn().Msg("EODHD API key not configured - provider calls will be rejected")
	}

	client := eodhd.NewClient(config.Clients.EODHD.APIKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		eodhd.WithFieldMapping(config.Fundamentals),
		eodhd.WithLogger(logger),
	)

	screenService := screen.NewService(client, results, logger, config)

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return &App{
		Config:        config,
		Logger:        logger,
		Store:         store,
		Results:       results,
		Client:        client,
		ScreenService: screenService,
		StartupTime:   startupStart,
	}, nil
}

// StartScheduler starts the cron-driven batch refresh for the configured
// tickers. No-op when no schedule tickers are configured.
func (a *App) StartScheduler() error {
	if len(a.Config.Schedule.Tickers) == 0 {
		a.Logger.Info().Msg("Scheduler: no tickers configured, not starting")
		return nil
	}

	s, err := newScheduler(a.ScreenService, a.Logger, a.Config.Schedule)
	if err != nil {
		return err
	}
	a.scheduler = s
	a.scheduler.Start()
	return nil
}

// Close shuts down background work and storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to close storage")
	}
}
