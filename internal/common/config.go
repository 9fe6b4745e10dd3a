// Package common provides shared utilities for equityscan
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for equityscan
type Config struct {
	Environment  string             `toml:"environment"`
	Storage      StorageConfig      `toml:"storage"`
	Clients      ClientsConfig      `toml:"clients"`
	Data         DataConfig         `toml:"data"`
	Fundamentals FundamentalsConfig `toml:"fundamentals"`
	Schedule     ScheduleConfig     `toml:"schedule"`
	Logging      LoggingConfig      `toml:"logging"`
}

// StorageConfig holds result store configuration.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// DataConfig holds data window settings for the screening pipeline.
type DataConfig struct {
	LookbackYears int `toml:"lookback_years"`
	SMAShort      int `toml:"sma_short"`
	SMALong       int `toml:"sma_long"`
	HighWindow    int `toml:"high_window"`
	BatchWorkers  int `toml:"batch_workers"`
}

// FundamentalsConfig maps provider response paths (gjson syntax) to the
// fundamental inputs of the book-value computation. The provider schema is not
// hard-coded: deployments against a different provider payload override these
// paths in config. Extra holds additional named numeric paths that carry no
// computation role but are captured into the snapshot's raw fields so they
// survive to the export.
type FundamentalsConfig struct {
	AsOf              string            `toml:"as_of"`
	BookValuePerShare string            `toml:"book_value_per_share"`
	TotalEquity       string            `toml:"total_equity"`
	PreferredEquity   string            `toml:"preferred_equity"`
	SharesOutstanding string            `toml:"shares_outstanding"`
	Extra             map[string]string `toml:"extra"`
}

// ScheduleConfig holds serve-mode refresh scheduling.
type ScheduleConfig struct {
	Cron    string   `toml:"cron"`
	Tickers []string `toml:"tickers"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Path: "data/results",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Data: DataConfig{
			LookbackYears: 5,
			SMAShort:      50,
			SMALong:       200,
			HighWindow:    252,
			BatchWorkers:  4,
		},
		Fundamentals: FundamentalsConfig{
			AsOf:              "General.UpdatedAt",
			BookValuePerShare: "Highlights.BookValue",
			TotalEquity:       "Highlights.TotalStockholderEquity",
			PreferredEquity:   "Highlights.PreferredEquity",
			SharesOutstanding: "SharesStats.SharesOutstanding",
			Extra: map[string]string{
				"pe_ratio":         "Highlights.PERatio",
				"eps":              "Highlights.EarningsShare",
				"revenue":          "Highlights.RevenueTTM",
				"enterprise_value": "Valuation.EnterpriseValue",
			},
		},
		Schedule: ScheduleConfig{
			Cron: "0 0 18 * * 1-5",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("EQUITYSCAN_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("EQUITYSCAN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("EQUITYSCAN_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if years := os.Getenv("EQUITYSCAN_LOOKBACK_YEARS"); years != "" {
		if y, err := strconv.Atoi(years); err == nil && y > 0 {
			config.Data.LookbackYears = y
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
