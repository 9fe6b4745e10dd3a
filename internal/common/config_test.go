package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "https://eodhd.com/api", cfg.Clients.EODHD.BaseURL)
	assert.Equal(t, 5, cfg.Data.LookbackYears)
	assert.Equal(t, 50, cfg.Data.SMAShort)
	assert.Equal(t, 200, cfg.Data.SMALong)
	assert.Equal(t, 252, cfg.Data.HighWindow)
	assert.Equal(t, 4, cfg.Data.BatchWorkers)
	assert.Equal(t, "Highlights.BookValue", cfg.Fundamentals.BookValuePerShare)
	assert.Equal(t, "Valuation.EnterpriseValue", cfg.Fundamentals.Extra["enterprise_value"])
	assert.Equal(t, "Highlights.PERatio", cfg.Fundamentals.Extra["pe_ratio"])
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/equityscan.toml")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Data.LookbackYears)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equityscan.toml")
	content := `
environment = "production"

[clients.eodhd]
api_key = "file-key"
timeout = "10s"

[data]
lookback_years = 2
batch_workers = 8

[fundamentals]
total_equity = "balanceSheet.equity"

[fundamentals.extra]
net_income = "income.net"

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "file-key", cfg.Clients.EODHD.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Clients.EODHD.GetTimeout())
	assert.Equal(t, 2, cfg.Data.LookbackYears)
	assert.Equal(t, 8, cfg.Data.BatchWorkers)
	assert.Equal(t, "balanceSheet.equity", cfg.Fundamentals.TotalEquity)
	// Extra entries merge over the defaults rather than replacing them.
	assert.Equal(t, "income.net", cfg.Fundamentals.Extra["net_income"])
	assert.Equal(t, "Highlights.PERatio", cfg.Fundamentals.Extra["pe_ratio"])
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Sections absent from the file keep their defaults.
	assert.Equal(t, 50, cfg.Data.SMAShort)
	assert.Equal(t, "https://eodhd.com/api", cfg.Clients.EODHD.BaseURL)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EQUITYSCAN_ENV", "prod")
	t.Setenv("EQUITYSCAN_LOG_LEVEL", "warn")
	t.Setenv("EQUITYSCAN_DATA_PATH", "/var/lib/equityscan")
	t.Setenv("EODHD_API_KEY", "env-key")
	t.Setenv("EQUITYSCAN_LOOKBACK_YEARS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/var/lib/equityscan", cfg.Storage.Path)
	assert.Equal(t, "env-key", cfg.Clients.EODHD.APIKey)
	assert.Equal(t, 3, cfg.Data.LookbackYears)
}

func TestLoadConfig_InvalidLookbackEnvIgnored(t *testing.T) {
	t.Setenv("EQUITYSCAN_LOOKBACK_YEARS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Data.LookbackYears)
}

func TestGetTimeout_InvalidFallsBack(t *testing.T) {
	cfg := EODHDConfig{Timeout: "banana"}
	assert.Equal(t, 30*time.Second, cfg.GetTimeout())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.True(t, (&Config{Environment: " PROD "}).IsProduction())
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
	assert.False(t, (&Config{Environment: ""}).IsProduction())
}
