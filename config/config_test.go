package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
account:
  starting_capital: 2500
market:
  symbol: ETHUSDT
risk:
  risk_fraction: 0.02
  max_loss_streak: 5
exit:
  policy: fixed
  stop_percent: 0.015
monitor:
  interval: 30s
  timeout: 6h
engine:
  reset_hour_utc: 8
journal:
  backend: csv
  path: trades.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", cfg.Market.Symbol)
	assert.Equal(t, 2500.0, cfg.Account.StartingCapital)
	assert.Equal(t, 0.02, cfg.Risk.RiskFraction)
	assert.Equal(t, 5, cfg.Risk.MaxLossStreak)
	assert.Equal(t, "fixed", cfg.Exit.Policy)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval.Std())
	assert.Equal(t, 6*time.Hour, cfg.Monitor.Timeout.Std())
	assert.Equal(t, 8, cfg.Engine.ResetHourUTC)
	assert.Equal(t, "csv", cfg.Journal.Backend)

	// Untouched sections keep their defaults.
	assert.Equal(t, "1h", cfg.Market.TrendInterval)
	assert.Equal(t, 21, cfg.Strategy.EMAFast)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "monitor:\n  interval: soon\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "duration")
}

func TestValidate_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mod  func(*Config)
		want string
	}{
		{"zero capital", func(c *Config) { c.Account.StartingCapital = 0 }, "starting_capital"},
		{"empty symbol", func(c *Config) { c.Market.Symbol = "" }, "symbol"},
		{"risk fraction too large", func(c *Config) { c.Risk.RiskFraction = 1 }, "risk_fraction"},
		{"negative fee", func(c *Config) { c.Risk.FeeRate = -0.01 }, "fee_rate"},
		{"zero step", func(c *Config) { c.Risk.StepSize = 0 }, "step_size"},
		{"drawdown out of range", func(c *Config) { c.Risk.MaxDrawdown = 1 }, "max_drawdown"},
		{"unknown exit policy", func(c *Config) { c.Exit.Policy = "trailing" }, "exit.policy"},
		{"fixed without stop", func(c *Config) { c.Exit.Policy = "fixed"; c.Exit.StopPercent = 0 }, "stop_percent"},
		{"zero monitor interval", func(c *Config) { c.Monitor.Interval = 0 }, "monitor.interval"},
		{"reset hour out of range", func(c *Config) { c.Engine.ResetHourUTC = 24 }, "reset_hour_utc"},
		{"unknown journal backend", func(c *Config) { c.Journal.Backend = "parquet" }, "journal.backend"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mod(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
