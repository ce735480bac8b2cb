// Package config loads the bot configuration from YAML. Secrets (exchange
// keys, bot tokens) never live in the file; they come from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "5m" or "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Account struct {
	StatePath       string  `yaml:"state_path"`
	StartingCapital float64 `yaml:"starting_capital"`
}

type Market struct {
	Symbol          string `yaml:"symbol"`
	TrendInterval   string `yaml:"trend_interval"`
	TriggerInterval string `yaml:"trigger_interval"`
	CandleLimit     int    `yaml:"candle_limit"`
}

type Strategy struct {
	EMAFast     int     `yaml:"ema_fast"`
	EMASlow     int     `yaml:"ema_slow"`
	StochPeriod int     `yaml:"stoch_period"`
	ATRPeriod   int     `yaml:"atr_period"`
	ADXPeriod   int     `yaml:"adx_period"`
	Oversold    float64 `yaml:"oversold"`
	Overbought  float64 `yaml:"overbought"`
	MinADX      float64 `yaml:"min_adx"`
	MinATRRatio float64 `yaml:"min_atr_ratio"`
}

type Risk struct {
	RiskFraction    float64 `yaml:"risk_fraction"`
	FeeRate         float64 `yaml:"fee_rate"`
	FeeAdjusted     bool    `yaml:"fee_adjusted_sizing"`
	StepSize        float64 `yaml:"step_size"`
	MinQuantity     float64 `yaml:"min_quantity"`
	MaxLeverage     float64 `yaml:"max_leverage"`
	MaxLossStreak   int     `yaml:"max_loss_streak"`
	MaxDrawdown     float64 `yaml:"max_drawdown"`
}

type Exit struct {
	Policy      string  `yaml:"policy"` // "fixed" or "atr"
	StopPercent float64 `yaml:"stop_percent"`
	ATRMultiple float64 `yaml:"atr_multiple"`
	RewardRisk  float64 `yaml:"reward_risk"`
}

type Monitor struct {
	Interval         Duration `yaml:"interval"`
	Timeout          Duration `yaml:"timeout"`
	MaxFetchFailures int      `yaml:"max_fetch_failures"`
}

type Engine struct {
	PollInterval Duration `yaml:"poll_interval"`
	Cooldown     Duration `yaml:"cooldown"`
	ResetHourUTC int      `yaml:"reset_hour_utc"`
}

type Journal struct {
	Backend string `yaml:"backend"` // "sqlite" or "csv"
	Path    string `yaml:"path"`
}

type Notify struct {
	TelegramChatID int64 `yaml:"telegram_chat_id"`
}

type Metrics struct {
	Listen string `yaml:"listen"` // empty disables the metrics endpoint
}

type Config struct {
	Account  Account  `yaml:"account"`
	Market   Market   `yaml:"market"`
	Strategy Strategy `yaml:"strategy"`
	Risk     Risk     `yaml:"risk"`
	Exit     Exit     `yaml:"exit"`
	Monitor  Monitor  `yaml:"monitor"`
	Engine   Engine   `yaml:"engine"`
	Journal  Journal  `yaml:"journal"`
	Notify   Notify   `yaml:"notify"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Default returns a configuration that trades BTCUSDT with conservative risk
// settings. Every field can be overridden from the YAML file.
func Default() Config {
	return Config{
		Account: Account{
			StatePath:       "tradewatch-state.json",
			StartingCapital: 1000,
		},
		Market: Market{
			Symbol:          "BTCUSDT",
			TrendInterval:   "1h",
			TriggerInterval: "15m",
			CandleLimit:     200,
		},
		Strategy: Strategy{
			EMAFast:     21,
			EMASlow:     50,
			StochPeriod: 14,
			ATRPeriod:   14,
			ADXPeriod:   14,
			Oversold:    20,
			Overbought:  80,
			MinADX:      20,
			MinATRRatio: 0.006,
		},
		Risk: Risk{
			RiskFraction:  0.01,
			FeeRate:       0.0004,
			FeeAdjusted:   true,
			StepSize:      0.001,
			MinQuantity:   0.001,
			MaxLeverage:   1,
			MaxLossStreak: 3,
			MaxDrawdown:   0.10,
		},
		Exit: Exit{
			Policy:      "atr",
			StopPercent: 0.01,
			ATRMultiple: 1.5,
			RewardRisk:  2,
		},
		Monitor: Monitor{
			Interval:         Duration(5 * time.Minute),
			Timeout:          Duration(24 * time.Hour),
			MaxFetchFailures: 5,
		},
		Engine: Engine{
			PollInterval: Duration(5 * time.Minute),
			Cooldown:     Duration(time.Hour),
			ResetHourUTC: 0,
		},
		Journal: Journal{
			Backend: "sqlite",
			Path:    "tradewatch-trades.db",
		},
	}
}

// Load reads path over the defaults. A missing file is an error; run with no
// --config flag to use pure defaults instead.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Account.StatePath == "" {
		return fmt.Errorf("account.state_path is required")
	}
	if c.Account.StartingCapital <= 0 {
		return fmt.Errorf("account.starting_capital must be positive")
	}
	if c.Market.Symbol == "" {
		return fmt.Errorf("market.symbol is required")
	}
	if c.Market.CandleLimit <= 0 {
		return fmt.Errorf("market.candle_limit must be positive")
	}
	if c.Risk.RiskFraction <= 0 || c.Risk.RiskFraction >= 1 {
		return fmt.Errorf("risk.risk_fraction must be in (0, 1)")
	}
	if c.Risk.FeeRate < 0 {
		return fmt.Errorf("risk.fee_rate must not be negative")
	}
	if c.Risk.StepSize <= 0 {
		return fmt.Errorf("risk.step_size must be positive")
	}
	if c.Risk.MaxLeverage <= 0 {
		return fmt.Errorf("risk.max_leverage must be positive")
	}
	if c.Risk.MaxLossStreak <= 0 {
		return fmt.Errorf("risk.max_loss_streak must be positive")
	}
	if c.Risk.MaxDrawdown <= 0 || c.Risk.MaxDrawdown >= 1 {
		return fmt.Errorf("risk.max_drawdown must be in (0, 1)")
	}
	switch c.Exit.Policy {
	case "fixed":
		if c.Exit.StopPercent <= 0 {
			return fmt.Errorf("exit.stop_percent must be positive")
		}
	case "atr":
		if c.Exit.ATRMultiple <= 0 {
			return fmt.Errorf("exit.atr_multiple must be positive")
		}
	default:
		return fmt.Errorf("exit.policy must be \"fixed\" or \"atr\", got %q", c.Exit.Policy)
	}
	if c.Exit.RewardRisk <= 0 {
		return fmt.Errorf("exit.reward_risk must be positive")
	}
	if c.Monitor.Interval.Std() <= 0 {
		return fmt.Errorf("monitor.interval must be positive")
	}
	if c.Monitor.MaxFetchFailures <= 0 {
		return fmt.Errorf("monitor.max_fetch_failures must be positive")
	}
	if c.Engine.PollInterval.Std() <= 0 {
		return fmt.Errorf("engine.poll_interval must be positive")
	}
	if c.Engine.ResetHourUTC < 0 || c.Engine.ResetHourUTC > 23 {
		return fmt.Errorf("engine.reset_hour_utc must be in [0, 23]")
	}
	switch c.Journal.Backend {
	case "sqlite", "csv":
	default:
		return fmt.Errorf("journal.backend must be \"sqlite\" or \"csv\", got %q", c.Journal.Backend)
	}
	if c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required")
	}
	return nil
}
