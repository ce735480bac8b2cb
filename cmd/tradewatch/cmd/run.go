package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmaguire/tradewatch/account"
	"github.com/dmaguire/tradewatch/config"
	"github.com/dmaguire/tradewatch/engine"
	"github.com/dmaguire/tradewatch/indicators"
	"github.com/dmaguire/tradewatch/journal"
	"github.com/dmaguire/tradewatch/market"
	"github.com/dmaguire/tradewatch/metrics"
	"github.com/dmaguire/tradewatch/monitor"
	"github.com/dmaguire/tradewatch/notify"
	"github.com/dmaguire/tradewatch/risk"
	"github.com/dmaguire/tradewatch/signal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop",
	Long: `Run the trading loop using settings from a configuration file.

Exchange credentials and the Telegram bot token are read from the
environment (or a .env file): BINANCE_API_KEY, BINANCE_API_SECRET,
TELEGRAM_BOT_TOKEN.

Example:
  tradewatch run -f examples/config.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDebug      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to YAML config file")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "verbose development logging")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Optional; real deployments export the variables directly.
	_ = godotenv.Load()

	cfg := config.Default()
	if runConfigPath != "" {
		var err error
		cfg, err = config.Load(runConfigPath)
		if err != nil {
			return err
		}
	}

	log, err := buildLogger(runDebug)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	store, err := account.Open(cfg.Account.StatePath,
		account.NewState(decimal.NewFromFloat(cfg.Account.StartingCapital)))
	if err != nil {
		return fmt.Errorf("open account state: %w", err)
	}

	var j journal.Journal
	if cfg.Journal.Backend == "csv" {
		j, err = journal.NewCSV(cfg.Journal.Path)
	} else {
		j, err = journal.NewSQLite(cfg.Journal.Path)
	}
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	data := market.NewBinanceSource(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET"))

	chatID := cfg.Notify.TelegramChatID
	if v := envInt64("TELEGRAM_CHAT_ID"); v != 0 {
		chatID = v
	}
	var notifier notify.Notifier = notify.Noop{}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" && chatID != 0 {
		tg, err := notify.NewTelegram(token, chatID, log.Named("notify"))
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		notifier = tg
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Listen != "" {
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metrics.Handler()}
		go func() {
			log.Info("metrics listening", zap.String("addr", cfg.Metrics.Listen))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	eng := engine.New(buildEngineConfig(cfg), data, store, j, notifier, log.Named("engine"))
	if err := eng.Run(ctx); err != nil {
		log.Error("engine stopped", zap.Error(err))
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildEngineConfig converts the YAML primitives into the engine's decimal
// and duration types. Conversion happens once, here, so the packages below
// never see floats for money.
func buildEngineConfig(cfg config.Config) engine.Config {
	gate := risk.GatePolicy{
		MaxLossStreak: cfg.Risk.MaxLossStreak,
		MaxDrawdown:   decimal.NewFromFloat(cfg.Risk.MaxDrawdown),
	}

	var exit risk.ExitPolicy
	if cfg.Exit.Policy == "fixed" {
		exit = risk.FixedPercentPolicy{
			StopPercent: decimal.NewFromFloat(cfg.Exit.StopPercent),
			RewardRisk:  decimal.NewFromFloat(cfg.Exit.RewardRisk),
		}
	} else {
		exit = risk.ATRPolicy{
			Multiple:   decimal.NewFromFloat(cfg.Exit.ATRMultiple),
			RewardRisk: decimal.NewFromFloat(cfg.Exit.RewardRisk),
		}
	}

	params := indicators.Default()
	params.EMAFast = cfg.Strategy.EMAFast
	params.EMASlow = cfg.Strategy.EMASlow
	params.StochPeriod = cfg.Strategy.StochPeriod
	params.ATRPeriod = cfg.Strategy.ATRPeriod
	params.ADXPeriod = cfg.Strategy.ADXPeriod

	return engine.Config{
		Symbol:          cfg.Market.Symbol,
		TrendInterval:   cfg.Market.TrendInterval,
		TriggerInterval: cfg.Market.TriggerInterval,
		CandleLimit:     cfg.Market.CandleLimit,
		PollInterval:    cfg.Engine.PollInterval.Std(),
		Cooldown:        cfg.Engine.Cooldown.Std(),
		StartingCapital: decimal.NewFromFloat(cfg.Account.StartingCapital),
		ResetHourUTC:    cfg.Engine.ResetHourUTC,
		RiskFraction:    decimal.NewFromFloat(cfg.Risk.RiskFraction),
		FeeRate:         decimal.NewFromFloat(cfg.Risk.FeeRate),
		FeeAdjusted:     cfg.Risk.FeeAdjusted,
		Rule: risk.LotRule{
			StepSize:    decimal.NewFromFloat(cfg.Risk.StepSize),
			MinQuantity: decimal.NewFromFloat(cfg.Risk.MinQuantity),
			MaxLeverage: decimal.NewFromFloat(cfg.Risk.MaxLeverage),
		},
		Gate:       gate,
		Exit:       exit,
		Indicators: params,
		Thresholds: signal.Thresholds{
			Oversold:    cfg.Strategy.Oversold,
			Overbought:  cfg.Strategy.Overbought,
			MinADX:      cfg.Strategy.MinADX,
			MinATRRatio: cfg.Strategy.MinATRRatio,
		},
		Monitor: monitor.Config{
			Symbol:           cfg.Market.Symbol,
			Interval:         cfg.Monitor.Interval.Std(),
			Timeout:          cfg.Monitor.Timeout.Std(),
			MaxFetchFailures: cfg.Monitor.MaxFetchFailures,
			FeeRate:          decimal.NewFromFloat(cfg.Risk.FeeRate),
			Gate:             gate,
		},
	}
}

func envInt64(key string) int64 {
	v, _ := strconv.ParseInt(os.Getenv(key), 10, 64)
	return v
}
