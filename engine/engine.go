// Package engine runs the trade lifecycle: evaluate the entry signal, size a
// position, persist it, then hand it to the monitor until it settles. At most
// one position exists at a time, and the durable account state is the single
// source of truth across restarts.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dmaguire/tradewatch/account"
	"github.com/dmaguire/tradewatch/indicators"
	"github.com/dmaguire/tradewatch/journal"
	"github.com/dmaguire/tradewatch/market"
	"github.com/dmaguire/tradewatch/metrics"
	"github.com/dmaguire/tradewatch/monitor"
	"github.com/dmaguire/tradewatch/notify"
	"github.com/dmaguire/tradewatch/risk"
	"github.com/dmaguire/tradewatch/signal"
)

type Config struct {
	Symbol          string
	TrendInterval   string
	TriggerInterval string
	CandleLimit     int

	PollInterval time.Duration // flat-state evaluation cadence
	Cooldown     time.Duration // pause after a risk gate denial

	StartingCapital decimal.Decimal // paper balance the daily reset restores
	ResetHourUTC    int             // daily reset boundary

	RiskFraction decimal.Decimal
	FeeRate      decimal.Decimal
	FeeAdjusted  bool
	Rule         risk.LotRule
	Gate         risk.GatePolicy
	Exit         risk.ExitPolicy

	Indicators indicators.Params
	Thresholds signal.Thresholds

	Monitor monitor.Config
}

type Engine struct {
	cfg      Config
	data     market.DataSource
	store    *account.Store
	notifier notify.Notifier
	log      *zap.Logger
	mon      *monitor.Monitor
}

func New(cfg Config, data market.DataSource, store *account.Store, j journal.Journal, n notify.Notifier, log *zap.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		data:     data,
		store:    store,
		notifier: n,
		log:      log,
		mon:      monitor.New(cfg.Monitor, data, store, j, n, log.Named("monitor")),
	}
}

type monitorResult struct {
	res monitor.Result
	err error
}

// Run loops until the context is canceled or the price feed dies mid-position.
// Each pass resumes any persisted open position first, so a position opened
// just before a crash is monitored again before a new signal is considered.
// The monitor runs concurrently; the loop keeps ticking for the daily reset
// while a position is being watched, but never opens a second one.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("engine started",
		zap.String("symbol", e.cfg.Symbol),
		zap.String("trend_interval", e.cfg.TrendInterval),
		zap.String("trigger_interval", e.cfg.TriggerInterval),
	)

	var monDone chan monitorResult
	for {
		if ctx.Err() != nil {
			if monDone != nil {
				// Let the monitor finish its current tick cleanly.
				<-monDone
			}
			return nil
		}

		e.maybeReset(time.Now().UTC())

		if monDone == nil {
			if st := e.store.State(); st.Open != nil {
				monDone = e.spawnMonitor(ctx, *st.Open)
			}
		}

		if monDone != nil {
			select {
			case r := <-monDone:
				monDone = nil
				switch {
				case errors.Is(r.err, context.Canceled), errors.Is(r.err, context.DeadlineExceeded):
					return nil
				case r.res.State == monitor.StateAbortedError:
					// The alert is already out; without prices the
					// engine cannot manage the position and must stop.
					return r.err
				case r.err != nil:
					// Settlement could not be persisted; the position
					// is still durably open, so the next pass resumes.
					e.log.Error("monitor run failed", zap.Error(r.err))
					e.sleep(ctx, e.cfg.PollInterval)
				}
			case <-ctx.Done():
			case <-time.After(e.cfg.PollInterval):
			}
			continue
		}

		st := e.store.State()
		if g := e.cfg.Gate.Check(st.Balance, st.PeakBalance, st.LossStreak); !g.Allowed {
			metrics.GateDenials.Inc()
			e.log.Info("entry blocked", zap.String("reason", g.Reason))
			e.sleep(ctx, e.cfg.Cooldown)
			continue
		}

		opened, err := e.evaluateOnce(ctx)
		if err != nil {
			e.log.Warn("evaluation failed", zap.Error(err))
		}
		if opened {
			// Next pass picks the position up from the store.
			continue
		}
		e.sleep(ctx, e.cfg.PollInterval)
	}
}

func (e *Engine) spawnMonitor(ctx context.Context, pos account.Position) chan monitorResult {
	done := make(chan monitorResult, 1)
	go func() {
		res, err := e.mon.Run(ctx, pos)
		done <- monitorResult{res: res, err: err}
	}()
	return done
}

// evaluateOnce fetches fresh candles, evaluates the signal and, when it
// fires, sizes and persists a new position. Returns true when one was opened.
func (e *Engine) evaluateOnce(ctx context.Context) (bool, error) {
	trend, err := e.data.Candles(ctx, e.cfg.Symbol, e.cfg.TrendInterval, e.cfg.CandleLimit)
	if err != nil {
		return false, fmt.Errorf("trend candles: %w", err)
	}
	trigger, err := e.data.Candles(ctx, e.cfg.Symbol, e.cfg.TriggerInterval, e.cfg.CandleLimit)
	if err != nil {
		return false, fmt.Errorf("trigger candles: %w", err)
	}

	snap := indicators.Compute(trend, trigger, e.cfg.Indicators)
	dec := signal.Evaluate(snap, e.cfg.Thresholds)
	metrics.Decisions.WithLabelValues(dec.Direction.String()).Inc()
	if dec.Direction == signal.None {
		e.log.Debug("no entry", zap.String("reason", dec.Reason))
		return false, nil
	}
	e.log.Info("entry signal",
		zap.String("direction", dec.Direction.String()),
		zap.String("reason", dec.Reason),
	)

	entry, err := e.data.LastPrice(ctx, e.cfg.Symbol)
	if err != nil {
		return false, fmt.Errorf("entry price: %w", err)
	}

	side := account.SideLong
	if dec.Direction == signal.Short {
		side = account.SideShort
	}
	levels, err := e.cfg.Exit.Levels(side, entry, decimal.NewFromFloat(snap.ATR))
	if err != nil {
		return false, fmt.Errorf("exit levels: %w", err)
	}
	stopDistance := entry.Sub(levels.StopLoss).Abs()

	st := e.store.State()
	sized := risk.Size(risk.SizeInputs{
		Balance:      st.Balance,
		EntryPrice:   entry,
		StopDistance: stopDistance,
		RiskFraction: e.cfg.RiskFraction,
		FeeRate:      e.cfg.FeeRate,
		FeeAdjusted:  e.cfg.FeeAdjusted,
		Rule:         e.cfg.Rule,
	})
	if sized.Rejected() {
		e.log.Info("signal not tradable", zap.String("reason", sized.Reason))
		return false, nil
	}

	pos := account.Position{
		Side:       side,
		EntryPrice: entry,
		Quantity:   sized.Quantity,
		TakeProfit: levels.TakeProfit,
		StopLoss:   levels.StopLoss,
		OpenedAt:   time.Now().UTC(),
	}
	err = e.store.Update(func(s *account.State) error {
		if s.Open != nil {
			return account.ErrPositionOpen
		}
		s.Open = &pos
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("persist position: %w", err)
	}

	e.log.Info("position opened",
		zap.String("side", string(side)),
		zap.String("entry", entry.String()),
		zap.String("quantity", sized.Quantity.String()),
		zap.String("take_profit", levels.TakeProfit.String()),
		zap.String("stop_loss", levels.StopLoss.String()),
	)
	e.notifier.Notify(ctx, fmt.Sprintf("%s %s opened: qty %s @ %s, tp %s, sl %s",
		e.cfg.Symbol, side, sized.Quantity, entry, levels.TakeProfit, levels.StopLoss))
	return true, nil
}

// maybeReset restores the paper account once per day at the configured UTC
// hour: balance and peak back to the starting capital, streak and trade count
// to zero. Days with no settled trades have nothing to restore. The persisted
// LastReset timestamp guards against double-firing when ticks straddle the
// boundary or the process restarts just after one.
func (e *Engine) maybeReset(now time.Time) {
	boundary := time.Date(now.Year(), now.Month(), now.Day(), e.cfg.ResetHourUTC, 0, 0, 0, time.UTC)
	if boundary.After(now) {
		boundary = boundary.AddDate(0, 0, -1)
	}

	st := e.store.State()
	if !st.LastReset.Before(boundary) {
		return
	}
	fired := false
	err := e.store.Update(func(s *account.State) error {
		if !s.LastReset.Before(boundary) {
			return nil
		}
		s.LastReset = boundary
		if s.TradeCount == 0 {
			return nil
		}
		s.Balance = e.cfg.StartingCapital
		s.PeakBalance = e.cfg.StartingCapital
		s.LossStreak = 0
		s.TradeCount = 0
		fired = true
		return nil
	})
	if err != nil {
		e.log.Error("daily reset failed", zap.Error(err))
		return
	}
	if !fired {
		return
	}
	e.log.Info("daily reset", zap.Time("boundary", boundary),
		zap.String("balance", e.cfg.StartingCapital.String()))
	bal, _ := e.cfg.StartingCapital.Float64()
	metrics.Balance.Set(bal)
	metrics.LossStreak.Set(0)
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
