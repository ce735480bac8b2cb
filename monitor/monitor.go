// Package monitor watches an open position against its exit levels and
// finalizes the trade. Every way a trade can end is a named terminal state;
// all of them except ABORTED_ERROR funnel into a single atomic settlement.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dmaguire/tradewatch/account"
	"github.com/dmaguire/tradewatch/journal"
	"github.com/dmaguire/tradewatch/market"
	"github.com/dmaguire/tradewatch/metrics"
	"github.com/dmaguire/tradewatch/notify"
	"github.com/dmaguire/tradewatch/pkg/id"
	"github.com/dmaguire/tradewatch/risk"
)

type State string

const (
	StateWatching      State = "WATCHING"
	StateExitedTP      State = "EXITED_TP"
	StateExitedSL      State = "EXITED_SL"
	StateExitedTimeout State = "EXITED_TIMEOUT"
	StateAbortedRisk   State = "ABORTED_RISK"
	StateAbortedError  State = "ABORTED_ERROR"
)

// settleRetries bounds how often a failed settlement write is retried before
// the monitor gives up and leaves the position open for a later resume.
const settleRetries = 5

type Config struct {
	Symbol           string
	Interval         time.Duration
	Timeout          time.Duration // max watch duration; closes at market when exceeded
	MaxFetchFailures int           // consecutive price failures tolerated before ABORTED_ERROR
	FeeRate          decimal.Decimal
	Gate             risk.GatePolicy
}

// Result is the terminal outcome of one monitoring run. ExitPrice and PnL are
// zero for ABORTED_ERROR and for a shutdown mid-watch.
type Result struct {
	State     State
	ExitPrice decimal.Decimal
	PnL       decimal.Decimal
}

type Monitor struct {
	cfg      Config
	prices   market.PriceSource
	store    *account.Store
	journal  journal.Journal
	notifier notify.Notifier
	log      *zap.Logger
}

func New(cfg Config, prices market.PriceSource, store *account.Store, j journal.Journal, n notify.Notifier, log *zap.Logger) *Monitor {
	return &Monitor{
		cfg:      cfg,
		prices:   prices,
		store:    store,
		journal:  j,
		notifier: n,
		log:      log,
	}
}

// Run polls the price at a fixed interval until the position reaches a
// terminal state. On shutdown it returns with StateWatching and the position
// untouched; a restart resumes it from the persisted state.
func (m *Monitor) Run(ctx context.Context, pos account.Position) (Result, error) {
	m.log.Info("monitoring position",
		zap.String("side", string(pos.Side)),
		zap.String("entry", pos.EntryPrice.String()),
		zap.String("quantity", pos.Quantity.String()),
		zap.String("take_profit", pos.TakeProfit.String()),
		zap.String("stop_loss", pos.StopLoss.String()),
	)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return Result{State: StateWatching}, ctx.Err()
		case <-ticker.C:
		}

		price, err := m.prices.LastPrice(ctx, m.cfg.Symbol)
		if err != nil {
			failures++
			metrics.PriceFetchFailures.Inc()
			m.log.Warn("price fetch failed",
				zap.Int("consecutive", failures),
				zap.Int("max", m.cfg.MaxFetchFailures),
				zap.Error(err),
			)
			if failures > m.cfg.MaxFetchFailures {
				// No price means no safe exit: halt and alert rather
				// than guess a close. The position stays persisted.
				m.notifier.Notify(ctx, fmt.Sprintf(
					"ALERT %s: price feed down after %d attempts, position left open (%s %s @ %s)",
					m.cfg.Symbol, failures, pos.Side, pos.Quantity, pos.EntryPrice))
				metrics.Trades.WithLabelValues(string(StateAbortedError)).Inc()
				return Result{State: StateAbortedError},
					fmt.Errorf("price feed unavailable after %d attempts: %w", failures, err)
			}
			continue
		}
		failures = 0
		now := time.Now().UTC()

		switch {
		case hitTakeProfit(pos, price):
			return m.settle(ctx, pos, StateExitedTP, pos.TakeProfit, now, "take profit")
		case hitStopLoss(pos, price):
			return m.settle(ctx, pos, StateExitedSL, pos.StopLoss, now, "stop loss")
		case m.cfg.Timeout > 0 && now.Sub(pos.OpenedAt) >= m.cfg.Timeout:
			return m.settle(ctx, pos, StateExitedTimeout, price, now, "timeout")
		}

		// A risk breach while the position is open still forces a close at
		// market; it must never leave the position unmanaged.
		st := m.store.State()
		if g := m.cfg.Gate.Check(st.Balance, st.PeakBalance, st.LossStreak); !g.Allowed {
			return m.settle(ctx, pos, StateAbortedRisk, price, now, "risk breach: "+g.Reason)
		}
	}
}

// settle performs the single atomic settlement: realized PnL net of modeled
// fees, balance/peak/streak update, position cleared — one serialized store
// write — then the append-only trade record and the operator alert.
func (m *Monitor) settle(ctx context.Context, pos account.Position, state State, exitPrice decimal.Decimal, closedAt time.Time, reason string) (Result, error) {
	pnl := RealizedPnL(pos, exitPrice, m.cfg.FeeRate)

	var balanceAfter decimal.Decimal
	var lossStreak int
	persist := func() error {
		return m.store.Update(func(s *account.State) error {
			if s.Open != nil {
				s.ApplySettlement(pnl)
			}
			balanceAfter = s.Balance
			lossStreak = s.LossStreak
			return nil
		})
	}

	err := persist()
	for attempt := 1; err != nil && attempt < settleRetries; attempt++ {
		m.log.Error("settlement write failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return Result{State: StateWatching}, ctx.Err()
		case <-time.After(m.cfg.Interval):
		}
		err = persist()
	}
	if err != nil {
		// The durable state still shows the position open, so a restart
		// resumes monitoring instead of trusting unsaved memory.
		return Result{State: StateWatching}, fmt.Errorf("settle (%s): %w", reason, err)
	}

	rec := journal.TradeRecord{
		ID:           id.New(),
		Symbol:       m.cfg.Symbol,
		Side:         string(pos.Side),
		Quantity:     pos.Quantity,
		EntryPrice:   pos.EntryPrice,
		ExitPrice:    exitPrice,
		OpenedAt:     pos.OpenedAt,
		ClosedAt:     closedAt,
		RealizedPnL:  pnl,
		BalanceAfter: balanceAfter,
		Reason:       reason,
	}
	if jerr := m.journal.RecordTrade(rec); jerr != nil {
		// Appends are idempotent, so one retry is safe.
		if jerr = m.journal.RecordTrade(rec); jerr != nil {
			m.log.Error("trade record append failed", zap.Error(jerr))
		}
	}

	bal, _ := balanceAfter.Float64()
	metrics.Trades.WithLabelValues(string(state)).Inc()
	metrics.Balance.Set(bal)
	metrics.LossStreak.Set(float64(lossStreak))

	m.log.Info("position settled",
		zap.String("state", string(state)),
		zap.String("reason", reason),
		zap.String("exit", exitPrice.String()),
		zap.String("pnl", pnl.String()),
		zap.String("balance", balanceAfter.String()),
	)
	m.notifier.Notify(ctx, fmt.Sprintf("%s %s %s: exit %s pnl %s balance %s (%s)",
		m.cfg.Symbol, pos.Side, state, exitPrice, pnl, balanceAfter, reason))

	return Result{State: state, ExitPrice: exitPrice, PnL: pnl}, nil
}

// RealizedPnL nets the modeled round-trip fees out of the gross price move.
func RealizedPnL(pos account.Position, exitPrice, feeRate decimal.Decimal) decimal.Decimal {
	gross := exitPrice.Sub(pos.EntryPrice)
	if pos.Side == account.SideShort {
		gross = pos.EntryPrice.Sub(exitPrice)
	}
	gross = gross.Mul(pos.Quantity)

	fees := pos.EntryPrice.Add(exitPrice).Mul(pos.Quantity).Mul(feeRate)
	return gross.Sub(fees)
}

func hitTakeProfit(pos account.Position, price decimal.Decimal) bool {
	if pos.Side == account.SideLong {
		return price.GreaterThanOrEqual(pos.TakeProfit)
	}
	return price.LessThanOrEqual(pos.TakeProfit)
}

func hitStopLoss(pos account.Position, price decimal.Decimal) bool {
	if pos.Side == account.SideLong {
		return price.LessThanOrEqual(pos.StopLoss)
	}
	return price.GreaterThanOrEqual(pos.StopLoss)
}
