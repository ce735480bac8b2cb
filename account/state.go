// Package account holds the durable trading state: the balance and risk
// counters plus the at-most-one open position, and the store that persists
// them across restarts.
package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Position is an open trade. All fields are set at open and never mutated;
// settlement replaces the whole position with nil.
type Position struct {
	Side       Side            `json:"side"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	TakeProfit decimal.Decimal `json:"take_profit"`
	StopLoss   decimal.Decimal `json:"stop_loss"`
	OpenedAt   time.Time       `json:"opened_at"`
}

// State is the single durable account record. Money and quantity fields are
// fixed-point decimals; binary floats never touch PnL accounting.
type State struct {
	Balance     decimal.Decimal `json:"balance"`
	PeakBalance decimal.Decimal `json:"peak_balance"`
	LossStreak  int             `json:"loss_streak"`
	TradeCount  int             `json:"trade_count"`
	LastReset   time.Time       `json:"last_reset"`
	Open        *Position       `json:"open_position"`
}

// NewState returns a fresh account funded with the starting capital.
func NewState(startingCapital decimal.Decimal) State {
	return State{
		Balance:     startingCapital,
		PeakBalance: startingCapital,
	}
}

// Copy returns a deep copy, so callers can hand out snapshots without
// aliasing the open position.
func (s State) Copy() State {
	out := s
	if s.Open != nil {
		p := *s.Open
		out.Open = &p
	}
	return out
}

// Drawdown is the fractional decline of the balance from its peak, zero when
// the account is at or above its high-water mark.
func (s State) Drawdown() decimal.Decimal {
	if s.PeakBalance.IsZero() || s.Balance.GreaterThanOrEqual(s.PeakBalance) {
		return decimal.Zero
	}
	return s.PeakBalance.Sub(s.Balance).Div(s.PeakBalance)
}

// ApplySettlement folds one settled trade into the account: balance moves by
// the realized PnL, the high-water mark only ever rises, the loss streak
// resets on profit and increments otherwise, and the position is cleared.
// Exactly one call per settled trade.
func (s *State) ApplySettlement(realizedPnL decimal.Decimal) {
	s.Balance = s.Balance.Add(realizedPnL)
	if s.Balance.GreaterThan(s.PeakBalance) {
		s.PeakBalance = s.Balance
	}
	if realizedPnL.IsPositive() {
		s.LossStreak = 0
	} else {
		s.LossStreak++
	}
	s.TradeCount++
	s.Open = nil
}
