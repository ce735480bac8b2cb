package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SizeInputs are the sizing parameters for one candidate entry.
type SizeInputs struct {
	Balance      decimal.Decimal
	EntryPrice   decimal.Decimal
	StopDistance decimal.Decimal // absolute price units between entry and stop
	RiskFraction decimal.Decimal // e.g. 0.01
	FeeRate      decimal.Decimal // per-side fee rate estimate
	FeeAdjusted  bool            // subtract estimated round-trip fees from the budget
	Rule         LotRule
}

// SizeResult is a typed outcome: Quantity is zero for any rejection, with the
// reason preserved for the log. Sizing never returns an error — a degenerate
// input must not crash a long-running process.
type SizeResult struct {
	Quantity   decimal.Decimal
	RiskBudget decimal.Decimal
	Reason     string
}

// Rejected reports whether the sizer declined to trade.
func (r SizeResult) Rejected() bool { return r.Quantity.IsZero() }

var two = decimal.NewFromInt(2)

// Size computes a risk-bounded quantity: the risk budget is balance times the
// risk fraction, optionally reduced by an estimated round-trip fee, divided
// by the stop distance, then quantized to the exchange's lot rule.
func Size(in SizeInputs) SizeResult {
	if in.StopDistance.Sign() <= 0 {
		return SizeResult{Reason: "zero stop distance"}
	}

	budget := in.Balance.Mul(in.RiskFraction)
	if in.FeeAdjusted {
		budget = budget.Sub(two.Mul(in.FeeRate).Mul(in.EntryPrice))
	}
	if budget.Sign() <= 0 {
		return SizeResult{RiskBudget: budget, Reason: "non-positive risk budget"}
	}

	raw := budget.Div(in.StopDistance)
	qty := Quantize(raw, in.EntryPrice, in.Balance, in.Rule)
	if qty.IsZero() {
		return SizeResult{
			RiskBudget: budget,
			Reason:     fmt.Sprintf("quantizer rejected raw quantity %s", raw),
		}
	}

	return SizeResult{Quantity: qty, RiskBudget: budget}
}
