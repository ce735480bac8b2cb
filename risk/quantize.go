// Package risk contains the pure pre-trade checks: lot quantization, risk
// sizing, the entry gate, and exit-level policies. Everything here is
// decimal arithmetic; a rejected trade is a zero quantity, never an error.
package risk

import "github.com/shopspring/decimal"

// LotRule captures the exchange's quantization constraints for one symbol.
type LotRule struct {
	StepSize    decimal.Decimal // quantity increments, e.g. 0.001
	MinQuantity decimal.Decimal // smallest tradable quantity
	MaxLeverage decimal.Decimal // notional cap = balance * MaxLeverage
}

// Quantize rounds raw down to the nearest step multiple. Rounding is always
// toward zero so quantization can never push position value past the risk
// budget. It returns zero when the rounded quantity is below the exchange
// minimum or its notional exceeds the leverage cap.
func Quantize(raw, price, balance decimal.Decimal, rule LotRule) decimal.Decimal {
	if raw.Sign() <= 0 {
		return decimal.Zero
	}

	qty := raw
	if rule.StepSize.IsPositive() {
		qty = raw.Sub(raw.Mod(rule.StepSize))
	}

	if qty.LessThan(rule.MinQuantity) {
		return decimal.Zero
	}
	if rule.MaxLeverage.IsPositive() && qty.Mul(price).GreaterThan(balance.Mul(rule.MaxLeverage)) {
		return decimal.Zero
	}
	return qty
}
