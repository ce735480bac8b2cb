package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GatePolicy is the circuit-breaker configuration for new entries.
type GatePolicy struct {
	MaxLossStreak int
	MaxDrawdown   decimal.Decimal // fraction of peak balance, e.g. 0.15
}

// GateResult is the gate's verdict plus the reason for a denial.
type GateResult struct {
	Allowed bool
	Reason  string
}

// Check is a pure predicate over the persisted account metrics: entries are
// allowed only while the loss streak is under its cap and the balance has not
// fallen past the drawdown limit from its peak. Callers must back off for a
// cool-down when denied rather than busy-polling.
func (p GatePolicy) Check(balance, peakBalance decimal.Decimal, lossStreak int) GateResult {
	if lossStreak >= p.MaxLossStreak {
		return GateResult{Reason: fmt.Sprintf("loss streak %d >= max %d", lossStreak, p.MaxLossStreak)}
	}

	floor := peakBalance.Mul(decimal.NewFromInt(1).Sub(p.MaxDrawdown))
	if balance.LessThan(floor) {
		return GateResult{Reason: fmt.Sprintf("balance %s below drawdown floor %s (peak %s)",
			balance, floor, peakBalance)}
	}

	return GateResult{Allowed: true}
}
