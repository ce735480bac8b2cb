package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmaguire/tradewatch/account"
)

// ExitLevels are the take-profit and stop-loss prices computed at open. They
// are immutable for the life of the position.
type ExitLevels struct {
	TakeProfit decimal.Decimal
	StopLoss   decimal.Decimal
}

// ExitPolicy turns an entry price into exit levels. atr is the trigger
// timeframe's average true range at entry; the fixed-percentage policy
// ignores it.
type ExitPolicy interface {
	Levels(side account.Side, entry, atr decimal.Decimal) (ExitLevels, error)
}

// FixedPercentPolicy places the stop a fixed fraction away from entry and the
// target at RewardRisk times that distance.
type FixedPercentPolicy struct {
	StopPercent decimal.Decimal // e.g. 0.01 for a 1% stop
	RewardRisk  decimal.Decimal // e.g. 2 for 2:1
}

func (p FixedPercentPolicy) Levels(side account.Side, entry, _ decimal.Decimal) (ExitLevels, error) {
	return levelsFromDistance(side, entry, entry.Mul(p.StopPercent), p.RewardRisk)
}

// ATRPolicy scales the stop distance with volatility: Multiple times the ATR
// at entry, target at RewardRisk times the stop distance.
type ATRPolicy struct {
	Multiple   decimal.Decimal // e.g. 1.5
	RewardRisk decimal.Decimal
}

func (p ATRPolicy) Levels(side account.Side, entry, atr decimal.Decimal) (ExitLevels, error) {
	return levelsFromDistance(side, entry, atr.Mul(p.Multiple), p.RewardRisk)
}

func levelsFromDistance(side account.Side, entry, stopDistance, rewardRisk decimal.Decimal) (ExitLevels, error) {
	if stopDistance.Sign() <= 0 {
		return ExitLevels{}, fmt.Errorf("exit levels: non-positive stop distance %s", stopDistance)
	}
	targetDistance := stopDistance.Mul(rewardRisk)

	var lv ExitLevels
	switch side {
	case account.SideLong:
		lv = ExitLevels{
			TakeProfit: entry.Add(targetDistance),
			StopLoss:   entry.Sub(stopDistance),
		}
	case account.SideShort:
		lv = ExitLevels{
			TakeProfit: entry.Sub(targetDistance),
			StopLoss:   entry.Add(stopDistance),
		}
	default:
		return ExitLevels{}, fmt.Errorf("exit levels: unknown side %q", side)
	}

	if lv.StopLoss.Sign() <= 0 || lv.TakeProfit.Sign() <= 0 {
		return ExitLevels{}, fmt.Errorf("exit levels: degenerate levels tp=%s sl=%s for entry %s",
			lv.TakeProfit, lv.StopLoss, entry)
	}
	return lv, nil
}
