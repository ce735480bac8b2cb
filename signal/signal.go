// Package signal evaluates an indicator snapshot into a trade direction.
// Evaluation is a pure function: no state, no side effects, and missing
// history maps to None rather than an error.
package signal

import (
	"fmt"

	"github.com/dmaguire/tradewatch/indicators"
)

type Direction int

const (
	None Direction = iota
	Long
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "NONE"
	}
}

// Thresholds are strategy parameters, supplied by configuration.
type Thresholds struct {
	Oversold    float64 // StochRSI K/D below this arms a long entry
	Overbought  float64 // StochRSI K/D above this arms a short entry
	MinADX      float64 // trend strength floor
	MinATRRatio float64 // ATR/close floor, filters dead markets
}

// Decision carries the direction plus the reason it was (or was not) taken,
// so a rejection can be reconstructed from the log afterwards.
type Decision struct {
	Direction Direction
	Reason    string
}

// Evaluate inspects the latest snapshot. A long needs price above both EMAs
// with the fast EMA on top, a strong enough trend, and an oversold oscillator
// or a bullish K/D crossover since the previous bar. A short mirrors every
// condition. Anything partial is None.
func Evaluate(s indicators.Snapshot, th Thresholds) Decision {
	if !s.Ready {
		return Decision{None, "insufficient history"}
	}

	trendUp := s.Close > s.EMAFast && s.Close > s.EMASlow && s.EMAFast > s.EMASlow
	trendDown := s.Close < s.EMAFast && s.Close < s.EMASlow && s.EMAFast < s.EMASlow

	strong := s.ADX >= th.MinADX && s.Close > 0 && s.ATRTrend/s.Close >= th.MinATRRatio
	if !strong {
		return Decision{None, fmt.Sprintf("weak trend: adx=%.2f atr/close=%.5f", s.ADX, safeRatio(s.ATRTrend, s.Close))}
	}

	oversold := s.StochK < th.Oversold && s.StochD < th.Oversold
	overbought := s.StochK > th.Overbought && s.StochD > th.Overbought
	bullCross := s.PrevStochK <= s.PrevStochD && s.StochK > s.StochD
	bearCross := s.PrevStochK >= s.PrevStochD && s.StochK < s.StochD

	switch {
	case trendUp && oversold:
		return Decision{Long, fmt.Sprintf("uptrend, stoch oversold k=%.1f d=%.1f", s.StochK, s.StochD)}
	case trendUp && bullCross:
		return Decision{Long, fmt.Sprintf("uptrend, bullish stoch cross k=%.1f d=%.1f", s.StochK, s.StochD)}
	case trendDown && overbought:
		return Decision{Short, fmt.Sprintf("downtrend, stoch overbought k=%.1f d=%.1f", s.StochK, s.StochD)}
	case trendDown && bearCross:
		return Decision{Short, fmt.Sprintf("downtrend, bearish stoch cross k=%.1f d=%.1f", s.StochK, s.StochD)}
	}

	return Decision{None, "no aligned trend and trigger"}
}

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
