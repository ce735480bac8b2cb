// Package indicators computes the indicator snapshot the signal evaluator
// consumes. The math itself is delegated to go-talib; only the last two values
// of each series are kept.
package indicators

import (
	"github.com/markcheno/go-talib"

	"github.com/dmaguire/tradewatch/market"
)

// Params holds the indicator windows. Zero values are invalid; use Default.
type Params struct {
	EMAFast     int
	EMASlow     int
	StochPeriod int
	StochFastK  int
	StochFastD  int
	ATRPeriod   int
	ADXPeriod   int
}

// Default mirrors the windows the strategy was tuned with: EMA 21/50 on the
// trend timeframe, StochRSI(14) and ATR(14) on the trigger timeframe.
func Default() Params {
	return Params{
		EMAFast:     21,
		EMASlow:     50,
		StochPeriod: 14,
		StochFastK:  3,
		StochFastD:  3,
		ATRPeriod:   14,
		ADXPeriod:   14,
	}
}

// Snapshot is the flattened view of the latest indicator values across the
// trend and trigger timeframes. Ready is false when either timeframe has
// fewer bars than the longest window needs.
type Snapshot struct {
	Ready bool

	// Trend timeframe (e.g. 1h).
	Close    float64
	EMAFast  float64
	EMASlow  float64
	ADX      float64
	ATRTrend float64

	// Trigger timeframe (e.g. 15m). Prev values are the bar before last,
	// for crossover detection.
	StochK     float64
	StochD     float64
	PrevStochK float64
	PrevStochD float64
	ATR        float64
}

// Compute builds a snapshot from trend- and trigger-timeframe candles, both
// ordered oldest first. It never panics on short history; it returns a
// not-ready snapshot instead.
func Compute(trend, trigger []market.Candle, p Params) Snapshot {
	minTrend := p.EMASlow + 1
	if n := p.ADXPeriod*2 + 1; n > minTrend {
		minTrend = n
	}
	// StochRSI consumes an RSI series, so it needs roughly two windows of
	// history before the K/D pair stabilizes.
	minTrigger := p.StochPeriod*2 + p.StochFastK + p.StochFastD
	if n := p.ATRPeriod + 1; n > minTrigger {
		minTrigger = n
	}
	if len(trend) < minTrend || len(trigger) < minTrigger {
		return Snapshot{}
	}

	trendClose := market.Closes(trend)
	emaFast := talib.Ema(trendClose, p.EMAFast)
	emaSlow := talib.Ema(trendClose, p.EMASlow)
	adx := talib.Adx(market.Highs(trend), market.Lows(trend), trendClose, p.ADXPeriod)
	atrTrend := talib.Atr(market.Highs(trend), market.Lows(trend), trendClose, p.ATRPeriod)

	triggerClose := market.Closes(trigger)
	stochK, stochD := talib.StochRsi(triggerClose, p.StochPeriod, p.StochFastK, p.StochFastD, talib.SMA)
	atr := talib.Atr(market.Highs(trigger), market.Lows(trigger), triggerClose, p.ATRPeriod)

	last := len(trendClose) - 1
	tLast := len(triggerClose) - 1

	return Snapshot{
		Ready:      true,
		Close:      trendClose[last],
		EMAFast:    emaFast[last],
		EMASlow:    emaSlow[last],
		ADX:        adx[last],
		ATRTrend:   atrTrend[last],
		StochK:     stochK[tLast],
		StochD:     stochD[tLast],
		PrevStochK: stochK[tLast-1],
		PrevStochD: stochD[tLast-1],
		ATR:        atr[tLast],
	}
}
