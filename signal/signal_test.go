package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmaguire/tradewatch/indicators"
)

var testThresholds = Thresholds{
	Oversold:    20,
	Overbought:  80,
	MinADX:      20,
	MinATRRatio: 0.006,
}

// uptrend returns a ready snapshot with price above both EMAs and a strong
// trend; tests tweak the oscillator fields per case.
func uptrend() indicators.Snapshot {
	return indicators.Snapshot{
		Ready:    true,
		Close:    105,
		EMAFast:  103,
		EMASlow:  100,
		ADX:      25,
		ATRTrend: 1.5,
	}
}

func downtrend() indicators.Snapshot {
	return indicators.Snapshot{
		Ready:    true,
		Close:    95,
		EMAFast:  97,
		EMASlow:  100,
		ADX:      25,
		ATRTrend: 1.5,
	}
}

func TestEvaluate_NotReady(t *testing.T) {
	t.Parallel()

	got := Evaluate(indicators.Snapshot{}, testThresholds)
	assert.Equal(t, None, got.Direction)
	assert.Equal(t, "insufficient history", got.Reason)
}

func TestEvaluate_Long(t *testing.T) {
	t.Parallel()

	t.Run("oversold", func(t *testing.T) {
		t.Parallel()
		s := uptrend()
		s.StochK, s.StochD = 12, 15
		s.PrevStochK, s.PrevStochD = 18, 16

		got := Evaluate(s, testThresholds)
		assert.Equal(t, Long, got.Direction)
		assert.Contains(t, got.Reason, "oversold")
	})

	t.Run("bullish cross", func(t *testing.T) {
		t.Parallel()
		s := uptrend()
		s.PrevStochK, s.PrevStochD = 38, 42
		s.StochK, s.StochD = 47, 44

		got := Evaluate(s, testThresholds)
		assert.Equal(t, Long, got.Direction)
		assert.Contains(t, got.Reason, "cross")
	})
}

func TestEvaluate_Short(t *testing.T) {
	t.Parallel()

	t.Run("overbought", func(t *testing.T) {
		t.Parallel()
		s := downtrend()
		s.StochK, s.StochD = 88, 85
		s.PrevStochK, s.PrevStochD = 82, 84

		got := Evaluate(s, testThresholds)
		assert.Equal(t, Short, got.Direction)
		assert.Contains(t, got.Reason, "overbought")
	})

	t.Run("bearish cross", func(t *testing.T) {
		t.Parallel()
		s := downtrend()
		s.PrevStochK, s.PrevStochD = 62, 58
		s.StochK, s.StochD = 53, 56

		got := Evaluate(s, testThresholds)
		assert.Equal(t, Short, got.Direction)
		assert.Contains(t, got.Reason, "cross")
	})
}

func TestEvaluate_None(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mod  func(*indicators.Snapshot)
	}{
		{"weak adx", func(s *indicators.Snapshot) { s.ADX = 10 }},
		{"dead market", func(s *indicators.Snapshot) { s.ATRTrend = 0.1 }},
		{"neutral oscillator", func(s *indicators.Snapshot) {
			s.StochK, s.StochD = 50, 55
			s.PrevStochK, s.PrevStochD = 52, 51
		}},
		{"trend not aligned", func(s *indicators.Snapshot) {
			// Price above the fast EMA but below the slow one.
			s.Close, s.EMAFast, s.EMASlow = 101, 100, 103
			s.StochK, s.StochD = 12, 15
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := uptrend()
			tt.mod(&s)
			got := Evaluate(s, testThresholds)
			assert.Equal(t, None, got.Direction, got.Reason)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestEvaluate_OversoldInDowntrendIsNone(t *testing.T) {
	t.Parallel()

	// An armed long trigger without the trend behind it must not fire.
	s := downtrend()
	s.StochK, s.StochD = 10, 12
	s.PrevStochK, s.PrevStochD = 11, 13

	got := Evaluate(s, testThresholds)
	assert.Equal(t, None, got.Direction)
}

func TestDirectionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "LONG", Long.String())
	assert.Equal(t, "SHORT", Short.String())
	assert.Equal(t, "NONE", None.String())
}
