package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaguire/tradewatch/account"
)

func TestFixedPercentPolicy_Long(t *testing.T) {
	t.Parallel()

	p := FixedPercentPolicy{StopPercent: d("0.01"), RewardRisk: d("2")}
	lv, err := p.Levels(account.SideLong, d("100"), decimal.Zero)

	require.NoError(t, err)
	assert.True(t, d("102").Equal(lv.TakeProfit), "tp %s", lv.TakeProfit)
	assert.True(t, d("99").Equal(lv.StopLoss), "sl %s", lv.StopLoss)
}

func TestFixedPercentPolicy_Short(t *testing.T) {
	t.Parallel()

	p := FixedPercentPolicy{StopPercent: d("0.01"), RewardRisk: d("2")}
	lv, err := p.Levels(account.SideShort, d("100"), decimal.Zero)

	require.NoError(t, err)
	assert.True(t, d("98").Equal(lv.TakeProfit), "tp %s", lv.TakeProfit)
	assert.True(t, d("101").Equal(lv.StopLoss), "sl %s", lv.StopLoss)
}

func TestATRPolicy(t *testing.T) {
	t.Parallel()

	p := ATRPolicy{Multiple: d("1.5"), RewardRisk: d("2")}
	lv, err := p.Levels(account.SideLong, d("100"), d("2"))

	require.NoError(t, err)
	// Stop distance 3, target distance 6.
	assert.True(t, d("106").Equal(lv.TakeProfit), "tp %s", lv.TakeProfit)
	assert.True(t, d("97").Equal(lv.StopLoss), "sl %s", lv.StopLoss)
}

func TestExitPolicies_Errors(t *testing.T) {
	t.Parallel()

	t.Run("zero atr", func(t *testing.T) {
		t.Parallel()
		p := ATRPolicy{Multiple: d("1.5"), RewardRisk: d("2")}
		_, err := p.Levels(account.SideLong, d("100"), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("stop wider than price", func(t *testing.T) {
		t.Parallel()
		p := FixedPercentPolicy{StopPercent: d("1.5"), RewardRisk: d("2")}
		_, err := p.Levels(account.SideLong, d("100"), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("unknown side", func(t *testing.T) {
		t.Parallel()
		p := FixedPercentPolicy{StopPercent: d("0.01"), RewardRisk: d("2")}
		_, err := p.Levels(account.Side("SIDEWAYS"), d("100"), decimal.Zero)
		assert.Error(t, err)
	})
}
