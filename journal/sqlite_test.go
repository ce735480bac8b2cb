package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrade(id string) TradeRecord {
	return TradeRecord{
		ID:           id,
		Symbol:       "BTCUSDT",
		Side:         "LONG",
		Quantity:     decimal.RequireFromString("0.1"),
		EntryPrice:   decimal.RequireFromString("100"),
		ExitPrice:    decimal.RequireFromString("102"),
		OpenedAt:     time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		ClosedAt:     time.Date(2026, 8, 30, 11, 30, 0, 0, time.UTC),
		RealizedPnL:  decimal.RequireFromString("0.1919"),
		BalanceAfter: decimal.RequireFromString("1000.1919"),
		Reason:       "take profit",
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	defer j.Close()

	want := sampleTrade("01K3ZJ5YB4V0000000000000A1")
	require.NoError(t, j.RecordTrade(want))

	got, err := j.Trades()
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.ID, got[0].ID)
	assert.Equal(t, want.Symbol, got[0].Symbol)
	assert.Equal(t, want.Side, got[0].Side)
	assert.True(t, want.Quantity.Equal(got[0].Quantity))
	assert.True(t, want.EntryPrice.Equal(got[0].EntryPrice))
	assert.True(t, want.ExitPrice.Equal(got[0].ExitPrice))
	assert.True(t, want.RealizedPnL.Equal(got[0].RealizedPnL))
	assert.True(t, want.BalanceAfter.Equal(got[0].BalanceAfter))
	assert.True(t, want.OpenedAt.Equal(got[0].OpenedAt))
	assert.True(t, want.ClosedAt.Equal(got[0].ClosedAt))
	assert.Equal(t, want.Reason, got[0].Reason)
}

func TestSQLite_RetriedAppendIsIdempotent(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	defer j.Close()

	rec := sampleTrade("01K3ZJ5YB4V0000000000000B2")
	require.NoError(t, j.RecordTrade(rec))
	require.NoError(t, j.RecordTrade(rec))

	got, err := j.Trades()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLite_SchemaSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(sampleTrade("01K3ZJ5YB4V0000000000000C3")))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	require.NoError(t, j2.RecordTrade(sampleTrade("01K3ZJ5YB4V0000000000000D4")))
	got, err := j2.Trades()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
