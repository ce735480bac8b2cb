package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSV_WritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(sampleTrade("01K3ZJ5YB4V0000000000000E5")))
	require.NoError(t, j.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "01K3ZJ5YB4V0000000000000E5", rows[1][0])
	assert.Equal(t, "BTCUSDT", rows[1][1])
	assert.Equal(t, "0.1", rows[1][3])
	assert.Equal(t, "take profit", rows[1][10])
}

func TestCSV_RestartAppendsWithoutSecondHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordTrade(sampleTrade("01K3ZJ5YB4V0000000000000F6")))
	require.NoError(t, j.Close())

	j2, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j2.RecordTrade(sampleTrade("01K3ZJ5YB4V0000000000000G7")))
	require.NoError(t, j2.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.NotEqual(t, csvHeader, rows[1])
	assert.NotEqual(t, csvHeader, rows[2])
}
