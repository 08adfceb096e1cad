package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	accountPath := filepath.Join(dir, "account.csv")

	j, err := NewCSV(tradesPath, accountPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{tradeHeader}, readCSV(t, tradesPath))
	assert.Equal(t, [][]string{accountHeader}, readCSV(t, accountPath))
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	accountPath := filepath.Join(dir, "account.csv")

	j, err := NewCSV(tradesPath, accountPath)
	require.NoError(t, err)

	at := time.Date(2024, 1, 2, 14, 35, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade("T1", at, "1818.5"), sampleSnapshot(at, "101818.5", "1818.5", 1, 1)))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, []string{
		"T1", "2024-01-02T14:35:00Z", "NQ", "BUY", "2",
		"20000.25", "19980.00", "4.00", "1818.50", "WIN", "RDR breakout",
	}, trades[1])

	account := readCSV(t, accountPath)
	require.Len(t, account, 2)
	assert.Equal(t, []string{"2024-01-02T14:35:00Z", "101818.50", "1818.50", "1", "1"}, account[1])
}

func TestCSVJournalReset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	accountPath := filepath.Join(dir, "account.csv")

	j, err := NewCSV(tradesPath, accountPath)
	require.NoError(t, err)

	at := time.Date(2024, 1, 2, 14, 35, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade("T1", at, "1"), sampleSnapshot(at, "100001", "1", 1, 1)))
	require.NoError(t, j.Reset())
	require.NoError(t, j.RecordTrade(sampleTrade("T2", at, "2"), sampleSnapshot(at, "100002", "2", 1, 1)))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, "T2", trades[1][0])
}
