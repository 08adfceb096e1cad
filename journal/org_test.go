package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	rec := sampleTrade("01HQ3J5X7Y8Z9ABCDEFGHJKMNP", at, "-412")
	rec.Outcome = "LOSS"

	result := FormatTradeOrg(rec)

	assert.True(t, strings.HasPrefix(result, "** LOSS BUY 2 NQ (01HQ3J5X)\n"))
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HQ3J5X7Y8Z9ABCDEFGHJKMNP")
	assert.Contains(t, result, ":TIME: 2024-03-15T14:30:45Z")
	assert.Contains(t, result, ":FILL_PRICE: 20000.25")
	assert.Contains(t, result, ":STOP_PRICE: 19980.00")
	assert.Contains(t, result, ":REALIZED_PL: -412.00")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Thesis\n- RDR breakout")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)

	assert.Empty(t, FormatTradesOrg(nil))

	out := FormatTradesOrg([]TradeRecord{
		sampleTrade("A", at, "1"),
		sampleTrade("B", at, "2"),
	})
	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Contains(t, out, "(A)")
	assert.Contains(t, out, "(B)")
}

func TestShortID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("123456789"))
}
