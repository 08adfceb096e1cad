package sim

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func trade(n int, outcome Outcome, pnl string) Trade {
	return Trade{
		ID:      fmt.Sprintf("T%02d", n),
		Symbol:  "NQ",
		Side:    Buy,
		PnL:     d(pnl),
		Outcome: outcome,
	}
}

func TestLedgerApply(t *testing.T) {
	t.Parallel()

	l := NewLedger(decimal.NewFromInt(DefaultStartingBalance))
	l.Apply(trade(1, Win, "1200.40"))
	l.Apply(trade(2, Loss, "-402"))

	assertDec(t, "100798.4", l.Balance())
	assertDec(t, "798.4", l.PnL())
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Balance().Equal(l.StartingBalance().Add(l.PnL())))
}

func TestLedgerStatsEmpty(t *testing.T) {
	t.Parallel()

	s := NewLedger(decimal.NewFromInt(DefaultStartingBalance)).Stats()

	assertDec(t, "100000", s.Balance)
	assertDec(t, "0", s.PnL)
	assert.Equal(t, 0, s.TradesCount)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Empty(t, s.History)
}

func TestLedgerStatsRecentHistory(t *testing.T) {
	t.Parallel()

	l := NewLedger(decimal.NewFromInt(DefaultStartingBalance))
	for i := 1; i <= 13; i++ {
		outcome := Win
		if i%3 == 0 {
			outcome = Loss
		}
		l.Apply(trade(i, outcome, "1"))
	}

	s := l.Stats()
	assert.Equal(t, 13, s.TradesCount)
	assert.Len(t, s.History, RecentTrades)
	assert.Equal(t, "T04", s.History[0].ID)
	assert.Equal(t, "T13", s.History[RecentTrades-1].ID)

	// 9 wins of 13
	assert.Equal(t, 69.2, s.WinRate)

	// full history is kept internally
	assert.Len(t, l.History(), 13)
}

func TestLedgerStatsIsACopy(t *testing.T) {
	t.Parallel()

	l := NewLedger(decimal.NewFromInt(DefaultStartingBalance))
	l.Apply(trade(1, Win, "10"))

	s := l.Stats()
	s.History[0].Symbol = "changed"

	assert.Equal(t, "NQ", l.History()[0].Symbol)
}

func TestLedgerReset(t *testing.T) {
	t.Parallel()

	l := NewLedger(decimal.NewFromInt(DefaultStartingBalance))
	l.Apply(trade(1, Loss, "-1500"))
	l.Reset()

	assertDec(t, "100000", l.Balance())
	assertDec(t, "0", l.PnL())
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.History())
}

func TestLedgerRestore(t *testing.T) {
	t.Parallel()

	l := NewLedger(decimal.NewFromInt(DefaultStartingBalance))
	l.Apply(trade(1, Win, "999"))

	l.Restore([]Trade{trade(2, Win, "250.5"), trade(3, Loss, "-100")})

	assert.Equal(t, 2, l.Len())
	assertDec(t, "150.5", l.PnL())
	assertDec(t, "100150.5", l.Balance())
}

func TestWinRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wins, total int
		want        float64
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WinRate(tt.wins, tt.total), "%d/%d", tt.wins, tt.total)
	}
}
