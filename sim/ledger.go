package sim

import (
	"github.com/shopspring/decimal"
)

const (
	// DefaultStartingBalance is the paper account's opening balance.
	DefaultStartingBalance = 100000

	// RecentTrades is how many trades Stats exposes.
	RecentTrades = 10
)

// Ledger holds the paper account: balance, cumulative P&L and the full trade
// history in execution order.
//
// Ledger does no locking. It is owned by a single writer (risk.Gate), which
// serializes every access.
type Ledger struct {
	start   decimal.Decimal
	balance decimal.Decimal
	pnl     decimal.Decimal
	history []Trade
}

// Stats is a read-only view of the ledger.
type Stats struct {
	Balance     decimal.Decimal
	PnL         decimal.Decimal
	TradesCount int
	WinRate     float64
	History     []Trade // last RecentTrades, oldest first
}

func NewLedger(start decimal.Decimal) *Ledger {
	return &Ledger{
		start:   start,
		balance: start,
		pnl:     decimal.Zero,
	}
}

// Apply appends t to the history and books its P&L. It is the only path that
// changes balance or cumulative P&L.
func (l *Ledger) Apply(t Trade) {
	l.history = append(l.history, t)
	l.balance = l.balance.Add(t.PnL)
	l.pnl = l.pnl.Add(t.PnL)
}

func (l *Ledger) StartingBalance() decimal.Decimal { return l.start }
func (l *Ledger) Balance() decimal.Decimal         { return l.balance }
func (l *Ledger) PnL() decimal.Decimal             { return l.pnl }
func (l *Ledger) Len() int                         { return len(l.history) }

// History returns a copy of every trade since the last reset.
func (l *Ledger) History() []Trade {
	out := make([]Trade, len(l.history))
	copy(out, l.history)
	return out
}

func (l *Ledger) Stats() Stats {
	total := len(l.history)

	wins := 0
	for _, t := range l.history {
		if t.Outcome == Win {
			wins++
		}
	}

	start := 0
	if total > RecentTrades {
		start = total - RecentTrades
	}
	recent := make([]Trade, total-start)
	copy(recent, l.history[start:])

	return Stats{
		Balance:     l.balance.Round(2),
		PnL:         l.pnl.Round(2),
		TradesCount: total,
		WinRate:     WinRate(wins, total),
		History:     recent,
	}
}

// Reset restores the opening balance and drops the history.
func (l *Ledger) Reset() {
	l.balance = l.start
	l.pnl = decimal.Zero
	l.history = nil
}

// Restore replaces the ledger contents with a previously recorded history,
// recomputing balance and P&L from it.
func (l *Ledger) Restore(trades []Trade) {
	l.Reset()
	for _, t := range trades {
		l.Apply(t)
	}
}

// WinRate is wins/total as a percentage rounded to one decimal, 0 when
// there are no trades.
func WinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(wins) * 100).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		InexactFloat64()
}
