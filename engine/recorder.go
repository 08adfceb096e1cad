package engine

import (
	"fmt"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
)

// journalRecorder adapts a journal.Journal to risk.Recorder.
type journalRecorder struct {
	j journal.Journal
}

func (r journalRecorder) RecordTrade(t sim.Trade, s risk.Snapshot) error {
	return r.j.RecordTrade(toRecord(t), journal.AccountSnapshot{
		Time:         s.Time,
		Balance:      s.Balance,
		CumulativePL: s.PnL,
		TradesToday:  s.TradesToday,
		TradeCount:   s.TradesCount,
	})
}

func (r journalRecorder) Reset() error {
	return r.j.Reset()
}

func toRecord(t sim.Trade) journal.TradeRecord {
	return journal.TradeRecord{
		TradeID:    t.ID,
		Time:       t.Time,
		Symbol:     t.Symbol,
		Side:       string(t.Side),
		Contracts:  t.Contracts,
		FillPrice:  t.FillPrice,
		StopPrice:  t.StopPrice,
		Commission: t.Commission,
		RealizedPL: t.PnL,
		Outcome:    string(t.Outcome),
		Reasoning:  t.Reasoning,
	}
}

func fromRecord(rec journal.TradeRecord) (sim.Trade, error) {
	side, err := sim.ParseSide(rec.Side)
	if err != nil {
		return sim.Trade{}, fmt.Errorf("trade %s: %w", rec.TradeID, err)
	}

	var outcome sim.Outcome
	switch sim.Outcome(rec.Outcome) {
	case sim.Win, sim.Loss:
		outcome = sim.Outcome(rec.Outcome)
	default:
		return sim.Trade{}, fmt.Errorf("trade %s: invalid outcome %q", rec.TradeID, rec.Outcome)
	}

	return sim.Trade{
		ID:         rec.TradeID,
		Time:       rec.Time,
		Symbol:     rec.Symbol,
		Side:       side,
		Contracts:  rec.Contracts,
		FillPrice:  rec.FillPrice,
		StopPrice:  rec.StopPrice,
		Commission: rec.Commission,
		PnL:        rec.RealizedPL,
		Outcome:    outcome,
		Reasoning:  rec.Reasoning,
	}, nil
}
