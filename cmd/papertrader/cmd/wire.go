package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/feed"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
)

func openJournal(c config.JournalConfig) (journal.Journal, error) {
	switch c.Type {
	case "sqlite":
		j, err := journal.NewSQLite(c.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		return j, nil
	case "csv":
		j, err := journal.NewCSV(c.TradesFile, c.AccountFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil
	}
	return nil, nil
}

func candleSource(c config.FeedConfig) market.CandleSource {
	if c.URL != "" {
		return feed.NewClient(c.URL, c.Token)
	}
	store := market.NewCandleStore()
	store.SetPrice(c.Symbol, c.StaticPrice, time.Now())
	return store
}

// buildEngine wires the account, gate and service described by cfg and
// restores prior state from the journal when it can be read back.
func buildEngine(cfg *config.Config, src market.CandleSource, j journal.Journal, log zerolog.Logger) (*engine.Service, *engine.Metrics, error) {
	ledger := sim.NewLedger(cfg.StartingBalance())
	exchange := sim.NewExchange(ledger, cfg.Model(), sim.NewRand(cfg.Simulator.Seed))
	gate := risk.NewGate(cfg.Policy(), exchange)

	metrics := engine.NewMetrics()
	svc := engine.New(gate, market.NewAnalyzer(src), engine.Options{
		StopPoints: cfg.StopPoints(),
		Journal:    j,
		Metrics:    metrics,
		Logger:     log,
	})

	if loader, ok := j.(journal.Loader); ok {
		if _, err := svc.Restore(loader); err != nil {
			return nil, nil, err
		}
	}

	return svc, metrics, nil
}
