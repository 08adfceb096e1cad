package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	tradeHeader   = []string{"trade_id", "time", "symbol", "side", "contracts", "fill_price", "stop_price", "commission", "realized_pl", "outcome", "reasoning"}
	accountHeader = []string{"time", "balance", "cumulative_pl", "trades_today", "trade_count"}
)

type CSVJournal struct {
	tradesPath, accountPath string

	trades  *csv.Writer
	account *csv.Writer
	tf, af  *os.File
}

func NewCSV(tradesPath, accountPath string) (*CSVJournal, error) {
	j := &CSVJournal{tradesPath: tradesPath, accountPath: accountPath}
	if err := j.open(); err != nil {
		return nil, err
	}
	return j, nil
}

// open truncates both files and writes their headers.
func (j *CSVJournal) open() error {
	tf, err := os.Create(j.tradesPath)
	if err != nil {
		return err
	}
	af, err := os.Create(j.accountPath)
	if err != nil {
		tf.Close()
		return err
	}

	j.tf, j.af = tf, af
	j.trades = csv.NewWriter(tf)
	j.account = csv.NewWriter(af)

	if err := j.trades.Write(tradeHeader); err != nil {
		return err
	}
	if err := j.account.Write(accountHeader); err != nil {
		return err
	}
	return j.flush()
}

func (j *CSVJournal) flush() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.account.Flush()
	return j.account.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord, a AccountSnapshot) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.Time.UTC().Format(time.RFC3339),
		t.Symbol,
		t.Side,
		strconv.FormatInt(t.Contracts, 10),
		t.FillPrice.StringFixed(2),
		t.StopPrice.StringFixed(2),
		t.Commission.StringFixed(2),
		t.RealizedPL.StringFixed(2),
		t.Outcome,
		t.Reasoning,
	})
	if err != nil {
		return err
	}

	err = j.account.Write([]string{
		a.Time.UTC().Format(time.RFC3339),
		a.Balance.StringFixed(2),
		a.CumulativePL.StringFixed(2),
		strconv.Itoa(a.TradesToday),
		strconv.Itoa(a.TradeCount),
	})
	if err != nil {
		return err
	}

	return j.flush()
}

// Reset truncates both files back to their headers.
func (j *CSVJournal) Reset() error {
	if err := j.closeFiles(); err != nil {
		return err
	}
	return j.open()
}

func (j *CSVJournal) Close() error {
	if err := j.flush(); err != nil {
		return err
	}
	return j.closeFiles()
}

func (j *CSVJournal) closeFiles() error {
	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.af.Close()
}
