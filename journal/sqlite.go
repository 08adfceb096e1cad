package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and writes ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordTrade inserts the trade and the resulting account snapshot in one
// transaction.
func (j *SQLite) RecordTrade(t TradeRecord, a AccountSnapshot) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO trades
		(trade_id, time, symbol, side, contracts, fill_price, stop_price, commission, realized_pl, outcome, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Time.UTC(), t.Symbol, t.Side, t.Contracts,
		t.FillPrice, t.StopPrice, t.Commission, t.RealizedPL, t.Outcome, t.Reasoning,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO account
		(time, balance, cumulative_pl, trades_today, trade_count)
		VALUES (?, ?, ?, ?, ?)`,
		a.Time.UTC(), a.Balance, a.CumulativePL, a.TradesToday, a.TradeCount,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	return tx.Commit()
}

// Reset deletes every trade and snapshot.
func (j *SQLite) Reset() error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"trades", "account"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
