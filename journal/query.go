package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const tradeColumns = `trade_id, time, symbol, side, contracts, fill_price, stop_price, commission, realized_pl, outcome, reasoning`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.Time,
		&rec.Symbol,
		&rec.Side,
		&rec.Contracts,
		&rec.FillPrice,
		&rec.StopPrice,
		&rec.Commission,
		&rec.RealizedPL,
		&rec.Outcome,
		&rec.Reasoning,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every trade in execution order.
func (j *SQLite) ListTrades() ([]TradeRecord, error) {
	return j.listTrades(`SELECT ` + tradeColumns + ` FROM trades ORDER BY seq ASC`)
}

// ListTradesBetween returns trades executed within [start, end).
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.listTrades(`SELECT `+tradeColumns+` FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY seq ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) listTrades(query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestAccount returns the most recent snapshot. ok is false when nothing
// has been recorded since the last reset.
func (j *SQLite) LatestAccount() (snap AccountSnapshot, ok bool, err error) {
	err = j.db.QueryRow(`
		SELECT time, balance, cumulative_pl, trades_today, trade_count
		FROM account
		ORDER BY seq DESC
		LIMIT 1`).Scan(
		&snap.Time,
		&snap.Balance,
		&snap.CumulativePL,
		&snap.TradesToday,
		&snap.TradeCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return AccountSnapshot{}, false, nil
	}
	if err != nil {
		return AccountSnapshot{}, false, err
	}
	return snap, true, nil
}

// LoadState reads back the full trade sequence and the latest snapshot.
func (j *SQLite) LoadState() (State, bool, error) {
	acct, ok, err := j.LatestAccount()
	if err != nil || !ok {
		return State{}, false, err
	}
	trades, err := j.ListTrades()
	if err != nil {
		return State{}, false, err
	}
	return State{Trades: trades, Account: acct}, true, nil
}
