// Package replay drives the engine from a recorded session: candles are fed
// into a CandleStore and scripted trade events are submitted as the session
// plays out.
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/market"
)

// Executor is the part of engine.Service a replay drives.
type Executor interface {
	Execute(ctx context.Context, req engine.ExecuteRequest) (engine.ExecuteResult, error)
	Reset() engine.ResetResult
}

// Options controls how replay behaves.
type Options struct {
	// If true the event on a row is applied before its candle is stored, so
	// BUY/SELL price off the previous close.
	EventThenCandle bool

	// User is stamped on every execute request.
	User string
}

// Result records one scripted event and what the engine answered.
type Result struct {
	Row    int
	Time   time.Time
	Event  string
	Result engine.ExecuteResult
}

// CSV replays a candle file.
//
// Columns:
//
//	time,symbol,open,high,low,close[,event,arg1]
//
// Events (case-insensitive):
//
//	BUY:   arg1=reasoning (optional)
//	SELL:  arg1=reasoning (optional)
//	RESET
//
// A header row whose first column is "time" is skipped.
func CSV(ctx context.Context, path string, store *market.CandleStore, x Executor, opts Options) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(ctx, f, store, x, opts)
}

// Read replays CSV rows from r. See CSV for the format.
func Read(ctx context.Context, r io.Reader, store *market.CandleStore, x Executor, opts Options) ([]Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var results []Result
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return results, nil
		}
		if err != nil {
			return results, err
		}
		if len(rec) == 0 {
			continue
		}
		if row == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "time") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := handleRow(ctx, store, x, rec, opts)
		if err != nil {
			return results, fmt.Errorf("row %d: %w", row, err)
		}
		if res != nil {
			res.Row = row
			results = append(results, *res)
		}
	}
}

func handleRow(ctx context.Context, store *market.CandleStore, x Executor, rec []string, opts Options) (*Result, error) {
	if len(rec) < 6 {
		return nil, fmt.Errorf("need at least 6 cols time,symbol,open,high,low,close: %v", rec)
	}

	symbol, c, err := parseCandle(rec)
	if err != nil {
		return nil, err
	}

	event := ""
	if len(rec) >= 7 {
		event = strings.ToUpper(strings.TrimSpace(rec[6]))
	}
	arg := ""
	if len(rec) >= 8 {
		arg = strings.TrimSpace(rec[7])
	}

	if !opts.EventThenCandle {
		store.Append(symbol, c)
	}

	var res *Result
	if event != "" {
		out, err := handleEvent(ctx, x, symbol, event, arg, opts)
		if err != nil {
			return nil, err
		}
		res = &Result{Time: c.Time, Event: event, Result: out}
	}

	if opts.EventThenCandle {
		store.Append(symbol, c)
	}
	return res, nil
}

func handleEvent(ctx context.Context, x Executor, symbol, event, arg string, opts Options) (engine.ExecuteResult, error) {
	switch event {
	case "BUY", "SELL":
		return x.Execute(ctx, engine.ExecuteRequest{
			Symbol:    symbol,
			Side:      event,
			User:      opts.User,
			Reasoning: arg,
		})

	case "RESET":
		return engine.ExecuteResult{Status: x.Reset().Status}, nil

	default:
		return engine.ExecuteResult{}, fmt.Errorf("unknown event %q", event)
	}
}

func parseCandle(rec []string) (string, market.Candle, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[0]))
	if err != nil {
		return "", market.Candle{}, fmt.Errorf("bad time %q: %w", rec[0], err)
	}
	symbol := strings.TrimSpace(rec[1])
	if symbol == "" {
		return "", market.Candle{}, fmt.Errorf("symbol is empty")
	}

	names := [4]string{"open", "high", "low", "close"}
	var v [4]float64
	for i := range v {
		v[i], err = strconv.ParseFloat(strings.TrimSpace(rec[2+i]), 64)
		if err != nil {
			return "", market.Candle{}, fmt.Errorf("bad %s %q: %w", names[i], rec[2+i], err)
		}
	}

	return symbol, market.Candle{Time: t, Open: v[0], High: v[1], Low: v[2], Close: v[3]}, nil
}
