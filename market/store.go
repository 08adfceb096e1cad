package market

import (
	"context"
	"sync"
	"time"
)

// CandleStore is an in-memory CandleSource. It backs offline runs and tests.
type CandleStore struct {
	mu      sync.RWMutex
	candles map[string][]Candle
}

func NewCandleStore() *CandleStore {
	return &CandleStore{candles: make(map[string][]Candle)}
}

// Set replaces the candles held for symbol.
func (s *CandleStore) Set(symbol string, cs []Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candles[symbol] = append([]Candle(nil), cs...)
}

func (s *CandleStore) Append(symbol string, c Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candles[symbol] = append(s.candles[symbol], c)
}

// SetPrice stores a single flat candle at price.
func (s *CandleStore) SetPrice(symbol string, price float64, at time.Time) {
	s.Set(symbol, []Candle{{Time: at, Open: price, High: price, Low: price, Close: price}})
}

// Candles returns a copy of the stored candles. Lookback is applied relative
// to the newest candle; Interval is ignored.
func (s *CandleStore) Candles(ctx context.Context, req CandleRequest) ([]Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs := s.candles[req.Symbol]
	if len(cs) == 0 {
		return nil, nil
	}

	start := 0
	if req.Lookback > 0 {
		cutoff := cs[len(cs)-1].Time.Add(-req.Lookback)
		for start < len(cs) && cs[start].Time.Before(cutoff) {
			start++
		}
	}

	out := make([]Candle, len(cs)-start)
	copy(out, cs[start:])
	return out, nil
}
