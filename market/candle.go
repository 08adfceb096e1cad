package market

import (
	"context"
	"errors"
	"time"
)

// ErrDataUnavailable means no usable price could be obtained.
var ErrDataUnavailable = errors.New("market data unavailable")

// Candle represents OHLC (Open, High, Low, Close) candlestick data
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

// CandleRequest selects candles for a symbol. Lookback is measured back
// from now; zero means whatever the source has.
type CandleRequest struct {
	Symbol   string
	Interval time.Duration
	Lookback time.Duration
}

// CandleSource supplies candles in ascending time order.
type CandleSource interface {
	Candles(ctx context.Context, req CandleRequest) ([]Candle, error)
}

// LastClose returns the close of the final candle.
func LastClose(cs []Candle) (float64, error) {
	if len(cs) == 0 {
		return 0, ErrDataUnavailable
	}
	return cs[len(cs)-1].Close, nil
}
