package market

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	BiasBullish = "BULLISH (KM7)"
	BiasBearish = "BEARISH (KM7)"
	BiasNeutral = "NEUTRAL"
	BiasOffline = "DATA_OFFLINE"
)

type Strategy struct {
	Bias         string `json:"bias"`
	MMXM         string `json:"mmxm"`
	ContextArray string `json:"context_array"`
}

type Levels struct {
	RDR *Range `json:"RDR"`
}

type TimeLogic struct {
	SilverBullet string `json:"silver_bullet"`
}

// Analysis is the qualitative read on an instrument. Only Price is consumed
// by the trading core; the rest is informational.
type Analysis struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Strategy  Strategy  `json:"strategy"`
	Reasoning string    `json:"reasoning"`
	Levels    Levels    `json:"m7_levels"`
	TimeLogic TimeLogic `json:"time_logic"`
}

// Offline is the payload served when no candles are available.
func Offline(symbol string) Analysis {
	return Analysis{
		Symbol:    symbol,
		Price:     0,
		Strategy:  Strategy{Bias: BiasOffline, MMXM: "N/A", ContextArray: "N/A"},
		Reasoning: "Market Data Unavailable",
		TimeLogic: TimeLogic{SilverBullet: "N/A"},
	}
}

// Analyzer turns candles into an Analysis and a current price.
type Analyzer struct {
	Source   CandleSource
	Location *time.Location
	Now      func() time.Time
}

func NewAnalyzer(src CandleSource) *Analyzer {
	return &Analyzer{
		Source:   src,
		Location: NewYork,
		Now:      time.Now,
	}
}

// Analyze reads five days of 5-minute candles. When the source fails or is
// empty the Offline payload is returned along with an error wrapping
// ErrDataUnavailable.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (Analysis, error) {
	cs, err := a.Source.Candles(ctx, CandleRequest{
		Symbol:   symbol,
		Interval: 5 * time.Minute,
		Lookback: 5 * 24 * time.Hour,
	})
	if err != nil {
		return Offline(symbol), fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	last, err := LastClose(cs)
	if err != nil {
		return Offline(symbol), err
	}

	now := a.Now()
	price := round2(last)
	rdr := SessionRange(cs, RDR, now, a.Location)
	sb := SilverBullet(now, a.Location)

	bias := BiasNeutral
	if rdr != nil {
		switch {
		case price > rdr.High:
			bias = BiasBullish
		case price < rdr.Low:
			bias = BiasBearish
		}
	}

	var reasons []string
	switch bias {
	case BiasBullish:
		reasons = append(reasons, "Price > RDR High")
	case BiasBearish:
		reasons = append(reasons, "Price < RDR Low")
	}
	if sb != OffHours {
		reasons = append(reasons, sb+" Active")
	}

	return Analysis{
		Symbol: symbol,
		Price:  price,
		Strategy: Strategy{
			Bias:         bias,
			MMXM:         "Consolidation",
			ContextArray: "Scanning...",
		},
		Reasoning: strings.Join(reasons, " + "),
		Levels:    Levels{RDR: rdr},
		TimeLogic: TimeLogic{SilverBullet: sb},
	}, nil
}

// LastPrice returns the latest 1-minute close. A missing or non-positive
// price is ErrDataUnavailable; it is never defaulted.
func (a *Analyzer) LastPrice(ctx context.Context, symbol string) (float64, error) {
	cs, err := a.Source.Candles(ctx, CandleRequest{
		Symbol:   symbol,
		Interval: time.Minute,
		Lookback: 24 * time.Hour,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	price, err := LastClose(cs)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: non-positive price %v", ErrDataUnavailable, price)
	}
	return price, nil
}
