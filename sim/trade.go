package sim

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is how trade times are rendered for display.
const TimeLayout = "2006-01-02 15:04"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("invalid side %q", s)
}

type Outcome string

const (
	Win  Outcome = "WIN"
	Loss Outcome = "LOSS"
)

// Trade is an executed paper trade. It is never modified after Execute
// returns it.
type Trade struct {
	ID         string
	Time       time.Time
	Symbol     string
	Side       Side
	Contracts  int64
	FillPrice  decimal.Decimal // rounded to 2dp
	StopPrice  decimal.Decimal
	Commission decimal.Decimal
	PnL        decimal.Decimal // profit minus commission, 2dp
	Outcome    Outcome
	Reasoning  string
}

type tradeJSON struct {
	ID         string  `json:"id"`
	Time       string  `json:"time"`
	Symbol     string  `json:"symbol"`
	Action     Side    `json:"action"`
	Contracts  int64   `json:"contracts"`
	Price      float64 `json:"price"`
	Stop       float64 `json:"stop"`
	Commission float64 `json:"commission"`
	PnL        float64 `json:"pnl"`
	Result     Outcome `json:"result"`
	Reasoning  string  `json:"reasoning"`
}

func (t Trade) MarshalJSON() ([]byte, error) {
	return json.Marshal(tradeJSON{
		ID:         t.ID,
		Time:       t.Time.Format(TimeLayout),
		Symbol:     t.Symbol,
		Action:     t.Side,
		Contracts:  t.Contracts,
		Price:      t.FillPrice.InexactFloat64(),
		Stop:       t.StopPrice.Round(2).InexactFloat64(),
		Commission: t.Commission.InexactFloat64(),
		PnL:        t.PnL.InexactFloat64(),
		Result:     t.Outcome,
		Reasoning:  t.Reasoning,
	})
}
