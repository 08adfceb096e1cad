package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is the durable form of an executed paper trade.
type TradeRecord struct {
	TradeID    string
	Time       time.Time
	Symbol     string
	Side       string
	Contracts  int64
	FillPrice  decimal.Decimal
	StopPrice  decimal.Decimal
	Commission decimal.Decimal
	RealizedPL decimal.Decimal
	Outcome    string
	Reasoning  string
}

// AccountSnapshot holds the account scalars right after a trade.
type AccountSnapshot struct {
	Time         time.Time
	Balance      decimal.Decimal
	CumulativePL decimal.Decimal
	TradesToday  int
	TradeCount   int
}

// Journal persists one trade and the account state it produced as a unit.
type Journal interface {
	RecordTrade(TradeRecord, AccountSnapshot) error
	Reset() error
	Close() error
}

// State is everything needed to rebuild the in-memory account.
type State struct {
	Trades  []TradeRecord
	Account AccountSnapshot
}

// Loader is implemented by journals that can be read back.
type Loader interface {
	LoadState() (State, bool, error)
}
