package risk

import "github.com/shopspring/decimal"

type Policy struct {
	// Circuit breakers
	MaxDailyLoss   decimal.Decimal // 1000: halt once cumulative P&L <= -MaxDailyLoss
	MaxTradesDaily int             // 5

	// Sizing
	RiskPerTrade decimal.Decimal // 0.005 of balance

	// MinStopPoints replaces a zero entry/stop distance so sizing never
	// divides by zero. It is a floor, not an estimate of real risk.
	MinStopPoints decimal.Decimal // 10
}

func DefaultPolicy() Policy {
	return Policy{
		MaxDailyLoss:   decimal.NewFromInt(1000),
		MaxTradesDaily: 5,
		RiskPerTrade:   decimal.RequireFromString("0.005"),
		MinStopPoints:  decimal.NewFromInt(10),
	}
}
