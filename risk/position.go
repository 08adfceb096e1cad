package risk

import (
	"github.com/rustyeddy/papertrade/market"
	"github.com/shopspring/decimal"
)

type Tier string

const (
	Standard Tier = "STANDARD"
	Micro    Tier = "MICRO"
)

// Sizing is the per-trade sizing decision. It is not persisted.
type Sizing struct {
	Tier          Tier
	Symbol        string // tier-adjusted, e.g. "MNQ" for micro
	Contracts     int64  // always >= 1
	RiskBudget    decimal.Decimal
	PointDistance decimal.Decimal
	PlannedRisk   decimal.Decimal // dollars lost at the stop with Contracts
}

// Size converts the policy's risk budget on balance into a contract count.
// Standard contracts are used when the budget covers at least one; otherwise
// micros. At least one contract is always returned, even when that exceeds
// the budget.
func Size(balance decimal.Decimal, p Policy, entry, stop decimal.Decimal, inst market.Instrument) Sizing {
	budget := balance.Mul(p.RiskPerTrade)

	dist := entry.Sub(stop).Abs()
	if dist.IsZero() {
		dist = p.MinStopPoints
	}

	s := Sizing{
		RiskBudget:    budget,
		PointDistance: dist,
	}

	perStandard := dist.Mul(inst.PointValue)
	if budget.GreaterThanOrEqual(perStandard) {
		s.Tier = Standard
		s.Symbol = inst.Symbol
		s.Contracts = contracts(budget, perStandard)
		s.PlannedRisk = perStandard.Mul(decimal.NewFromInt(s.Contracts))
		return s
	}

	perMicro := dist.Mul(inst.MicroPointValue)
	s.Tier = Micro
	s.Symbol = inst.MicroSymbol
	s.Contracts = contracts(budget, perMicro)
	s.PlannedRisk = perMicro.Mul(decimal.NewFromInt(s.Contracts))
	return s
}

func contracts(budget, perContract decimal.Decimal) int64 {
	if !perContract.IsPositive() {
		return 1
	}
	n := budget.Div(perContract).Floor().IntPart()
	if n < 1 {
		return 1
	}
	return n
}
