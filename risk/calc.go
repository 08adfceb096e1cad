package risk

import "github.com/shopspring/decimal"

// RiskPct is planned risk as a fraction of balance. A non-positive balance
// yields 1 (everything at risk).
func RiskPct(plannedRisk, balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return plannedRisk.Div(balance)
}
