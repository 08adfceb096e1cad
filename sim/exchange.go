package sim

import (
	"time"

	"github.com/rustyeddy/papertrade/internal/id"
	"github.com/shopspring/decimal"
)

// Model is the fill and outcome model used by the exchange. It is a
// placeholder statistical model, not a market simulator: the weights and
// ranges produce plausible-looking results and nothing more.
type Model struct {
	// Slippage is drawn uniformly from these non-negative offsets and moved
	// against the trader.
	Slippage []decimal.Decimal

	// Outcomes is sampled uniformly; repeat an entry to weight it.
	Outcomes []Outcome

	// Reward multiple on a win is uniform in [MinReward, MaxReward].
	MinReward float64
	MaxReward float64

	CommissionPerContract decimal.Decimal
}

// DefaultModel draws slippage from {0, 0.25, 0.5}, wins two times out of
// three with a 1.5R to 3R payoff, and charges $2 per contract.
func DefaultModel() Model {
	return Model{
		Slippage: []decimal.Decimal{
			decimal.Zero,
			decimal.RequireFromString("0.25"),
			decimal.RequireFromString("0.5"),
		},
		Outcomes:              WeightedOutcomes(2, 1),
		MinReward:             1.5,
		MaxReward:             3.0,
		CommissionPerContract: decimal.NewFromInt(2),
	}
}

// WeightedOutcomes builds an outcome sample set with the given counts,
// wins first.
func WeightedOutcomes(wins, losses int) []Outcome {
	out := make([]Outcome, 0, wins+losses)
	for i := 0; i < wins; i++ {
		out = append(out, Win)
	}
	for i := 0; i < losses; i++ {
		out = append(out, Loss)
	}
	return out
}

// Order is a sized request for the exchange. Contracts must already be >= 1.
type Order struct {
	Symbol     string
	Side       Side
	Contracts  int64
	Price      decimal.Decimal // reference price
	Stop       decimal.Decimal
	PointValue decimal.Decimal // dollars per point per contract
	Reasoning  string
}

// Exchange fills paper orders against a Ledger.
type Exchange struct {
	ledger *Ledger
	model  Model
	rng    Rand

	// Now stamps trades; defaults to time.Now.
	Now func() time.Time
}

func NewExchange(l *Ledger, m Model, rng Rand) *Exchange {
	return &Exchange{
		ledger: l,
		model:  m,
		rng:    rng,
		Now:    time.Now,
	}
}

func (e *Exchange) Ledger() *Ledger { return e.ledger }
func (e *Exchange) Model() Model    { return e.model }

// Execute fills o, draws the outcome, books the result on the ledger and
// returns the trade.
//
// Draw order is fixed: slippage index, outcome index, then the reward
// fraction on a win.
func (e *Exchange) Execute(o Order) Trade {
	slip := decimal.Zero
	if n := len(e.model.Slippage); n > 0 {
		slip = e.model.Slippage[e.rng.IntN(n)]
	}

	fill := o.Price.Add(slip)
	if o.Side == Sell {
		fill = o.Price.Sub(slip)
	}

	qty := decimal.NewFromInt(o.Contracts)
	commission := e.model.CommissionPerContract.Mul(qty)

	outcome := Loss
	if n := len(e.model.Outcomes); n > 0 {
		outcome = e.model.Outcomes[e.rng.IntN(n)]
	}

	risk := fill.Sub(o.Stop).Abs().Mul(qty).Mul(o.PointValue)

	var profit decimal.Decimal
	if outcome == Win {
		rr := e.model.MinReward + e.rng.Float64()*(e.model.MaxReward-e.model.MinReward)
		profit = risk.Mul(decimal.NewFromFloat(rr))
	} else {
		profit = risk.Neg()
	}

	now := e.Now()
	t := Trade{
		ID:         id.NewAt(now),
		Time:       now,
		Symbol:     o.Symbol,
		Side:       o.Side,
		Contracts:  o.Contracts,
		FillPrice:  fill.Round(2),
		StopPrice:  o.Stop,
		Commission: commission,
		PnL:        profit.Sub(commission).Round(2),
		Outcome:    outcome,
		Reasoning:  o.Reasoning,
	}

	e.ledger.Apply(t)
	return t
}
