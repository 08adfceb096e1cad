package risk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/sim"
	"github.com/shopspring/decimal"
)

const (
	ReasonOK        = "OK"
	ReasonDailyLoss = "Daily Loss Limit Hit"
	ReasonMaxTrades = "Max Trades Reached"

	StatusActive = "TRADING ACTIVE"
	StatusHalted = "TRADING HALTED"
)

// ErrInvalidPrice is returned when the reference or stop price is missing.
var ErrInvalidPrice = errors.New("invalid price")

// Decision is an eligibility verdict. A rejection is a normal result, not
// an error.
type Decision struct {
	Allowed bool
	Reason  string
}

// Snapshot is the account's scalar state at a point in time.
type Snapshot struct {
	Time        time.Time
	Balance     decimal.Decimal
	PnL         decimal.Decimal
	TradesToday int
	TradesCount int
}

// Recorder persists executed trades. It is called with the gate locked, so
// records arrive in execution order.
type Recorder interface {
	RecordTrade(t sim.Trade, acct Snapshot) error
	Reset() error
}

// TradeRequest asks the gate to size and execute a paper trade.
type TradeRequest struct {
	Symbol    string
	Side      sim.Side
	Price     decimal.Decimal
	Stop      decimal.Decimal
	Reasoning string
}

// Status is the dashboard view of the account.
type Status struct {
	Balance     float64     `json:"balance"`
	DailyPL     float64     `json:"daily_pl"`
	DailyLimit  float64     `json:"daily_limit"`
	TradesToday int         `json:"trades_today"`
	MaxTrades   int         `json:"max_trades"`
	Status      string      `json:"status"`
	WinRate     float64     `json:"win_rate"`
	TradesCount int         `json:"trades_count"`
	History     []sim.Trade `json:"history"`
}

// Gate owns the paper account and enforces the daily limits. Every method
// holds the same mutex, so the account is only ever touched by one caller
// at a time.
type Gate struct {
	mu          sync.Mutex
	policy      Policy
	exchange    *sim.Exchange
	ledger      *sim.Ledger
	tradesToday int
	recorder    Recorder
	log         zerolog.Logger
}

func NewGate(p Policy, x *sim.Exchange) *Gate {
	return &Gate{
		policy:   p,
		exchange: x,
		ledger:   x.Ledger(),
		log:      zerolog.Nop(),
	}
}

func (g *Gate) SetRecorder(r Recorder) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recorder = r
}

func (g *Gate) SetLogger(l zerolog.Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log = l
}

func (g *Gate) Policy() Policy { return g.policy }

// CanTrade evaluates the limits against the current ledger. Nothing is
// cached; the loss limit is checked before the trade count.
func (g *Gate) CanTrade() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canTradeLocked()
}

func (g *Gate) canTradeLocked() Decision {
	if g.ledger.PnL().LessThanOrEqual(g.policy.MaxDailyLoss.Neg()) {
		return Decision{Allowed: false, Reason: ReasonDailyLoss}
	}
	if g.tradesToday >= g.policy.MaxTradesDaily {
		return Decision{Allowed: false, Reason: ReasonMaxTrades}
	}
	return Decision{Allowed: true, Reason: ReasonOK}
}

// Size sizes a trade against the current balance without executing it.
func (g *Gate) Size(entry, stop decimal.Decimal, inst market.Instrument) Sizing {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Size(g.ledger.Balance(), g.policy, entry, stop, inst)
}

// ExecuteTrade sizes and executes req without checking eligibility; the
// caller is expected to have consulted CanTrade. Use TryExecute to do both
// atomically.
func (g *Gate) ExecuteTrade(req TradeRequest) (sim.Trade, Sizing, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.executeLocked(req)
}

// TryExecute checks eligibility and executes under one lock, so two callers
// cannot both pass the check when only one trade is left.
func (g *Gate) TryExecute(req TradeRequest) (sim.Trade, Sizing, Decision, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	d := g.canTradeLocked()
	if !d.Allowed {
		g.log.Info().
			Str("symbol", req.Symbol).
			Str("side", string(req.Side)).
			Str("reason", d.Reason).
			Msg("trade rejected")
		return sim.Trade{}, Sizing{}, d, nil
	}

	t, s, err := g.executeLocked(req)
	return t, s, d, err
}

func (g *Gate) executeLocked(req TradeRequest) (sim.Trade, Sizing, error) {
	inst, err := market.Lookup(req.Symbol)
	if err != nil {
		return sim.Trade{}, Sizing{}, err
	}
	if !req.Price.IsPositive() || !req.Stop.IsPositive() {
		return sim.Trade{}, Sizing{}, fmt.Errorf("%w: price %s stop %s", ErrInvalidPrice, req.Price, req.Stop)
	}
	if req.Side != sim.Buy && req.Side != sim.Sell {
		return sim.Trade{}, Sizing{}, fmt.Errorf("invalid side %q", req.Side)
	}

	balance := g.ledger.Balance()
	sizing := Size(balance, g.policy, req.Price, req.Stop, inst)

	t := g.exchange.Execute(sim.Order{
		Symbol:     sizing.Symbol,
		Side:       req.Side,
		Contracts:  sizing.Contracts,
		Price:      req.Price,
		Stop:       req.Stop,
		PointValue: inst.PointValue,
		Reasoning:  req.Reasoning,
	})
	g.tradesToday++

	g.log.Info().
		Str("trade_id", t.ID).
		Str("symbol", t.Symbol).
		Str("side", string(t.Side)).
		Int64("contracts", t.Contracts).
		Str("tier", string(sizing.Tier)).
		Str("fill", t.FillPrice.String()).
		Str("pnl", t.PnL.String()).
		Str("outcome", string(t.Outcome)).
		Str("risk_pct", RiskPct(sizing.PlannedRisk, balance).Mul(decimal.NewFromInt(100)).StringFixed(2)).
		Msg("paper trade filled")

	if g.recorder != nil {
		if err := g.recorder.RecordTrade(t, g.snapshotLocked(t.Time)); err != nil {
			g.log.Error().Err(err).Str("trade_id", t.ID).Msg("journal trade")
		}
	}

	return t, sizing, nil
}

// Status renders the account for display. The status label is derived
// from CanTrade on every call.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	stats := g.ledger.Stats()
	label := StatusActive
	if !g.canTradeLocked().Allowed {
		label = StatusHalted
	}

	history := stats.History
	if history == nil {
		history = []sim.Trade{}
	}

	return Status{
		Balance:     stats.Balance.InexactFloat64(),
		DailyPL:     stats.PnL.InexactFloat64(),
		DailyLimit:  g.policy.MaxDailyLoss.InexactFloat64(),
		TradesToday: g.tradesToday,
		MaxTrades:   g.policy.MaxTradesDaily,
		Status:      label,
		WinRate:     stats.WinRate,
		TradesCount: stats.TradesCount,
		History:     history,
	}
}

func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(time.Now())
}

func (g *Gate) snapshotLocked(at time.Time) Snapshot {
	return Snapshot{
		Time:        at,
		Balance:     g.ledger.Balance(),
		PnL:         g.ledger.PnL(),
		TradesToday: g.tradesToday,
		TradesCount: g.ledger.Len(),
	}
}

// ResetAccount restores the opening balance and clears the history and the
// daily trade count in one step.
func (g *Gate) ResetAccount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ledger.Reset()
	g.tradesToday = 0

	if g.recorder != nil {
		if err := g.recorder.Reset(); err != nil {
			g.log.Error().Err(err).Msg("journal reset")
		}
	}
	g.log.Info().Msg("account reset")
}

// Restore loads previously journaled state without re-recording it.
func (g *Gate) Restore(trades []sim.Trade, tradesToday int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ledger.Restore(trades)
	g.tradesToday = tradesToday
}
