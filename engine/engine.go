// Package engine is the request boundary of the paper trading account: it
// validates requests, fetches the reference price, and hands the trade to
// the risk gate.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
)

// DefaultStopPoints is the distance of the derived stop from the reference
// price.
const DefaultStopPoints = 20

type Options struct {
	StopPoints decimal.Decimal
	Journal    journal.Journal
	Metrics    *Metrics
	Logger     zerolog.Logger
}

type Service struct {
	gate       *risk.Gate
	analyzer   *market.Analyzer
	journal    journal.Journal
	metrics    *Metrics
	stopPoints decimal.Decimal
	validate   *validator.Validate
	log        zerolog.Logger
}

func New(g *risk.Gate, a *market.Analyzer, opts Options) *Service {
	stop := opts.StopPoints
	if !stop.IsPositive() {
		stop = decimal.NewFromInt(DefaultStopPoints)
	}

	s := &Service{
		gate:       g,
		analyzer:   a,
		journal:    opts.Journal,
		metrics:    opts.Metrics,
		stopPoints: stop,
		validate:   validator.New(),
		log:        opts.Logger,
	}

	if opts.Journal != nil {
		g.SetRecorder(journalRecorder{j: opts.Journal})
	}
	g.SetLogger(opts.Logger)
	s.metrics.observeAccount(g.Status())

	return s
}

func (s *Service) Gate() *risk.Gate { return s.gate }

// Restore rebuilds the account from a journal that can be read back. It
// reports whether any state was found.
func (s *Service) Restore(l journal.Loader) (bool, error) {
	state, ok, err := l.LoadState()
	if err != nil {
		return false, fmt.Errorf("load journal: %w", err)
	}
	if !ok {
		return false, nil
	}

	trades := make([]sim.Trade, 0, len(state.Trades))
	for _, rec := range state.Trades {
		t, err := fromRecord(rec)
		if err != nil {
			return false, err
		}
		trades = append(trades, t)
	}

	s.gate.Restore(trades, state.Account.TradesToday)
	st := s.gate.Status()
	s.metrics.observeAccount(st)

	if !decimal.NewFromFloat(st.Balance).Equal(state.Account.Balance.Round(2)) {
		s.log.Warn().
			Float64("balance", st.Balance).
			Str("journal_balance", state.Account.Balance.String()).
			Msg("restored balance differs from journal")
	}

	s.log.Info().
		Int("trades", len(trades)).
		Int("trades_today", state.Account.TradesToday).
		Float64("balance", st.Balance).
		Msg("account restored from journal")
	return true, nil
}

// Analysis returns the current read on symbol. When no data is available
// the offline payload is returned, not an error.
func (s *Service) Analysis(ctx context.Context, symbol string) market.Analysis {
	a, err := s.analyzer.Analyze(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("analysis unavailable")
	}
	return a
}

// Execute runs one paper trade request. Rejections and missing market data
// are reported in the result; only invalid requests and internal failures
// return an error.
func (s *Service) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error) {
	req.normalize()
	if err := validateRequest(s.validate, req); err != nil {
		return ExecuteResult{}, err
	}
	if _, err := market.Lookup(req.Symbol); err != nil {
		return ExecuteResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	side := sim.Side(req.Side)

	log := s.log.With().Str("symbol", req.Symbol).Str("side", req.Side).Str("user", req.User).Logger()

	price, err := s.analyzer.LastPrice(ctx, req.Symbol)
	if err != nil {
		if errors.Is(err, market.ErrDataUnavailable) {
			log.Warn().Err(err).Msg("no reference price")
			s.metrics.observeRejection(ReasonDataOffline)
			return ExecuteResult{Status: StatusError, Reason: ReasonDataOffline}, nil
		}
		return ExecuteResult{}, err
	}

	ref := decimal.NewFromFloat(price)
	stop := ref.Sub(s.stopPoints)
	if side == sim.Sell {
		stop = ref.Add(s.stopPoints)
	}

	t, sizing, d, err := s.gate.TryExecute(risk.TradeRequest{
		Symbol:    req.Symbol,
		Side:      side,
		Price:     ref,
		Stop:      stop,
		Reasoning: req.Reasoning,
	})
	if err != nil {
		if errors.Is(err, risk.ErrInvalidPrice) {
			log.Warn().Err(err).Msg("unusable reference price")
			s.metrics.observeRejection(ReasonDataOffline)
			return ExecuteResult{Status: StatusError, Reason: ReasonDataOffline}, nil
		}
		return ExecuteResult{}, err
	}

	if !d.Allowed {
		s.metrics.observeRejection(d.Reason)
		return ExecuteResult{Status: StatusRejected, Reason: d.Reason}, nil
	}

	s.metrics.observeTrade(t)
	s.metrics.observeAccount(s.gate.Status())

	return ExecuteResult{
		Status:  StatusFilled,
		Details: fmt.Sprintf("%s %d %s @ %s", t.Side, t.Contracts, sizing.Tier, t.FillPrice.StringFixed(2)),
		Result:  string(t.Outcome),
	}, nil
}

// AccountStatus returns the gate's status view.
func (s *Service) AccountStatus() risk.Status {
	st := s.gate.Status()
	s.metrics.observeAccount(st)
	return st
}

// Reset restores the opening balance and clears the journal.
func (s *Service) Reset() ResetResult {
	s.gate.ResetAccount()
	s.metrics.observeAccount(s.gate.Status())
	return ResetResult{Status: StatusReset}
}

// Close releases the journal, if any.
func (s *Service) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}
