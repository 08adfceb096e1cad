package engine

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
)

var testNow = time.Date(2024, 3, 15, 14, 15, 0, 0, time.UTC)

// fixedModel always produces outcome with no slippage and a 2R win.
func fixedModel(outcome sim.Outcome) sim.Model {
	m := sim.DefaultModel()
	m.Slippage = []decimal.Decimal{decimal.Zero}
	m.Outcomes = []sim.Outcome{outcome}
	m.MinReward, m.MaxReward = 2, 2
	return m
}

type fixture struct {
	svc     *Service
	store   *market.CandleStore
	metrics *Metrics
}

func newFixture(t *testing.T, m sim.Model, j journal.Journal) fixture {
	t.Helper()

	store := market.NewCandleStore()
	store.SetPrice("NQ=F", 20000, testNow)

	l := sim.NewLedger(decimal.NewFromInt(sim.DefaultStartingBalance))
	x := sim.NewExchange(l, m, sim.NewRand(1))
	x.Now = func() time.Time { return testNow }
	g := risk.NewGate(risk.DefaultPolicy(), x)

	a := market.NewAnalyzer(store)
	a.Now = func() time.Time { return testNow }

	metrics := NewMetrics()
	svc := New(g, a, Options{Journal: j, Metrics: metrics, Logger: zerolog.Nop()})

	return fixture{svc: svc, store: store, metrics: metrics}
}

func newJournal(t *testing.T, path string) *journal.SQLite {
	t.Helper()
	j, err := journal.NewSQLite(path)
	require.NoError(t, err)
	return j
}

func metricValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	mfs, err := m.Registry.Gather()
	require.NoError(t, err)

	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			if c := metric.GetCounter(); c != nil {
				return c.GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestExecuteFilled(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixedModel(sim.Win), nil)

	res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY", User: "alice"})
	require.NoError(t, err)

	assert.Equal(t, StatusFilled, res.Status)
	assert.Equal(t, "BUY 1 STANDARD @ 20000.00", res.Details)
	assert.Equal(t, "WIN", res.Result)
	assert.Empty(t, res.Reason)

	st := f.svc.AccountStatus()
	assert.Equal(t, 100798.0, st.Balance)
	assert.Equal(t, 1, st.TradesToday)
	require.Len(t, st.History, 1)
	assert.Equal(t, DefaultReasoning, st.History[0].Reasoning)
	assert.Equal(t, "NQ", st.History[0].Symbol)
}

func TestExecuteSellUsesStopAbovePrice(t *testing.T) {
	t.Parallel()

	j := newJournal(t, filepath.Join(t.TempDir(), "j.db"))
	f := newFixture(t, fixedModel(sim.Loss), j)
	t.Cleanup(func() { _ = f.svc.Close() })

	res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Action: "sell", Reasoning: "fade"})
	require.NoError(t, err)
	assert.Equal(t, "SELL 1 STANDARD @ 20000.00", res.Details)
	assert.Equal(t, "LOSS", res.Result)

	trades, err := j.ListTrades()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, decimal.NewFromInt(20020).Equal(trades[0].StopPrice))
	assert.True(t, decimal.NewFromInt(-402).Equal(trades[0].RealizedPL))
	assert.Equal(t, "fade", trades[0].Reasoning)

	acct, ok, err := j.LatestAccount()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(99598).Equal(acct.Balance))
	assert.Equal(t, 1, acct.TradesToday)
}

func TestExecuteDataOffline(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixedModel(sim.Win), nil)
	f.store.Set("NQ=F", nil)

	res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
	require.NoError(t, err)
	assert.Equal(t, ExecuteResult{Status: StatusError, Reason: ReasonDataOffline}, res)

	st := f.svc.AccountStatus()
	assert.Equal(t, 0, st.TradesToday)
	assert.Equal(t, 100000.0, st.Balance)
	assert.Equal(t, 1.0, metricValue(t, f.metrics, "papertrade_rejections_total", map[string]string{"reason": ReasonDataOffline}))
}

func TestExecuteUnusablePrice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixedModel(sim.Win), nil)
	// A BUY stop 20 points below a price of 10 is negative.
	f.store.SetPrice("NQ=F", 10, testNow)

	res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 0, f.svc.AccountStatus().TradesToday)
}

func TestExecuteInvalidRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  ExecuteRequest
	}{
		{"missing symbol", ExecuteRequest{Side: "BUY"}},
		{"missing side", ExecuteRequest{Symbol: "NQ=F"}},
		{"bad side", ExecuteRequest{Symbol: "NQ=F", Side: "HOLD"}},
		{"unknown symbol", ExecuteRequest{Symbol: "CL=F", Side: "BUY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, fixedModel(sim.Win), nil)
			_, err := f.svc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Equal(t, 0, f.svc.AccountStatus().TradesToday)
		})
	}
}

func TestExecuteRejectedAfterLimits(t *testing.T) {
	t.Parallel()

	t.Run("max trades", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, fixedModel(sim.Win), nil)
		for range 5 {
			res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
			require.NoError(t, err)
			require.Equal(t, StatusFilled, res.Status)
		}

		res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
		require.NoError(t, err)
		assert.Equal(t, ExecuteResult{Status: StatusRejected, Reason: risk.ReasonMaxTrades}, res)
		assert.Equal(t, risk.StatusHalted, f.svc.AccountStatus().Status)
	})

	t.Run("daily loss", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, fixedModel(sim.Loss), nil)
		for range 3 {
			_, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
			require.NoError(t, err)
		}

		res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, res.Status)
		assert.Equal(t, risk.ReasonDailyLoss, res.Reason)
		assert.Equal(t, -1206.0, f.svc.AccountStatus().DailyPL)
	})
}

func TestExecuteConcurrentRequestsRespectMaxTrades(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixedModel(sim.Win), nil)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		filled int
	)
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
			if err == nil && res.Status == StatusFilled {
				mu.Lock()
				filled++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, filled)
	assert.Equal(t, 5, f.svc.AccountStatus().TradesCount)
}

func TestResetClearsAccountAndJournal(t *testing.T) {
	t.Parallel()

	j := newJournal(t, filepath.Join(t.TempDir(), "j.db"))
	f := newFixture(t, fixedModel(sim.Win), j)
	t.Cleanup(func() { _ = f.svc.Close() })

	_, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
	require.NoError(t, err)

	assert.Equal(t, ResetResult{Status: StatusReset}, f.svc.Reset())

	st := f.svc.AccountStatus()
	assert.Equal(t, 100000.0, st.Balance)
	assert.Equal(t, 0.0, st.DailyPL)
	assert.Equal(t, 0, st.TradesToday)
	assert.Empty(t, st.History)

	trades, err := j.ListTrades()
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, 100000.0, metricValue(t, f.metrics, "papertrade_balance_usd", nil))
}

func TestRestoreFromJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "j.db")

	first := newFixture(t, fixedModel(sim.Win), newJournal(t, path))
	for range 2 {
		_, err := first.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
		require.NoError(t, err)
	}
	require.NoError(t, first.svc.Close())

	j := newJournal(t, path)
	second := newFixture(t, fixedModel(sim.Win), j)
	t.Cleanup(func() { _ = second.svc.Close() })

	ok, err := second.svc.Restore(j)
	require.NoError(t, err)
	require.True(t, ok)

	st := second.svc.AccountStatus()
	assert.Equal(t, 2, st.TradesCount)
	assert.Equal(t, 2, st.TradesToday)
	assert.Equal(t, 101596.0, st.Balance)
	assert.Equal(t, 100.0, st.WinRate)
}

func TestRestoreEmptyJournal(t *testing.T) {
	t.Parallel()

	j := newJournal(t, filepath.Join(t.TempDir(), "j.db"))
	f := newFixture(t, fixedModel(sim.Win), j)
	t.Cleanup(func() { _ = f.svc.Close() })

	ok, err := f.svc.Restore(j)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, f.svc.AccountStatus().TradesCount)
}

func TestMetricsTrackTrades(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixedModel(sim.Win), nil)
	for range 2 {
		_, err := f.svc.Execute(context.Background(), ExecuteRequest{Symbol: "NQ=F", Side: "BUY"})
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, metricValue(t, f.metrics, "papertrade_trades_total", map[string]string{"side": "BUY", "outcome": "WIN"}))
	assert.Equal(t, 2.0, metricValue(t, f.metrics, "papertrade_trades_today", nil))
	assert.Equal(t, 1596.0, metricValue(t, f.metrics, "papertrade_daily_pnl_usd", nil))
}

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeTrade(sim.Trade{})
		m.observeRejection("x")
		m.observeAccount(risk.Status{})
	})
}

func TestAnalysisOffline(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fixedModel(sim.Win), nil)

	a := f.svc.Analysis(context.Background(), "ES=F")
	assert.Equal(t, market.Offline("ES=F"), a)

	a = f.svc.Analysis(context.Background(), "NQ=F")
	assert.Equal(t, 20000.0, a.Price)
}
