package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
)

// Metrics exposes the paper account to Prometheus:
//
//	papertrade_trades_total{side,outcome}  executed paper trades
//	papertrade_rejections_total{reason}    refused execute requests
//	papertrade_balance_usd                 account balance
//	papertrade_daily_pnl_usd               cumulative P&L since reset
//	papertrade_trades_today                trades counted against the daily limit
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	trades      *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	balance     prometheus.Gauge
	dailyPnL    prometheus.Gauge
	tradesToday prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "papertrade_trades_total",
				Help: "Paper trades executed",
			},
			[]string{"side", "outcome"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "papertrade_rejections_total",
				Help: "Execute requests refused, by reason",
			},
			[]string{"reason"},
		),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_balance_usd",
			Help: "Paper account balance in USD",
		}),
		dailyPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_daily_pnl_usd",
			Help: "Cumulative realized P&L since the last reset",
		}),
		tradesToday: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_trades_today",
			Help: "Trades counted against the daily limit",
		}),
	}

	m.Registry.MustRegister(m.trades, m.rejections, m.balance, m.dailyPnL, m.tradesToday)
	return m
}

func (m *Metrics) observeTrade(t sim.Trade) {
	if m == nil {
		return
	}
	m.trades.WithLabelValues(string(t.Side), string(t.Outcome)).Inc()
}

func (m *Metrics) observeRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeAccount(st risk.Status) {
	if m == nil {
		return
	}
	m.balance.Set(st.Balance)
	m.dailyPnL.Set(st.DailyPL)
	m.tradesToday.Set(float64(st.TradesToday))
}
