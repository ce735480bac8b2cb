// Package metrics exposes the bot's Prometheus collectors:
//
//	tradewatch_decisions_total{signal}      signal evaluations by outcome
//	tradewatch_trades_total{state}          settled/aborted trades by monitor end state
//	tradewatch_balance                      last persisted balance
//	tradewatch_loss_streak                  consecutive losing trades
//	tradewatch_price_fetch_failures_total   monitor price-poll failures
//	tradewatch_gate_denials_total           entries blocked by the risk gate
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewatch_decisions_total",
			Help: "Signal evaluations by outcome",
		},
		[]string{"signal"},
	)

	Trades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewatch_trades_total",
			Help: "Trades by monitor end state",
		},
		[]string{"state"},
	)

	Balance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradewatch_balance",
			Help: "Last persisted account balance",
		},
	)

	LossStreak = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradewatch_loss_streak",
			Help: "Consecutive non-profitable settled trades",
		},
	)

	PriceFetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradewatch_price_fetch_failures_total",
			Help: "Monitor price poll failures",
		},
	)

	GateDenials = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tradewatch_gate_denials_total",
			Help: "Entries blocked by the risk gate",
		},
	)
)

func init() {
	prometheus.MustRegister(Decisions, Trades, Balance, LossStreak, PriceFetchFailures, GateDenials)
}

// Handler serves the registered collectors in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
