// Package observability holds the Prometheus metrics exported on /metrics.
//
// Metrics are registered once at package init through promauto, the same way
// the rest of the codebase does it; callers only Inc/Set.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// LedgerAppends tracks appended transactions by kind (credit/debit).
var LedgerAppends = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "earnbox",
	Subsystem: "ledger",
	Name:      "appends_total",
	Help:      "Total transactions appended to the ledger by kind.",
}, []string{"kind"})

// LedgerPersistFailures tracks failed writes of the ledger snapshot.
var LedgerPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "earnbox",
	Subsystem: "ledger",
	Name:      "persist_failures_total",
	Help:      "Total failed ledger persistence writes (in-memory state kept).",
})

// LedgerLoadFailures tracks startup loads that fell back to an empty ledger.
var LedgerLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "earnbox",
	Subsystem: "ledger",
	Name:      "load_failures_total",
	Help:      "Total ledger loads that failed and defaulted to empty.",
})

// LedgerBalance tracks the current derived balance.
var LedgerBalance = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "earnbox",
	Subsystem: "ledger",
	Name:      "balance",
	Help:      "Current ledger balance (sum of all amounts).",
})

// LedgerEntries tracks the number of transactions in the ledger.
var LedgerEntries = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "earnbox",
	Subsystem: "ledger",
	Name:      "entries",
	Help:      "Number of transactions in the ledger.",
})

// ─── Reward Metrics ─────────────────────────────────────────────────────────

// RewardTransitions tracks slot state transitions by surface and target state.
var RewardTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "earnbox",
	Subsystem: "reward",
	Name:      "transitions_total",
	Help:      "Total reward slot transitions by surface and entered state.",
}, []string{"surface", "state"})

// RewardCreditsCancelled tracks scheduled credits dropped by surface teardown.
var RewardCreditsCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "earnbox",
	Subsystem: "reward",
	Name:      "credits_cancelled_total",
	Help:      "Total pending credits cancelled because the surface was torn down.",
}, []string{"surface"})

// ─── Withdrawal Metrics ─────────────────────────────────────────────────────

// Withdrawals tracks withdrawal submissions by result
// (ok, disabled, invalid_amount, exceeds_balance, ...).
var Withdrawals = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "earnbox",
	Subsystem: "withdraw",
	Name:      "submissions_total",
	Help:      "Total withdrawal submissions by result.",
}, []string{"result"})

// ─── Live Feed Metrics ──────────────────────────────────────────────────────

// LiveFeedClients tracks connected SSE clients.
var LiveFeedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "earnbox",
	Subsystem: "live",
	Name:      "clients",
	Help:      "Number of connected live earnings feed clients.",
})

// SetBalance records the balance gauge from a decimal amount.
func SetBalance(balance decimal.Decimal) {
	f, _ := balance.Float64()
	LedgerBalance.Set(f)
}
