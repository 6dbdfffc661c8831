// Package metrics exposes Prometheus counters for ledger activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesCreated counts expenses accepted into the ledger.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitit_expenses_created_total",
		Help: "Number of expenses added to the ledger.",
	})

	// PaymentsCreated counts settlement payments recorded.
	PaymentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitit_payments_created_total",
		Help: "Number of direct payments recorded.",
	})

	// BalanceQueries counts balance computations, labeled by scope.
	BalanceQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitit_balance_queries_total",
		Help: "Number of balance computations served.",
	}, []string{"scope"})

	// RejectedSubmissions counts expense or payment submissions that
	// failed validation and never reached the ledger.
	RejectedSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitit_rejected_submissions_total",
		Help: "Number of ledger submissions rejected at validation.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
