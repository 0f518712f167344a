package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ApprovalDecisions counts processed approval decisions by outcome.
	ApprovalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "expenseflow_approval_decisions_total",
		Help: "Number of approval decisions processed, by action and resulting status.",
	}, []string{"action", "status"})

	// ConversionFailures counts rate-provider failures that degraded to
	// unconverted amounts.
	ConversionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expenseflow_currency_conversion_failures_total",
		Help: "Number of currency conversions that fell back to the original amount.",
	})

	// RateProviderRequests counts outbound rate-provider requests by result.
	RateProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "expenseflow_rate_provider_requests_total",
		Help: "Number of exchange-rate provider requests, by result.",
	}, []string{"result"})

	// ExpensesReconciled counts expenses rewritten by the currency
	// reconciliation job.
	ExpensesReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expenseflow_expenses_reconciled_total",
		Help: "Number of expenses re-converted by the reconciliation job.",
	})
)
