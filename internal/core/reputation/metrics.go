package reputation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// votesTotal counts committed votes by target kind and action
	votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cignito_votes_total",
		Help: "Committed votes by target kind and action",
	}, []string{"kind", "action"})

	// acceptancesTotal counts committed acceptances by whether a bonus was paid
	acceptancesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cignito_acceptances_total",
		Help: "Committed solution acceptances",
	}, []string{"bonus"})

	// ledgerFailures counts rejected or failed ledger operations
	ledgerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cignito_ledger_failures_total",
		Help: "Ledger operations that returned an error, by operation and reason",
	}, []string{"operation", "reason"})

	// ledgerDuration tracks unit-of-work latency
	ledgerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cignito_ledger_tx_duration_seconds",
		Help:    "Ledger transaction duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"operation"})
)
