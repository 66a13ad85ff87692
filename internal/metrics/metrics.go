package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch Metrics
var (
	// FetchOutcomesTotal tracks fetch results by period and outcome kind (live, transport, application, malformed)
	FetchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_fetch_outcomes_total",
			Help: "Sentiment fetch outcomes by period and kind",
		},
		[]string{"period", "kind"},
	)

	// FetchDuration tracks remote query latency in seconds
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_fetch_duration_seconds",
			Help:    "Remote sentiment query duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"period"},
	)

	// CircuitBreakerState tracks the upstream breaker (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentiment_upstream_circuit_breaker_state",
			Help: "Upstream circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Store Metrics
var (
	// StaleResponsesTotal counts responses dropped because a newer request for the period was issued
	StaleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_stale_responses_total",
			Help: "Responses discarded because a newer request superseded them",
		},
		[]string{"period"},
	)

	// RefreshRejectedTotal counts manual refreshes rejected by the rate limiter
	RefreshRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_refresh_rejected_total",
			Help: "Manual refresh requests rejected by the rate limiter",
		},
	)
)
