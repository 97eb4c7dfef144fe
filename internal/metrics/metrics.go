// Package metrics exposes prometheus instrumentation for oracle calls and
// mask-resolution outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	oracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_oracle_requests_total",
			Help: "Total number of oracle requests",
		},
		[]string{"oracle", "status"},
	)

	oracleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stagehand_oracle_request_duration_seconds",
			Help:    "Oracle round-trip duration in seconds",
			Buckets: []float64{.25, 1, 2.5, 5, 10, 30, 60, 180, 300, 600},
		},
		[]string{"oracle"},
	)

	placementTierTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_placement_tier_total",
			Help: "Placement masks produced, by resolution tier and action",
		},
		[]string{"tier", "action"},
	)

	replacePhaseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stagehand_replace_phase_total",
			Help: "Replace orchestrator phase outcomes",
		},
		[]string{"phase", "status"},
	)
)

// RecordOracleRequest records one oracle round trip.
func RecordOracleRequest(oracle string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	oracleRequestsTotal.WithLabelValues(oracle, status).Inc()
	oracleRequestDuration.WithLabelValues(oracle).Observe(duration.Seconds())
}

// RecordPlacementTier records which tier produced a placement mask.
func RecordPlacementTier(tier, action string) {
	placementTierTotal.WithLabelValues(tier, action).Inc()
}

// RecordReplacePhase records a replace orchestrator phase outcome.
func RecordReplacePhase(phase string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	replacePhaseTotal.WithLabelValues(phase, status).Inc()
}
