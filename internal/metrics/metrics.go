// Package metrics exposes prometheus collectors for the sync pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinepoint"

var (
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_fetched_total",
		Help:      "Non-empty list pages fetched, by record kind.",
	}, []string{"kind"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Page fetches that ended a unit early, by record kind.",
	}, []string{"kind"})

	RecordsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_written_total",
		Help:      "Records handed to the store, by record kind.",
	}, []string{"kind"})

	ItemsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_skipped_total",
		Help:      "Items skipped as already known, by record kind.",
	}, []string{"kind"})

	ItemsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_failed_total",
		Help:      "Items dropped by a transform or detail fetch error, by record kind.",
	}, []string{"kind"})

	PhaseOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "phase_outcomes_total",
		Help:      "Orchestrator phase outcomes.",
	}, []string{"sync_type", "phase", "outcome"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of sync runs.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600, 7200},
	}, []string{"sync_type"})
)
