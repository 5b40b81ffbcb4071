// Package metrics provides centralized Prometheus metrics for the ingestion
// pipeline. All metrics are registered via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics track per-source pipeline outcomes.
var (
	// ArticlesIngestedTotal counts newly inserted articles per source.
	ArticlesIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_ingested_total",
			Help: "Total number of newly inserted articles by source",
		},
		[]string{"source"},
	)

	// ArticlesSkippedTotal counts entries skipped before insertion,
	// broken down by the gate that rejected them.
	ArticlesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_skipped_total",
			Help: "Total number of feed entries skipped by source and reason (duplicate, recency, topic)",
		},
		[]string{"source", "reason"},
	)

	// IngestErrorsTotal counts recoverable ingestion errors by source and stage.
	IngestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total number of recoverable ingestion errors by source and stage",
		},
		[]string{"source", "stage"},
	)

	// SourceIngestDuration measures the duration of one source's ingestion run.
	SourceIngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_ingest_duration_seconds",
			Help:    "Duration of a single-source ingestion run in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 180, 600},
		},
		[]string{"source"},
	)
)

// Page enrichment metrics track article page fetches.
var (
	// PageFetchAttemptsTotal counts page fetch attempts by outcome.
	PageFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_fetch_attempts_total",
			Help: "Total number of article page fetch attempts by status (success, failure)",
		},
		[]string{"status"},
	)

	// PageFetchDuration measures page fetch plus extraction duration.
	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "page_fetch_duration_seconds",
			Help:    "Duration of article page fetch and extraction in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Storage metrics reflect database state; updated periodically, not per write.
var (
	// ArticlesStoredTotal tracks the number of articles per source in storage.
	ArticlesStoredTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "articles_stored_total",
			Help: "Number of stored articles by source",
		},
		[]string{"source"},
	)
)
