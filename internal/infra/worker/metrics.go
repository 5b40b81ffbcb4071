package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"prensa-feed/internal/pkg/config"
)

// WorkerMetrics exposes Prometheus metrics for the scheduled ingest worker:
// configuration loading health plus per-run execution tracking. Metrics
// auto-register via promauto, so create one instance per process.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts ingest runs by outcome (success, failure).
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds measures full batch run duration.
	CronJobDurationSeconds prometheus.Histogram

	// CronJobSourcesProcessedTotal counts sources processed across runs.
	CronJobSourcesProcessedTotal prometheus.Counter

	// CronJobArticlesInsertedTotal counts articles inserted across runs.
	CronJobArticlesInsertedTotal prometheus.Counter

	// CronJobLastSuccessTimestamp is the Unix time of the last clean run.
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metric set.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of scheduled ingest runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of scheduled ingest runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		CronJobSourcesProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_sources_processed_total",
			Help: "Total number of sources processed across all runs",
		}),

		CronJobArticlesInsertedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_articles_inserted_total",
			Help: "Total number of articles inserted across all runs",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last fully successful ingest run",
		}),
	}
}

// RecordJobRun increments the run counter. Status is "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordSourcesProcessed adds the sources handled in one run.
func (m *WorkerMetrics) RecordSourcesProcessed(count int) {
	m.CronJobSourcesProcessedTotal.Add(float64(count))
}

// RecordArticlesInserted adds the articles committed in one run.
func (m *WorkerMetrics) RecordArticlesInserted(count int) {
	m.CronJobArticlesInsertedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the current time as the last clean run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
