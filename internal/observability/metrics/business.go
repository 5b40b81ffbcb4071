package metrics

import "time"

// RecordArticleIngested records one newly inserted article for a source.
func RecordArticleIngested(sourceKey string) {
	ArticlesIngestedTotal.WithLabelValues(sourceKey).Inc()
}

// RecordEntrySkipped records a feed entry rejected before insertion.
// Reason is one of "duplicate", "recency", "topic".
func RecordEntrySkipped(sourceKey, reason string) {
	ArticlesSkippedTotal.WithLabelValues(sourceKey, reason).Inc()
}

// RecordIngestError records a recoverable error during ingestion.
// Stage identifies where it happened: "feed_fetch", "dedup_check", "insert".
func RecordIngestError(sourceKey, stage string) {
	IngestErrorsTotal.WithLabelValues(sourceKey, stage).Inc()
}

// RecordSourceIngest records the duration of one source's ingestion run.
func RecordSourceIngest(sourceKey string, duration time.Duration) {
	SourceIngestDuration.WithLabelValues(sourceKey).Observe(duration.Seconds())
}

// RecordPageFetch records a page fetch attempt and its duration.
func RecordPageFetch(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	PageFetchAttemptsTotal.WithLabelValues(status).Inc()
	PageFetchDuration.Observe(duration.Seconds())
}

// UpdateArticlesStored updates the stored-article gauge for a source.
func UpdateArticlesStored(sourceKey string, count int64) {
	ArticlesStoredTotal.WithLabelValues(sourceKey).Set(float64(count))
}
