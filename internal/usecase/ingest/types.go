// Package ingest implements the ingestion pipeline use case: it pulls entries
// from a feed, filters them through the dedup, recency, and topic gates,
// enriches survivors from the article page, and persists each one with an
// individual commit so a poisoned entry never blocks the rest of the batch.
package ingest

import "context"

// Entry is one item as listed by a syndication feed, before enrichment.
// Published carries the raw date string exactly as the feed supplied it;
// normalization happens in the pipeline with the source locale.
type Entry struct {
	URL       string
	Title     string
	Published string
	Summary   string
	Author    string
	Section   string
}

// FeedFetcher retrieves and parses one feed's entries in feed order.
// A malformed or unreachable feed returns an error, which the pipeline
// absorbs into an empty run.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Entry, error)
}

// PageData holds the metadata extracted from an article page. Every field is
// optional; Date is the raw string from the page, not a normalized timestamp,
// so the pipeline can prefer feed-supplied dates over page-supplied ones.
type PageData struct {
	Title   string
	Date    string
	Summary string
	Author  string
	Section string
	Body    string
}

// PageEnricher fetches an article URL and extracts as much structured
// metadata as possible. bodyParagraphs caps how many qualifying paragraphs
// make up the body. Transport failures return an error the caller treats as
// "enrichment skipped", never as fatal.
type PageEnricher interface {
	Enrich(ctx context.Context, url string, bodyParagraphs int) (*PageData, error)
}

// Options controls one ingestion run.
type Options struct {
	// Limit caps how many feed entries are considered, in feed order.
	// Zero means no cap.
	Limit int

	// RecencyDays excludes entries whose normalized date is older than
	// now minus this many days. Zero disables the filter. Entries whose
	// date failed to parse are never filtered by recency.
	RecencyDays int

	// Topic selects a keyword set for coarse subject filtering. Empty or
	// "all" matches everything.
	Topic string
}

// BatchResult aggregates the outcome of a batch run across sources.
type BatchResult struct {
	InsertedTotal int
	SourcesOK     int
	SourcesTotal  int
	Errors        []string
}
