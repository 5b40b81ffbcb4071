// Package entity defines the core domain entities and sentinel errors for the
// ingestion pipeline: articles, feed sources, and the error taxonomy shared by
// every layer.
package entity

import "time"

// Article is the persisted unit of ingestion. URL is the natural key; every
// other field is best-effort metadata merged from the feed entry and, when the
// page fetch succeeds, from the article page itself.
type Article struct {
	ID          int64
	URL         string
	Title       string
	PublishedAt *time.Time // nil when no confident date parse was possible
	Summary     string
	Author      string
	Section     string
	Body        string
	SourceKey   string // empty for manually enriched single links
	IsFavorite  bool
	CreatedAt   time.Time
}

// FeedSource describes one syndication feed in the source registry.
// It is an immutable value; the pipeline never persists it.
type FeedSource struct {
	Key        string `yaml:"key"`
	Name       string `yaml:"name"`
	FeedURL    string `yaml:"feed_url"`
	Locale     string `yaml:"locale"`
	WebsiteURL string `yaml:"website"`
	Region     string `yaml:"region"`
}
