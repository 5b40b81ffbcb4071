// Package feed provides the RSS/Atom feed fetcher implementation.
// It uses the gofeed library to parse feed content with reliability patterns.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"prensa-feed/internal/resilience/circuitbreaker"
	"prensa-feed/internal/resilience/retry"
	"prensa-feed/internal/usecase/ingest"
)

const defaultTimeout = 20 * time.Second

// RSSFetcher implements ingest.FeedFetcher using the gofeed library.
// It includes circuit breaker and retry logic for improved reliability.
type RSSFetcher struct {
	client         *http.Client
	userAgent      string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSSFetcher creates a new RSSFetcher. A nil client gets a default one
// with a 20 second timeout.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &RSSFetcher{
		client:         client,
		userAgent:      "Mozilla/5.0",
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch retrieves and parses an RSS/Atom feed from the given URL. Entries
// come back in feed order with the publication date kept as the raw feed
// string, so locale-aware parsing stays a pipeline concern.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]ingest.Entry, error) {
	var entries []ingest.Entry

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", "feed-fetch"),
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
				return err
			}
			return err
		}

		entries = cbResult.([]ingest.Entry)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return entries, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]ingest.Entry, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = f.client

	parsed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ingest.Entry, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		entries = append(entries, ingest.Entry{
			URL:       strings.TrimSpace(it.Link),
			Title:     strings.TrimSpace(it.Title),
			Published: strings.TrimSpace(it.Published),
			Summary:   stripHTML(it.Description),
			Author:    itemAuthor(it),
			Section:   itemSection(it),
		})
	}

	return entries, nil
}

// stripHTML flattens feed descriptions, which frequently arrive as HTML
// fragments, into plain collapsed-whitespace text.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func itemAuthor(it *gofeed.Item) string {
	if it.Author != nil && it.Author.Name != "" {
		return strings.TrimSpace(it.Author.Name)
	}
	for _, a := range it.Authors {
		if a != nil && a.Name != "" {
			return strings.TrimSpace(a.Name)
		}
	}
	return ""
}

func itemSection(it *gofeed.Item) string {
	if len(it.Categories) > 0 {
		return strings.TrimSpace(it.Categories[0])
	}
	return ""
}
