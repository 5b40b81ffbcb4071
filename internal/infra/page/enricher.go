// Package page fetches article pages and extracts metadata the feed entry
// did not carry: publication date, author, section, summary, and body text.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"prensa-feed/internal/observability/metrics"
	"prensa-feed/internal/resilience/circuitbreaker"
	"prensa-feed/internal/resilience/retry"
	"prensa-feed/internal/usecase/ingest"
)

// minParagraphRunes is the threshold below which a paragraph is treated as
// navigation or boilerplate rather than article text.
const minParagraphRunes = 30

// summaryParagraphs caps the paragraph-based summary fallback.
const summaryParagraphs = 4

// Enricher implements ingest.PageEnricher with goquery-based extraction and
// a readability fallback for pages whose paragraphs never clear the
// boilerplate threshold.
type Enricher struct {
	client         *http.Client
	config         Config
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewEnricher creates an Enricher with the given configuration.
func NewEnricher(cfg Config) *Enricher {
	limit := rate.Inf
	if cfg.FetchDelay > 0 {
		limit = rate.Every(cfg.FetchDelay)
	}
	return &Enricher{
		client:         &http.Client{Timeout: cfg.Timeout},
		config:         cfg,
		limiter:        rate.NewLimiter(limit, 1),
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		retryConfig:    retry.PageFetchConfig(),
	}
}

// Enrich fetches the page at pageURL and extracts its metadata. Transport
// failures and non-2xx responses return an error; fields the page simply
// does not carry degrade to empty strings.
func (e *Enricher) Enrich(ctx context.Context, pageURL string, bodyParagraphs int) (*ingest.PageData, error) {
	start := time.Now()

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("Enrich: wait for rate limit: %w", err)
	}

	var raw []byte
	retryErr := retry.WithBackoff(ctx, e.retryConfig, func() error {
		cbResult, err := e.circuitBreaker.Execute(func() (interface{}, error) {
			return e.doFetch(ctx, pageURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("page fetch circuit breaker open, request rejected",
					slog.String("service", "page-fetch"),
					slog.String("url", pageURL),
					slog.String("state", e.circuitBreaker.State().String()))
			}
			return err
		}
		raw = cbResult.([]byte)
		return nil
	})
	if retryErr != nil {
		metrics.RecordPageFetch(false, time.Since(start))
		return nil, retryErr
	}

	data, err := e.extract(raw, pageURL, bodyParagraphs)
	if err != nil {
		metrics.RecordPageFetch(false, time.Since(start))
		return nil, err
	}

	metrics.RecordPageFetch(true, time.Since(start))
	return data, nil
}

// doFetch performs one HTTP request without retry or circuit breaker.
func (e *Enricher) doFetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: pageURL}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, e.config.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return raw, nil
}

// extract pulls the metadata fields out of the fetched HTML.
func (e *Enricher) extract(raw []byte, pageURL string, bodyParagraphs int) (*ingest.PageData, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	paragraphs := collectParagraphs(doc)

	data := &ingest.PageData{
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Date:    metaContent(doc, "article:published_time", "date", "og:updated_time"),
		Author:  metaContent(doc, "author", "article:author", "twitter:creator"),
		Section: metaContent(doc, "article:section", "section", "og:section"),
		Summary: metaContent(doc, "description", "og:description"),
		Body:    joinParagraphs(paragraphs, bodyParagraphs),
	}

	if data.Summary == "" {
		data.Summary = joinParagraphs(paragraphs, summaryParagraphs)
	}

	// Heavily scripted pages often render no <p> content server-side;
	// readability still recovers text from those.
	if data.Body == "" {
		data.Body = readabilityText(raw, pageURL)
	}

	return data, nil
}

// metaContent returns the first non-empty content attribute among the given
// meta keys, matching both the property and name attributes.
func metaContent(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// collectParagraphs returns the page's <p> texts that clear the boilerplate
// threshold, in document order.
func collectParagraphs(doc *goquery.Document) []string {
	var out []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len([]rune(text)) > minParagraphRunes {
			out = append(out, text)
		}
	})
	return out
}

func joinParagraphs(paragraphs []string, limit int) string {
	if limit > 0 && len(paragraphs) > limit {
		paragraphs = paragraphs[:limit]
	}
	return strings.Join(paragraphs, "\n\n")
}

func readabilityText(raw []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(raw), parsed)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
