package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"prensa-feed/internal/classify"
	"prensa-feed/internal/domain/entity"
	"prensa-feed/internal/normalize"
	"prensa-feed/internal/observability/metrics"
	"prensa-feed/internal/registry"
	"prensa-feed/internal/repository"
)

const (
	// feedBodyParagraphs caps the body extraction for feed-driven entries;
	// manualBodyParagraphs for operator-supplied single URLs.
	feedBodyParagraphs   = 10
	manualBodyParagraphs = 12

	// batchParallelism bounds how many sources a batch run processes at
	// once. Each source is a distinct origin and entries within a source
	// stay sequential, so per-origin request concurrency never exceeds one.
	batchParallelism = 3
)

// Service orchestrates feed fetching, filtering, page enrichment, and
// persistence. Construct with NewService; the registry is an explicit
// dependency so tests can inject fake sources.
type Service struct {
	registry *registry.Registry
	articles repository.ArticleRepository
	feeds    FeedFetcher
	pages    PageEnricher
	now      func() time.Time
}

// NewService creates an ingestion Service with the provided dependencies.
func NewService(
	reg *registry.Registry,
	articles repository.ArticleRepository,
	feeds FeedFetcher,
	pages PageEnricher,
) *Service {
	return &Service{
		registry: reg,
		articles: articles,
		feeds:    feeds,
		pages:    pages,
		now:      time.Now,
	}
}

// Run ingests one source and returns the number of newly inserted articles.
// It fails only for an unknown source key or a cancelled context; every
// per-entry failure is absorbed and reflected in the returned count.
func (s *Service) Run(ctx context.Context, sourceKey string, opts Options) (int, error) {
	logger := slog.Default()
	start := s.now()

	src, err := s.registry.Lookup(sourceKey)
	if err != nil {
		return 0, err
	}

	entries, err := s.feeds.Fetch(ctx, src.FeedURL)
	if err != nil {
		// A broken feed yields zero entries, not a failed run.
		logger.Warn("failed to fetch feed",
			slog.String("source", src.Key),
			slog.String("feed_url", src.FeedURL),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Key, "feed_fetch")
		return 0, nil
	}
	if len(entries) == 0 {
		logger.Info("feed is empty", slog.String("source", src.Key))
		return 0, nil
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	// Dedup gate runs before any page enrichment to avoid wasted fetches.
	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	existing, err := s.articles.ExistsByURLBatch(ctx, urls)
	if err != nil {
		logger.Warn("failed to batch check URLs",
			slog.String("source", src.Key),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Key, "dedup_check")
		return 0, nil
	}

	var cutoff time.Time
	if opts.RecencyDays > 0 {
		cutoff = s.now().AddDate(0, 0, -opts.RecencyDays)
	}

	inserted := 0
	for _, e := range entries {
		// The run is abortable between entries; no entry's processing
		// spans two commit boundaries.
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		if s.processEntry(ctx, src, e, existing, cutoff, opts.Topic) {
			inserted++
		}
	}

	metrics.RecordSourceIngest(src.Key, time.Since(start))
	if total, err := s.articles.CountBySource(ctx, src.Key); err == nil {
		metrics.UpdateArticlesStored(src.Key, total)
	}
	logger.Info("source ingest completed",
		slog.String("source", src.Key),
		slog.Int("entries", len(entries)),
		slog.Int("inserted", inserted),
		slog.Duration("duration", time.Since(start)))

	return inserted, nil
}

// processEntry runs the per-entry gates and, when they all pass, enriches
// and inserts the article. It reports whether a new row was committed.
func (s *Service) processEntry(
	ctx context.Context,
	src entity.FeedSource,
	e Entry,
	existing map[string]bool,
	cutoff time.Time,
	topic string,
) bool {
	logger := slog.Default()

	if e.URL == "" || existing[e.URL] {
		metrics.RecordEntrySkipped(src.Key, "duplicate")
		return false
	}

	publishedAt, parsed := normalize.ParseDate(e.Published, src.Locale)
	// An unparseable date must not suppress an otherwise-valid item.
	if parsed && !cutoff.IsZero() && publishedAt.Before(cutoff) {
		metrics.RecordEntrySkipped(src.Key, "recency")
		return false
	}

	if topic != "" && topic != classify.TopicAll {
		if !classify.Matches(e.Title+" "+e.Summary, topic) {
			metrics.RecordEntrySkipped(src.Key, "topic")
			return false
		}
	}

	art := entity.Article{
		URL:       e.URL,
		Title:     e.Title,
		Summary:   e.Summary,
		Author:    e.Author,
		Section:   e.Section,
		SourceKey: src.Key,
	}
	if parsed {
		t := publishedAt
		art.PublishedAt = &t
	}

	page, err := s.pages.Enrich(ctx, e.URL, feedBodyParagraphs)
	if err != nil {
		// Enrichment skipped: the entry is still persisted with the
		// metadata the feed already supplied.
		logger.Debug("page enrichment skipped",
			slog.String("source", src.Key),
			slog.String("url", e.URL),
			slog.Any("error", err))
	} else {
		s.mergePage(&art, page, src.Locale)
	}

	art.CreatedAt = s.now()
	if err := s.articles.Create(ctx, &art); err != nil {
		if errors.Is(err, entity.ErrDuplicateURL) {
			// Lost a dedup race against a concurrent writer; not a failure.
			metrics.RecordEntrySkipped(src.Key, "duplicate")
			return false
		}
		logger.Warn("failed to insert article",
			slog.String("source", src.Key),
			slog.String("url", e.URL),
			slog.Any("error", err))
		metrics.RecordIngestError(src.Key, "insert")
		return false
	}

	metrics.RecordArticleIngested(src.Key)
	return true
}

// mergePage folds page-extracted metadata into the article. Feed-supplied
// values win: the page date only fills in when the feed date failed to
// parse, and page author/section only fill gaps. The body always comes from
// the page, since feeds rarely carry full text.
func (s *Service) mergePage(art *entity.Article, page *PageData, locale string) {
	if art.PublishedAt == nil && page.Date != "" {
		if t, ok := normalize.ParseDate(page.Date, locale); ok {
			art.PublishedAt = &t
		}
	}
	if art.Author == "" {
		art.Author = page.Author
	}
	if art.Section == "" {
		art.Section = page.Section
	}
	art.Body = page.Body
}

// RunBatch ingests a fixed list of source keys and aggregates the outcome.
// It never fails: each source's error lands in the result's Errors list.
// Sources are distinct origins, so up to batchParallelism of them run
// concurrently while entries within one source remain sequential.
func (s *Service) RunBatch(ctx context.Context, sourceKeys []string, opts Options) *BatchResult {
	result := &BatchResult{SourcesTotal: len(sourceKeys)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchParallelism)

	for _, key := range sourceKeys {
		g.Go(func() error {
			n, err := s.Run(gctx, key, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
				return nil
			}
			result.InsertedTotal += n
			result.SourcesOK++
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()
	return result
}

// EnrichURL is the manual single-URL path: it enriches one operator-supplied
// URL directly and persists it with no source key. A duplicate URL is a
// silent skip, reported as (nil, nil).
func (s *Service) EnrichURL(ctx context.Context, url string) (*entity.Article, error) {
	exists, err := s.articles.ExistsByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("check existing URL: %w", err)
	}
	if exists {
		return nil, nil
	}

	page, err := s.pages.Enrich(ctx, url, manualBodyParagraphs)
	if err != nil {
		return nil, fmt.Errorf("enrich page: %w", err)
	}

	art := entity.Article{
		URL:       url,
		Title:     page.Title,
		Summary:   page.Summary,
		Author:    page.Author,
		Section:   page.Section,
		Body:      page.Body,
		CreatedAt: s.now(),
	}
	if page.Date != "" {
		if t, ok := normalize.ParseDate(page.Date, ""); ok {
			art.PublishedAt = &t
		}
	}

	if err := s.articles.Create(ctx, &art); err != nil {
		if errors.Is(err, entity.ErrDuplicateURL) {
			return nil, nil
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}
	return &art, nil
}
