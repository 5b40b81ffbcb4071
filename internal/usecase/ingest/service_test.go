package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prensa-feed/internal/domain/entity"
	"prensa-feed/internal/registry"
)

type stubArticleRepo struct {
	mu        sync.Mutex
	existing  map[string]bool
	created   []*entity.Article
	createErr map[string]error
	batchErr  error
	existsErr error
}

func newStubRepo(existing ...string) *stubArticleRepo {
	m := make(map[string]bool)
	for _, u := range existing {
		m[u] = true
	}
	return &stubArticleRepo{existing: m}
}

func (s *stubArticleRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing[url], nil
}

func (s *stubArticleRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(urls))
	for _, u := range urls {
		out[u] = s.existing[u]
	}
	return out, nil
}

func (s *stubArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr[article.URL]; err != nil {
		return err
	}
	if s.existing[article.URL] {
		return entity.ErrDuplicateURL
	}
	s.existing[article.URL] = true
	s.created = append(s.created, article)
	return nil
}

func (s *stubArticleRepo) CountBySource(ctx context.Context, sourceKey string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, a := range s.created {
		if a.SourceKey == sourceKey {
			n++
		}
	}
	return n, nil
}

type stubFeedFetcher struct {
	entries map[string][]Entry
	err     error
}

func (s *stubFeedFetcher) Fetch(ctx context.Context, feedURL string) ([]Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[feedURL], nil
}

type stubPageEnricher struct {
	mu    sync.Mutex
	pages map[string]*PageData
	errs  map[string]error
	calls []string
}

func (s *stubPageEnricher) Enrich(ctx context.Context, url string, bodyParagraphs int) (*PageData, error) {
	s.mu.Lock()
	s.calls = append(s.calls, url)
	s.mu.Unlock()
	if err := s.errs[url]; err != nil {
		return nil, err
	}
	if p, ok := s.pages[url]; ok {
		return p, nil
	}
	return &PageData{}, nil
}

func testRegistry() *registry.Registry {
	return registry.New([]entity.FeedSource{
		{Key: "demo", Name: "Demo Portada", FeedURL: "https://demo.example/rss", Locale: "es-ES"},
		{Key: "otro", Name: "Otro Diario", FeedURL: "https://otro.example/rss", Locale: "es-ES"},
	}, []string{"demo", "otro"})
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
}

func TestRun_InsertsNewAndSkipsExisting(t *testing.T) {
	repo := newStubRepo("https://demo.example/a")
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/a", Title: "Ya guardado"},
			{URL: "https://demo.example/b", Title: "Nuevo", Published: "Fri, 10 May 2024 08:00:00 GMT", Summary: "resumen"},
		},
	}}
	pages := &stubPageEnricher{errs: map[string]error{
		"https://demo.example/b": context.DeadlineExceeded,
	}}

	svc := NewService(testRegistry(), repo, feeds, pages)
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, repo.created, 1)
	got := repo.created[0]
	assert.Equal(t, "https://demo.example/b", got.URL)
	assert.Equal(t, "Nuevo", got.Title)
	assert.Equal(t, "resumen", got.Summary)
	assert.Equal(t, "demo", got.SourceKey)
	assert.Empty(t, got.Body, "failed enrichment leaves the entry feed-only")
	require.NotNil(t, got.PublishedAt)
	assert.Equal(t, time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC), got.PublishedAt.UTC())

	// The existing URL must never hit the page fetcher.
	assert.Equal(t, []string{"https://demo.example/b"}, pages.calls)
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/a", Title: "Uno"},
			{URL: "https://demo.example/b", Title: "Dos"},
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Run(context.Background(), "demo", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, repo.created, 2)
}

func TestRun_UnknownSource(t *testing.T) {
	svc := NewService(testRegistry(), newStubRepo(), &stubFeedFetcher{}, &stubPageEnricher{})

	_, err := svc.Run(context.Background(), "no-existe", Options{})
	assert.ErrorIs(t, err, entity.ErrUnknownSource)
}

func TestRun_FeedFetchFailureIsNotFatal(t *testing.T) {
	feeds := &stubFeedFetcher{err: errors.New("connection refused")}
	svc := NewService(testRegistry(), newStubRepo(), feeds, &stubPageEnricher{})

	n, err := svc.Run(context.Background(), "demo", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRun_RecencyFilter(t *testing.T) {
	repo := newStubRepo()
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/fresh", Title: "Reciente", Published: "Thu, 09 May 2024 12:00:00 GMT"},
			{URL: "https://demo.example/stale", Title: "Viejo", Published: "Wed, 01 May 2024 12:00:00 GMT"},
			{URL: "https://demo.example/undated", Title: "Sin fecha", Published: "hace poco"},
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{RecencyDays: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	urls := make([]string, 0, len(repo.created))
	for _, a := range repo.created {
		urls = append(urls, a.URL)
	}
	assert.Contains(t, urls, "https://demo.example/fresh")
	assert.Contains(t, urls, "https://demo.example/undated", "unparseable dates pass the recency gate")
	assert.NotContains(t, urls, "https://demo.example/stale")
}

func TestRun_TopicFilter(t *testing.T) {
	repo := newStubRepo()
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/eco", Title: "Nueva ley de inflación aprobada"},
			{URL: "https://demo.example/dep", Title: "Final del campeonato mundial"},
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{Topic: "economia"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "https://demo.example/eco", repo.created[0].URL)
}

func TestRun_Limit(t *testing.T) {
	repo := newStubRepo()
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/1", Title: "Uno"},
			{URL: "https://demo.example/2", Title: "Dos"},
			{URL: "https://demo.example/3", Title: "Tres"},
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRun_InsertFailureDoesNotAbortRun(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = map[string]error{
		"https://demo.example/2": errors.New("disk full"),
	}
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/1", Title: "Uno"},
			{URL: "https://demo.example/2", Title: "Dos"},
			{URL: "https://demo.example/3", Title: "Tres"},
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRun_DuplicateRaceCountsAsSkip(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = map[string]error{
		"https://demo.example/1": entity.ErrDuplicateURL,
	}
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/1", Title: "Uno"},
			{URL: "https://demo.example/2", Title: "Dos"},
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_PageDateFillsMissingFeedDate(t *testing.T) {
	repo := newStubRepo()
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/a", Title: "Sin fecha en el feed", Summary: "del feed", Published: ""},
			{URL: "https://demo.example/b", Title: "Con fecha", Published: "Fri, 10 May 2024 06:00:00 GMT"},
		},
	}}
	pages := &stubPageEnricher{pages: map[string]*PageData{
		"https://demo.example/a": {
			Date:    "2024-05-09T18:30:00Z",
			Author:  "Redacción",
			Section: "Mundo",
			Body:    "Primer párrafo del cuerpo.",
			Summary: "de la página",
		},
		"https://demo.example/b": {
			Date: "2001-01-01T00:00:00Z",
			Body: "Cuerpo.",
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, pages)
	svc.now = fixedNow

	n, err := svc.Run(context.Background(), "demo", Options{})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	byURL := make(map[string]*entity.Article)
	for _, a := range repo.created {
		byURL[a.URL] = a
	}

	a := byURL["https://demo.example/a"]
	require.NotNil(t, a.PublishedAt)
	assert.Equal(t, time.Date(2024, 5, 9, 18, 30, 0, 0, time.UTC), a.PublishedAt.UTC())
	assert.Equal(t, "Redacción", a.Author)
	assert.Equal(t, "Mundo", a.Section)
	assert.Equal(t, "Primer párrafo del cuerpo.", a.Body)
	assert.Equal(t, "del feed", a.Summary, "feed summary wins over the page summary")

	b := byURL["https://demo.example/b"]
	require.NotNil(t, b.PublishedAt)
	assert.Equal(t, time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC), b.PublishedAt.UTC(),
		"a parsed feed date is never overwritten by the page date")
}

func TestRun_CancelledBetweenEntries(t *testing.T) {
	repo := newStubRepo()
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/1", Title: "Uno"},
			{URL: "https://demo.example/2", Title: "Dos"},
		},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	n, err := svc.Run(ctx, "demo", Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
	assert.Empty(t, repo.created)
}

func TestRunBatch_AggregatesAcrossSources(t *testing.T) {
	repo := newStubRepo()
	feeds := &stubFeedFetcher{entries: map[string][]Entry{
		"https://demo.example/rss": {
			{URL: "https://demo.example/1", Title: "Uno"},
			{URL: "https://demo.example/2", Title: "Dos"},
		},
		"https://otro.example/rss": {
			{URL: "https://otro.example/1", Title: "Tres"},
		},
	}}

	svc := NewService(testRegistry(), repo, feeds, &stubPageEnricher{})
	svc.now = fixedNow

	result := svc.RunBatch(context.Background(), []string{"demo", "otro", "no-existe"}, Options{})
	assert.Equal(t, 3, result.SourcesTotal)
	assert.Equal(t, 2, result.SourcesOK)
	assert.Equal(t, 3, result.InsertedTotal)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no-existe")
}

func TestEnrichURL(t *testing.T) {
	repo := newStubRepo()
	pages := &stubPageEnricher{pages: map[string]*PageData{
		"https://demo.example/manual": {
			Title:   "Título de la página",
			Date:    "2024-05-08T10:00:00Z",
			Summary: "Resumen extraído.",
			Author:  "Ana Pérez",
			Section: "Economía",
			Body:    "Cuerpo largo.",
		},
	}}

	svc := NewService(testRegistry(), repo, &stubFeedFetcher{}, pages)
	svc.now = fixedNow

	art, err := svc.EnrichURL(context.Background(), "https://demo.example/manual")
	require.NoError(t, err)
	require.NotNil(t, art)
	assert.Equal(t, "Título de la página", art.Title)
	assert.Equal(t, "Resumen extraído.", art.Summary)
	assert.Equal(t, "Ana Pérez", art.Author)
	assert.Equal(t, "Economía", art.Section)
	assert.Equal(t, "Cuerpo largo.", art.Body)
	assert.Empty(t, art.SourceKey)
	require.NotNil(t, art.PublishedAt)
	assert.Equal(t, time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC), art.PublishedAt.UTC())
}

func TestEnrichURL_DuplicateIsSilentSkip(t *testing.T) {
	repo := newStubRepo("https://demo.example/seen")
	svc := NewService(testRegistry(), repo, &stubFeedFetcher{}, &stubPageEnricher{})

	art, err := svc.EnrichURL(context.Background(), "https://demo.example/seen")
	require.NoError(t, err)
	assert.Nil(t, art)
}

func TestEnrichURL_FetchErrorPropagates(t *testing.T) {
	pages := &stubPageEnricher{errs: map[string]error{
		"https://demo.example/down": fmt.Errorf("status 503"),
	}}
	svc := NewService(testRegistry(), newStubRepo(), &stubFeedFetcher{}, pages)

	_, err := svc.EnrichURL(context.Background(), "https://demo.example/down")
	assert.ErrorContains(t, err, "503")
}
