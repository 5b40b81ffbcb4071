// Package main provides a one-shot CLI for running ingestion manually.
// Usage: prensa-ingest [--source KEY | --all | --url URL] [--limit N] [--days N] [--topic KEY] [--output json]
package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"prensa-feed/internal/domain/entity"
	"prensa-feed/internal/infra/db"
	"prensa-feed/internal/infra/feed"
	"prensa-feed/internal/infra/page"
	pgRepo "prensa-feed/internal/infra/persistence/postgres"
	"prensa-feed/internal/observability/logging"
	"prensa-feed/internal/registry"
	"prensa-feed/internal/usecase/ingest"
)

// RunOutput is the JSON output for source and batch runs.
type RunOutput struct {
	Inserted     int      `json:"inserted"`
	SourcesOK    int      `json:"sources_ok,omitempty"`
	SourcesTotal int      `json:"sources_total,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// ArticleOutput is the JSON output for the single-URL mode.
type ArticleOutput struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at,omitempty"`
	Author      string `json:"author,omitempty"`
	Section     string `json:"section,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Skipped     bool   `json:"skipped,omitempty"`
}

func main() {
	var (
		sourceKey    string
		all          bool
		manualURL    string
		limit        int
		days         int
		topic        string
		registryPath string
		outputFormat string
	)

	flag.StringVar(&sourceKey, "source", "", "Registry key of a single source to ingest")
	flag.BoolVar(&all, "all", false, "Ingest every reliable source in the registry")
	flag.StringVar(&manualURL, "url", "", "Enrich and store a single article URL")
	flag.IntVar(&limit, "limit", 0, "Maximum feed entries per source (0 = no limit)")
	flag.IntVar(&days, "days", 0, "Skip entries older than N days (0 = no filter)")
	flag.StringVar(&topic, "topic", "", "Only keep entries matching this topic key")
	flag.StringVar(&registryPath, "registry", "", "Path to a YAML source registry (default: built-in)")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	modes := 0
	for _, set := range []bool{sourceKey != "", all, manualURL != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --source, --all, or --url is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  prensa-ingest --source bbc_mundo --limit 20")
		fmt.Fprintln(os.Stderr, "  prensa-ingest --all --days 7 --topic economia")
		fmt.Fprintln(os.Stderr, "  prensa-ingest --url https://example.com/noticia --output json")
		os.Exit(1)
	}

	logger := initLogger()

	reg, err := loadRegistry(registryPath)
	if err != nil {
		logger.Error("failed to load registry", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: failed to load registry: %v\n", err)
		os.Exit(1)
	}

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	svc := ingest.NewService(
		reg,
		pgRepo.NewArticleRepo(database),
		feed.NewRSSFetcher(createHTTPClient()),
		page.NewEnricher(page.LoadConfigFromEnv()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	opts := ingest.Options{Limit: limit, RecencyDays: days, Topic: topic}

	switch {
	case manualURL != "":
		runManual(ctx, svc, manualURL, outputFormat)
	case all:
		runBatch(ctx, svc, reg, opts, outputFormat)
	default:
		runSource(ctx, svc, sourceKey, opts, outputFormat)
	}
}

func runSource(ctx context.Context, svc *ingest.Service, key string, opts ingest.Options, format string) {
	inserted, err := svc.Run(ctx, key, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: ingest failed: %v\n", err)
		os.Exit(1)
	}

	if format == "json" {
		printJSON(RunOutput{Inserted: inserted})
		return
	}
	fmt.Printf("Source %s: %d new articles\n", key, inserted)
}

func runBatch(ctx context.Context, svc *ingest.Service, reg *registry.Registry, opts ingest.Options, format string) {
	result := svc.RunBatch(ctx, reg.ReliableKeys(), opts)

	if format == "json" {
		printJSON(RunOutput{
			Inserted:     result.InsertedTotal,
			SourcesOK:    result.SourcesOK,
			SourcesTotal: result.SourcesTotal,
			Errors:       result.Errors,
		})
		return
	}

	fmt.Printf("Batch: %d new articles from %d/%d sources\n",
		result.InsertedTotal, result.SourcesOK, result.SourcesTotal)
	for _, e := range result.Errors {
		fmt.Printf("  error: %s\n", e)
	}
}

func runManual(ctx context.Context, svc *ingest.Service, url, format string) {
	article, err := svc.EnrichURL(ctx, url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: enrich failed: %v\n", err)
		os.Exit(1)
	}

	if article == nil {
		if format == "json" {
			printJSON(ArticleOutput{URL: url, Skipped: true})
			return
		}
		fmt.Printf("URL already stored, skipped: %s\n", url)
		return
	}

	if format == "json" {
		printJSON(articleOutput(article))
		return
	}

	fmt.Printf("Stored: %s\n", article.Title)
	fmt.Printf("  url: %s\n", article.URL)
	if article.PublishedAt != nil {
		fmt.Printf("  published: %s\n", article.PublishedAt.Format(time.RFC3339))
	}
	if article.Author != "" {
		fmt.Printf("  author: %s\n", article.Author)
	}
	if article.Section != "" {
		fmt.Printf("  section: %s\n", article.Section)
	}
}

func articleOutput(a *entity.Article) ArticleOutput {
	out := ArticleOutput{
		URL:     a.URL,
		Title:   a.Title,
		Author:  a.Author,
		Section: a.Section,
		Summary: a.Summary,
	}
	if a.PublishedAt != nil {
		out.PublishedAt = a.PublishedAt.Format(time.RFC3339)
	}
	return out
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default(), nil
	}
	return registry.LoadFile(path)
}

func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 20 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// initLogger initializes and returns a structured logger. CLI runs log
// human-readable text to stderr so stdout stays parseable output.
func initLogger() *slog.Logger {
	logger := logging.NewTextLogger()
	slog.SetDefault(logger)
	return logger
}
