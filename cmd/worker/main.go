package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"prensa-feed/internal/infra/db"
	"prensa-feed/internal/observability/logging"
	"prensa-feed/internal/infra/feed"
	"prensa-feed/internal/infra/page"
	pgRepo "prensa-feed/internal/infra/persistence/postgres"
	workerPkg "prensa-feed/internal/infra/worker"
	"prensa-feed/internal/registry"
	"prensa-feed/internal/usecase/ingest"
)

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("ingest_timeout", workerConfig.IngestTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	reg := loadRegistry(logger)

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	svc := setupIngestService(logger, database, reg)

	startCronWorker(logger, svc, reg, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes the structured logger from environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the connection pool and brings the schema current.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// loadRegistry returns the source registry: the optional REGISTRY_FILE
// override, or the built-in source list.
func loadRegistry(logger *slog.Logger) *registry.Registry {
	path := os.Getenv("REGISTRY_FILE")
	if path == "" {
		reg := registry.Default()
		logger.Info("using built-in source registry", slog.Int("sources", reg.Len()))
		return reg
	}

	reg, err := registry.LoadFile(path)
	if err != nil {
		logger.Error("failed to load registry file",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("source registry loaded",
		slog.String("path", path),
		slog.Int("sources", reg.Len()))
	return reg
}

// setupIngestService wires the ingestion pipeline dependencies.
func setupIngestService(logger *slog.Logger, database *sql.DB, reg *registry.Registry) *ingest.Service {
	articleRepo := pgRepo.NewArticleRepo(database)
	feedFetcher := feed.NewRSSFetcher(createHTTPClient())

	pageConfig := page.LoadConfigFromEnv()
	if err := pageConfig.Validate(); err != nil {
		logger.Warn("invalid page fetch configuration, using defaults", slog.Any("error", err))
		pageConfig = page.DefaultConfig()
	}
	enricher := page.NewEnricher(pageConfig)
	logger.Info("page enricher initialized",
		slog.Duration("timeout", pageConfig.Timeout),
		slog.Duration("fetch_delay", pageConfig.FetchDelay))

	return ingest.NewService(reg, articleRepo, feedFetcher, enricher)
}

// createHTTPClient builds the feed-fetching HTTP client. TLS 1.2+ enforced.
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

// startMetricsServer exposes /metrics on the configured port.
func startMetricsServer(ctx context.Context, logger *slog.Logger, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}()
}

func startCronWorker(
	logger *slog.Logger,
	svc *ingest.Service,
	reg *registry.Registry,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", cfg.Timezone),
			slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runIngestJob(logger, svc, reg, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))
	select {}
}

// runIngestJob executes one scheduled batch over the reliable sources.
func runIngestJob(
	logger *slog.Logger,
	svc *ingest.Service,
	reg *registry.Registry,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
) {
	startTime := time.Now()
	logger.Info("scheduled ingest started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.IngestTimeout)
	defer cancel()

	opts := ingest.Options{
		Limit:       cfg.Limit,
		RecencyDays: cfg.RecencyDays,
	}
	result := svc.RunBatch(ctx, reg.ReliableKeys(), opts)

	status := "success"
	if len(result.Errors) > 0 {
		status = "failure"
		for _, e := range result.Errors {
			logger.Warn("source ingest failed", slog.String("detail", e))
		}
	}

	metrics.RecordJobRun(status)
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordSourcesProcessed(result.SourcesOK)
	metrics.RecordArticlesInserted(result.InsertedTotal)
	if status == "success" {
		metrics.RecordLastSuccess()
	}

	logger.Info("scheduled ingest completed",
		slog.Int("sources_ok", result.SourcesOK),
		slog.Int("sources_total", result.SourcesTotal),
		slog.Int("inserted", result.InsertedTotal),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("duration", time.Since(startTime)))
}
