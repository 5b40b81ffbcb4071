package worker

import (
	"fmt"
	"log/slog"
	"time"

	"prensa-feed/internal/pkg/config"
)

// WorkerConfig holds the configuration for the scheduled ingest worker.
// Every field loads from the environment with a validated fail-open
// fallback, so a bad variable degrades to the default instead of keeping
// the worker from starting.
type WorkerConfig struct {
	// CronSchedule is the 5-field cron expression for ingest runs.
	// Default: "0 */6 * * *" (every 6 hours)
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "America/Santo_Domingo"
	Timezone string

	// IngestTimeout bounds one full batch run across all sources.
	// Default: 15 minutes
	IngestTimeout time.Duration

	// HealthPort serves the liveness and readiness endpoints.
	// Default: 9091
	HealthPort int

	// MetricsPort serves the Prometheus /metrics endpoint.
	// Default: 9090
	MetricsPort int

	// Limit caps the number of feed entries processed per source.
	// Zero means no cap. Default: 0
	Limit int

	// RecencyDays drops entries published more than this many days ago.
	// Zero disables the recency filter. Default: 7
	RecencyDays int
}

// DefaultConfig returns a WorkerConfig with production defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:  "0 */6 * * *",
		Timezone:      "America/Santo_Domingo",
		IngestTimeout: 15 * time.Minute,
		HealthPort:    9091,
		MetricsPort:   9090,
		Limit:         0,
		RecencyDays:   7,
	}
}

// Validate checks every field and returns the collected failures.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.IngestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("ingest timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if err := config.ValidateIntRange(c.Limit, 0, 1000); err != nil {
		errs = append(errs, fmt.Errorf("limit: %w", err))
	}
	if err := config.ValidateIntRange(c.RecencyDays, 0, 365); err != nil {
		errs = append(errs, fmt.Errorf("recency days: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from the environment.
// Invalid values fall back to defaults with a warning and a metric; the
// returned configuration is always valid and the error is always nil.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default: "0 */6 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "America/Santo_Domingo")
//   - INGEST_TIMEOUT: duration string, e.g. "15m"
//   - WORKER_HEALTH_PORT / WORKER_METRICS_PORT: 1024-65535
//   - INGEST_LIMIT: 0-1000 entries per source
//   - INGEST_RECENCY_DAYS: 0-365
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	apply := func(field string, result config.ConfigLoadResult) config.ConfigLoadResult {
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
		return result
	}

	cfg.CronSchedule = apply("cron_schedule",
		config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)).Value.(string)

	cfg.Timezone = apply("timezone",
		config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)).Value.(string)

	cfg.IngestTimeout = apply("ingest_timeout",
		config.LoadEnvDuration("INGEST_TIMEOUT", cfg.IngestTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
		})).Value.(time.Duration)

	cfg.HealthPort = apply("health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		})).Value.(int)

	cfg.MetricsPort = apply("metrics_port",
		config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		})).Value.(int)

	cfg.Limit = apply("limit",
		config.LoadEnvInt("INGEST_LIMIT", cfg.Limit, func(v int) error {
			return config.ValidateIntRange(v, 0, 1000)
		})).Value.(int)

	cfg.RecencyDays = apply("recency_days",
		config.LoadEnvInt("INGEST_RECENCY_DAYS", cfg.RecencyDays, func(v int) error {
			return config.ValidateIntRange(v, 0, 365)
		})).Value.(int)

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
