package page

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the article page fetch configuration.
type Config struct {
	// Timeout is the maximum duration for a single page request.
	// Default: 15s
	Timeout time.Duration

	// FetchDelay is the minimum spacing enforced between page requests,
	// implemented as a rate limiter. Keeps the crawler polite towards
	// publishers. Default: 500ms
	FetchDelay time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Responses exceeding this limit are truncated during reading.
	// Default: 5242880 (5MB)
	MaxBodySize int64

	// UserAgent is sent with every page request. News sites routinely
	// reject clients without a browser-like agent. Default: "Mozilla/5.0"
	UserAgent string
}

// DefaultConfig returns the default page fetch configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:     15 * time.Second,
		FetchDelay:  500 * time.Millisecond,
		MaxBodySize: 5 * 1024 * 1024,
		UserAgent:   "Mozilla/5.0",
	}
}

// LoadConfigFromEnv reads the page fetch configuration from environment
// variables, falling back to defaults when unset or invalid.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	if timeout := os.Getenv("PAGE_FETCH_TIMEOUT"); timeout != "" {
		if val, err := time.ParseDuration(timeout); err == nil && val > 0 {
			cfg.Timeout = val
		}
	}

	if delay := os.Getenv("PAGE_FETCH_DELAY"); delay != "" {
		if val, err := time.ParseDuration(delay); err == nil && val >= 0 {
			cfg.FetchDelay = val
		}
	}

	if size := os.Getenv("PAGE_MAX_BODY_SIZE"); size != "" {
		if val, err := strconv.ParseInt(size, 10, 64); err == nil && val > 0 {
			cfg.MaxBodySize = val
		}
	}

	if ua := os.Getenv("PAGE_USER_AGENT"); ua != "" {
		cfg.UserAgent = ua
	}

	return cfg
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.FetchDelay < 0 {
		return fmt.Errorf("fetch delay must be non-negative, got %v", c.FetchDelay)
	}
	if c.MaxBodySize < 1024 {
		return fmt.Errorf("max body size must be at least 1KB, got %d", c.MaxBodySize)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}
	return nil
}
