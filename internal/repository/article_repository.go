// Package repository defines the persistence interfaces consumed by the
// ingestion pipeline. Implementations live under internal/infra/persistence.
package repository

import (
	"context"

	"prensa-feed/internal/domain/entity"
)

// ArticleRepository is the persistence contract the pipeline relies on.
// The store enforces a uniqueness constraint on Article.URL and nothing else.
// All methods must be safe to call concurrently with unrelated reads from
// other processes.
type ArticleRepository interface {
	// ExistsByURL reports whether an article with the given URL is stored.
	ExistsByURL(ctx context.Context, url string) (bool, error)

	// ExistsByURLBatch checks many URLs in one round trip. The result maps
	// every requested URL to its existence; URLs absent from the map do not
	// exist.
	ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error)

	// Create inserts a new article. A URL collision returns
	// entity.ErrDuplicateURL instead of failing, so a lost dedup race is a
	// skip rather than an error.
	Create(ctx context.Context, article *entity.Article) error

	// CountBySource returns the number of stored articles ingested from the
	// given source key. Used for reporting, not correctness.
	CountBySource(ctx context.Context, sourceKey string) (int64, error)
}
