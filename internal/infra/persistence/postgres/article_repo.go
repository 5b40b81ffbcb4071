package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"prensa-feed/internal/domain/entity"
	"prensa-feed/internal/repository"
)

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

func (repo *ArticleRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM articles WHERE url = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return exists, nil
}

func (repo *ArticleRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(urls))
	args := make([]any, len(urls))
	for i, u := range urls {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = u
	}
	query := fmt.Sprintf(`SELECT url FROM articles WHERE url IN (%s)`,
		strings.Join(placeholders, ", "))

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: Scan: %w", err)
		}
		result[u] = true
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	// ON CONFLICT DO NOTHING keeps the insert race-safe: a concurrent writer
	// who wins the URL shows up as zero affected rows, not a constraint error.
	const query = `
INSERT INTO articles (url, title, summary, author, section, body, source_key, published_at, is_favorite, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (url) DO NOTHING
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		article.URL, article.Title, article.Summary, article.Author,
		article.Section, article.Body, article.SourceKey,
		article.PublishedAt, article.IsFavorite, article.CreatedAt,
	).Scan(&article.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrDuplicateURL
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) CountBySource(ctx context.Context, sourceKey string) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE source_key = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, sourceKey).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountBySource: %w", err)
	}
	return count, nil
}
