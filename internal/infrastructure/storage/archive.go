package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"infocurator/internal/domain"
	"infocurator/internal/ports"
)

// PostgresArchive records curated item ids so later runs can skip content
// that was already delivered. It is optional; snapshot files remain the
// only snapshot persistence.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ItemArchive = (*PostgresArchive)(nil)

func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// AlreadyCurated returns the subset of ids present in the archive.
func (a *PostgresArchive) AlreadyCurated(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if a.db == nil || len(ids) == 0 {
		return result, nil
	}

	query, args, err := a.builder.
		Select("item_id").
		From("curated_items").
		Where(sq.Expr("item_id = ANY(?)", pq.StringArray(ids))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query curated: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveCurated upserts every curated item.
func (a *PostgresArchive) SaveCurated(ctx context.Context, items []domain.SummarizedItem) error {
	if a.db == nil || len(items) == 0 {
		return nil
	}

	for _, item := range items {
		query, args, err := a.builder.
			Insert("curated_items").
			Columns("item_id", "title", "url", "source", "category", "total_score", "summary").
			Values(item.ID, item.Title, item.URL, item.Source, item.Category, item.Scores.Total, item.Summary).
			Suffix(`ON CONFLICT (item_id) DO UPDATE
                SET total_score = EXCLUDED.total_score,
                    summary = EXCLUDED.summary,
                    updated_at = NOW()`).
			ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert item %s: %w", item.ID, err)
		}
	}

	return nil
}
