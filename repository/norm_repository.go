package repository

import (
	"context"
	"fmt"

	"iajuridica-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NormRepository searches the normative-source catalog stored in Postgres
type NormRepository struct {
	db *pgxpool.Pool
}

// NewNormRepository creates a new norm repository
func NewNormRepository(db *pgxpool.Pool) *NormRepository {
	return &NormRepository{db: db}
}

// Search performs a Portuguese full-text search over the catalog.
// query: free-text search terms
// sources: source categories to include
// limit: maximum number of citations to return, best match first
func (r *NormRepository) Search(ctx context.Context, query string, sources []string, limit int) ([]models.Citation, error) {
	sql := `
		SELECT source, identifier, excerpt, url
		FROM norms
		WHERE
			source = ANY($2)
			AND search @@ websearch_to_tsquery('portuguese', $1)
		ORDER BY
			ts_rank(search, websearch_to_tsquery('portuguese', $1)) DESC,
			id
		LIMIT $3`

	rows, err := r.db.Query(ctx, sql, query, sources, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query norms: %w", err)
	}
	defer rows.Close()

	citations := make([]models.Citation, 0)
	for rows.Next() {
		var c models.Citation
		if err := rows.Scan(&c.Source, &c.Identifier, &c.Excerpt, &c.URL); err != nil {
			return nil, fmt.Errorf("failed to scan norm: %w", err)
		}
		citations = append(citations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating norms: %w", err)
	}

	return citations, nil
}

// Upsert inserts a catalog entry or refreshes its excerpt and URL
func (r *NormRepository) Upsert(ctx context.Context, c models.Citation) error {
	query := `
		INSERT INTO norms (source, identifier, excerpt, url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source, identifier) DO UPDATE SET
			excerpt = EXCLUDED.excerpt,
			url = EXCLUDED.url`

	_, err := r.db.Exec(ctx, query, c.Source, c.Identifier, c.Excerpt, c.URL)
	return err
}
