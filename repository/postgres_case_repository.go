package repository

import (
	"context"
	"errors"
	"fmt"

	"iajuridica-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCaseRepository handles database operations for cases and their documents
type PostgresCaseRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCaseRepository creates a new case repository backed by Postgres
func NewPostgresCaseRepository(db *pgxpool.Pool) *PostgresCaseRepository {
	return &PostgresCaseRepository{db: db}
}

// CreateCase inserts a case; the identifier comes from the case_id_seq sequence
func (r *PostgresCaseRepository) CreateCase(ctx context.Context, c *models.Case) error {
	query := `
		INSERT INTO cases (id, title, matter, notes)
		VALUES ('case_' || nextval('case_id_seq'), $1, $2, $3)
		RETURNING id`

	return r.db.QueryRow(ctx, query, c.Title, c.Matter, c.Notes).Scan(&c.ID)
}

// GetCase retrieves a case by ID
func (r *PostgresCaseRepository) GetCase(ctx context.Context, id string) (*models.Case, error) {
	c := &models.Case{}
	query := `
		SELECT id, title, matter, notes
		FROM cases
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Title, &c.Matter, &c.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AttachDocuments inserts the batch in one transaction holding the case row lock
func (r *PostgresCaseRepository) AttachDocuments(ctx context.Context, id string, docs []models.Document) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM cases WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, d := range docs {
		batch.Queue(`
			INSERT INTO case_documents (case_id, doc_type, filename, content, encoding, archive_path)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
			id, string(d.Type), d.Filename, d.Content, string(d.Encoding), d.ArchivePath)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to insert documents: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit documents: %w", err)
	}
	return len(docs), nil
}

// ListDocuments retrieves the documents of a case in attach order
func (r *PostgresCaseRepository) ListDocuments(ctx context.Context, id string) ([]models.Document, error) {
	if _, err := r.GetCase(ctx, id); err != nil {
		return nil, err
	}

	query := `
		SELECT doc_type, filename, content, encoding, COALESCE(archive_path, '')
		FROM case_documents
		WHERE case_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		var docType, encoding string
		if err := rows.Scan(&docType, &d.Filename, &d.Content, &encoding, &d.ArchivePath); err != nil {
			return nil, err
		}
		d.Type = models.DocumentType(docType)
		d.Encoding = models.Encoding(encoding)
		docs = append(docs, d)
	}

	return docs, rows.Err()
}
