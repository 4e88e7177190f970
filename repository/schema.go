package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by the Postgres repositories. It is idempotent.
const Schema = `
CREATE SEQUENCE IF NOT EXISTS case_id_seq;

CREATE TABLE IF NOT EXISTS cases (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL CHECK (title <> ''),
    matter TEXT NOT NULL,
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS case_documents (
    seq BIGSERIAL PRIMARY KEY,
    case_id TEXT NOT NULL REFERENCES cases(id),
    doc_type VARCHAR(64) NOT NULL CHECK (doc_type IN (
        'initial_petition', 'defense', 'judgment', 'clarification_motion',
        'ordinary_appeal', 'panel_decision', 'special_appeal',
        'special_appeal_interlocutory', 'interlocutory_appeal',
        'clarification_motion_superior', 'extraordinary_appeal', 'appeal', 'other'
    )),
    filename TEXT,
    content TEXT NOT NULL,
    encoding VARCHAR(16) NOT NULL CHECK (encoding IN ('plain', 'base64')),
    archive_path TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_case_documents_case ON case_documents (case_id, seq);

CREATE TABLE IF NOT EXISTS norms (
    id BIGSERIAL PRIMARY KEY,
    source VARCHAR(64) NOT NULL,
    identifier TEXT NOT NULL,
    excerpt TEXT,
    url TEXT,
    search TSVECTOR GENERATED ALWAYS AS (
        to_tsvector('portuguese', identifier || ' ' || COALESCE(excerpt, ''))
    ) STORED,
    UNIQUE (source, identifier)
);

CREATE INDEX IF NOT EXISTS idx_norms_search ON norms USING GIN (search);
`

// Migrate applies Schema to the database
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
