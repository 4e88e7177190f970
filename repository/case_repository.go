package repository

import (
	"context"
	"errors"

	"iajuridica-backend/models"
)

// ErrNotFound is returned when a case does not exist
var ErrNotFound = errors.New("not found")

// CaseRepository stores cases and the documents attached to them.
// AttachDocuments must apply each batch atomically with respect to other
// mutations of the same case.
type CaseRepository interface {
	// CreateCase assigns a fresh identifier and stores the case
	CreateCase(ctx context.Context, c *models.Case) error

	// GetCase returns the case with the given identifier
	GetCase(ctx context.Context, id string) (*models.Case, error)

	// AttachDocuments appends docs to the case in order and returns how many were attached
	AttachDocuments(ctx context.Context, id string, docs []models.Document) (int, error)

	// ListDocuments returns the documents of a case in attach order
	ListDocuments(ctx context.Context, id string) ([]models.Document, error)
}
