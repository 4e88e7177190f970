package repository

import (
	"context"
	"fmt"
	"sync"

	"iajuridica-backend/models"
)

type caseEntry struct {
	mu   sync.RWMutex
	c    models.Case
	docs []models.Document
}

// MemoryCaseRepository keeps cases in process memory
type MemoryCaseRepository struct {
	mu    sync.RWMutex
	seq   int
	cases map[string]*caseEntry
}

// NewMemoryCaseRepository creates an empty in-memory case repository
func NewMemoryCaseRepository() *MemoryCaseRepository {
	return &MemoryCaseRepository{cases: make(map[string]*caseEntry)}
}

// CreateCase stores a new case with a sequential identifier (case_1, case_2, ...)
func (r *MemoryCaseRepository) CreateCase(ctx context.Context, c *models.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	c.ID = fmt.Sprintf("case_%d", r.seq)
	r.cases[c.ID] = &caseEntry{c: copyCase(*c), docs: []models.Document{}}
	return nil
}

// GetCase retrieves a copy of a case by ID
func (r *MemoryCaseRepository) GetCase(ctx context.Context, id string) (*models.Case, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	c := copyCase(e.c)
	return &c, nil
}

// AttachDocuments appends the batch under the case lock
func (r *MemoryCaseRepository) AttachDocuments(ctx context.Context, id string, docs []models.Document) (int, error) {
	e, err := r.entry(id)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.docs = append(e.docs, docs...)
	return len(docs), nil
}

// ListDocuments returns a snapshot of the documents of a case
func (r *MemoryCaseRepository) ListDocuments(ctx context.Context, id string) ([]models.Document, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()

	docs := make([]models.Document, len(e.docs))
	copy(docs, e.docs)
	return docs, nil
}

func (r *MemoryCaseRepository) entry(id string) (*caseEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.cases[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func copyCase(c models.Case) models.Case {
	if c.Notes != nil {
		notes := *c.Notes
		c.Notes = &notes
	}
	return c
}
