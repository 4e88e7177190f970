package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"iajuridica-backend/models"
	"iajuridica-backend/repository"
	"iajuridica-backend/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const archiveParallelism = 4

// CaseService handles business logic for cases and their documents
type CaseService struct {
	caseRepo      repository.CaseRepository
	storage       storage.Storage
	defaultMatter string
	logger        zerolog.Logger
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// WithCaseRepository sets the case repository
func WithCaseRepository(repo repository.CaseRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.caseRepo = repo
	}
}

// WithStorage sets the document archive. Without one, documents are only kept in the repository.
func WithStorage(st storage.Storage) CaseServiceOption {
	return func(s *CaseService) {
		s.storage = st
	}
}

// WithDefaultMatter sets the matter assigned to cases created without one
func WithDefaultMatter(matter string) CaseServiceOption {
	return func(s *CaseService) {
		s.defaultMatter = matter
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) CaseServiceOption {
	return func(s *CaseService) {
		s.logger = logger
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{
		defaultMatter: models.DefaultMatter,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCaseRequest represents a request to create a case
type CreateCaseRequest struct {
	Title  string
	Matter *string
	Notes  *string
}

// CreateCaseResult represents the result of creating a case
type CreateCaseResult struct {
	Case *models.Case
}

// CreateCase validates the title, applies the matter default and stores the case
func (s *CaseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*CreateCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	in := models.CreateCaseInput{Title: req.Title, Matter: req.Matter, Notes: req.Notes}
	if err := in.Normalize(s.defaultMatter); err != nil {
		return nil, err
	}

	c := &models.Case{
		Title:  in.Title,
		Matter: *in.Matter,
		Notes:  in.Notes,
	}
	if err := s.caseRepo.CreateCase(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	s.logger.Info().Str("case_id", c.ID).Msg("case created")
	return &CreateCaseResult{Case: c}, nil
}

// GetCaseRequest represents a request to get a case
type GetCaseRequest struct {
	ID string
}

// GetCaseResult represents the result of getting a case
type GetCaseResult struct {
	Case *models.Case
}

// GetCase retrieves a case by ID
func (s *CaseService) GetCase(ctx context.Context, req GetCaseRequest) (*GetCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	c, err := s.caseRepo.GetCase(ctx, req.ID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &GetCaseResult{Case: c}, nil
}

// AttachDocumentsRequest represents a request to attach documents to a case
type AttachDocumentsRequest struct {
	CaseID    string
	Documents []models.DocumentInput
}

// AttachDocumentsResult represents the result of attaching documents
type AttachDocumentsResult struct {
	Count int
}

// AttachDocuments resolves the case, validates the whole batch, archives it when an
// archive is configured and appends it to the case. Either every document is attached or none is.
func (s *CaseService) AttachDocuments(ctx context.Context, req AttachDocumentsRequest) (*AttachDocumentsResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	if _, err := s.caseRepo.GetCase(ctx, req.CaseID); err != nil {
		return nil, mapRepositoryError(err)
	}

	docs, err := models.AttachDocumentsInput{Documents: req.Documents}.ToDocuments()
	if err != nil {
		return nil, err
	}

	archived, err := s.archive(ctx, req.CaseID, docs)
	if err != nil {
		s.discard(ctx, archived)
		return nil, err
	}

	n, err := s.caseRepo.AttachDocuments(ctx, req.CaseID, docs)
	if err != nil {
		s.discard(ctx, archived)
		return nil, mapRepositoryError(err)
	}

	s.logger.Info().Str("case_id", req.CaseID).Int("count", n).Msg("documents attached")
	return &AttachDocumentsResult{Count: n}, nil
}

// archive uploads the documents concurrently and records their paths.
// It returns every path uploaded, including on failure.
func (s *CaseService) archive(ctx context.Context, caseID string, docs []models.Document) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(archiveParallelism)
	for i := range docs {
		g.Go(func() error {
			data, err := docs[i].Decode()
			if err != nil {
				return err
			}
			filename := ""
			if docs[i].Filename != nil {
				filename = *docs[i].Filename
			}
			path, err := s.storage.Upload(gCtx, caseID, uuid.New(), filename, bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrArchiveFailed, err)
			}
			docs[i].ArchivePath = path
			return nil
		})
	}
	err := g.Wait()

	paths := make([]string, 0, len(docs))
	for i := range docs {
		if docs[i].ArchivePath != "" {
			paths = append(paths, docs[i].ArchivePath)
		}
	}
	return paths, err
}

// discard removes archived objects of a batch that was not committed
func (s *CaseService) discard(ctx context.Context, paths []string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			s.logger.Error().Err(err).Str("path", p).Msg("failed to delete archived document")
		}
	}
}

// ListDocumentsRequest represents a request to list the documents of a case
type ListDocumentsRequest struct {
	CaseID string
}

// ListDocumentsResult represents the documents of a case in attach order
type ListDocumentsResult struct {
	Documents []models.Document
}

// ListDocuments retrieves the documents of a case
func (s *CaseService) ListDocuments(ctx context.Context, req ListDocumentsRequest) (*ListDocumentsResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	docs, err := s.caseRepo.ListDocuments(ctx, req.CaseID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &ListDocumentsResult{Documents: docs}, nil
}

// GetDocumentContentRequest addresses a document by its position in attach order
type GetDocumentContentRequest struct {
	CaseID string
	Index  int
}

// GetDocumentContentResult holds the decoded document bytes. The caller closes Content.
type GetDocumentContentResult struct {
	Document models.Document
	Content  io.ReadCloser
	// Size is -1 when the length is not known up front
	Size int64
}

// GetDocumentContent streams the decoded bytes of a document, from the archive when it was archived
func (s *CaseService) GetDocumentContent(ctx context.Context, req GetDocumentContentRequest) (*GetDocumentContentResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	docs, err := s.caseRepo.ListDocuments(ctx, req.CaseID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if req.Index < 0 || req.Index >= len(docs) {
		return nil, ErrDocumentNotFound
	}
	doc := docs[req.Index]

	if doc.ArchivePath != "" && s.storage != nil {
		rc, err := s.storage.Download(ctx, doc.ArchivePath)
		switch {
		case err == nil:
			return &GetDocumentContentResult{Document: doc, Content: rc, Size: -1}, nil
		case errors.Is(err, storage.ErrObjectNotFound):
			s.logger.Warn().Str("case_id", req.CaseID).Str("path", doc.ArchivePath).
				Msg("archived document missing, serving stored content")
		default:
			return nil, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
		}
	}

	data, err := doc.Decode()
	if err != nil {
		return nil, err
	}
	return &GetDocumentContentResult{
		Document: doc,
		Content:  io.NopCloser(bytes.NewReader(data)),
		Size:     int64(len(data)),
	}, nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCaseNotFound
	}
	return err
}
