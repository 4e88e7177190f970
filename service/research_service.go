package service

import (
	"context"
	"errors"
	"fmt"

	"iajuridica-backend/generator"
	"iajuridica-backend/models"
	"iajuridica-backend/repository"

	"github.com/rs/zerolog"
)

// ResearchService produces analyses, strategies and norm searches through a generator
type ResearchService struct {
	caseRepo  repository.CaseRepository
	generator generator.Generator
	logger    zerolog.Logger
}

// ResearchServiceOption is a functional option for ResearchService
type ResearchServiceOption func(*ResearchService)

// ResearchWithCaseRepository sets the case repository
func ResearchWithCaseRepository(repo repository.CaseRepository) ResearchServiceOption {
	return func(s *ResearchService) {
		s.caseRepo = repo
	}
}

// ResearchWithGenerator sets the content generator
func ResearchWithGenerator(g generator.Generator) ResearchServiceOption {
	return func(s *ResearchService) {
		s.generator = g
	}
}

// ResearchWithLogger sets the logger
func ResearchWithLogger(logger zerolog.Logger) ResearchServiceOption {
	return func(s *ResearchService) {
		s.logger = logger
	}
}

// NewResearchService creates a new research service
func NewResearchService(opts ...ResearchServiceOption) *ResearchService {
	s := &ResearchService{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeCaseRequest represents a request to analyze a case
type AnalyzeCaseRequest struct {
	CaseID   string
	Analysis models.AnalysisRequest
}

// AnalyzeCaseResult represents the analysis of a case
type AnalyzeCaseResult struct {
	Response *models.AnalysisResponse
}

// AnalyzeCase generates the analysis report of a case
func (s *ResearchService) AnalyzeCase(ctx context.Context, req AnalyzeCaseRequest) (*AnalyzeCaseResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := req.Analysis.Normalize(); err != nil {
		return nil, err
	}

	cc, err := s.loadCase(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.generator.Analyze(ctx, *cc, req.Analysis)
	if err == nil && analysis == nil {
		err = generator.ErrEmptyResponse
	}
	if err != nil {
		s.logger.Error().Err(err).Str("case_id", req.CaseID).Msg("analysis generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	resp := &models.AnalysisResponse{
		CaseID: req.CaseID,
		Format: req.Analysis.Format,
		Output: analysis.Output,
	}
	if req.Analysis.WantsCitations() {
		resp.Citations = analysis.Citations
	}
	return &AnalyzeCaseResult{Response: resp}, nil
}

// PlanStrategyRequest represents a request to plan the strategy of a case
type PlanStrategyRequest struct {
	CaseID   string
	Strategy models.StrategyRequest
}

// PlanStrategyResult represents the strategy of a case
type PlanStrategyResult struct {
	Response *models.StrategyResponse
}

// PlanStrategy generates a litigation roadmap for a case
func (s *ResearchService) PlanStrategy(ctx context.Context, req PlanStrategyRequest) (*PlanStrategyResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	cc, err := s.loadCase(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	strategy, err := s.generator.PlanStrategy(ctx, *cc, req.Strategy)
	if err == nil && strategy == nil {
		err = generator.ErrEmptyResponse
	}
	if err != nil {
		s.logger.Error().Err(err).Str("case_id", req.CaseID).Msg("strategy generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	risks := strategy.Risks
	if risks == nil {
		risks = []string{}
	}
	return &PlanStrategyResult{Response: &models.StrategyResponse{
		CaseID:  req.CaseID,
		Roadmap: strategy.Roadmap,
		Risks:   risks,
		Chances: strategy.Chances,
	}}, nil
}

// SearchNormsRequest represents a normative-source search
type SearchNormsRequest struct {
	Search models.NormSearchRequest
}

// SearchNormsResult represents the citations found
type SearchNormsResult struct {
	Response *models.SearchResponse
}

// SearchNorms delegates the search to the generator and caps the result at the requested limit,
// keeping the generator's ranking order
func (s *ResearchService) SearchNorms(ctx context.Context, req SearchNormsRequest) (*SearchNormsResult, error) {
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}
	if err := req.Search.Normalize(); err != nil {
		return nil, err
	}

	items, err := s.generator.SearchNorms(ctx, req.Search)
	if err != nil {
		s.logger.Error().Err(err).Msg("norm search failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if limit := req.Search.MaxResults(); len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []models.Citation{}
	}
	return &SearchNormsResult{Response: &models.SearchResponse{Items: items}}, nil
}

func (s *ResearchService) ready() error {
	if s.caseRepo == nil {
		return errors.New("case repository not set")
	}
	if s.generator == nil {
		return errors.New("generator not set")
	}
	return nil
}

func (s *ResearchService) loadCase(ctx context.Context, id string) (*generator.CaseContext, error) {
	c, err := s.caseRepo.GetCase(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	docs, err := s.caseRepo.ListDocuments(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &generator.CaseContext{Case: *c, Documents: docs}, nil
}
