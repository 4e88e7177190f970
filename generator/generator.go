// Package generator produces the derived artifacts of a case: analysis reports,
// litigation strategies and normative-source search results.
package generator

import (
	"context"
	"errors"

	"iajuridica-backend/models"
)

// ErrEmptyResponse is returned when a generator produced no usable content
var ErrEmptyResponse = errors.New("generator returned empty content")

// ErrMalformedOutput is returned when generated output does not match the requested format
var ErrMalformedOutput = errors.New("generated output does not match the requested format")

// CaseContext is everything a generator may know about a case
type CaseContext struct {
	Case      models.Case
	Documents []models.Document
}

// Analysis is the generated analysis report
type Analysis struct {
	Output    string
	Citations []models.Citation
}

// Strategy is the generated litigation roadmap
type Strategy struct {
	Roadmap string
	Risks   []string
	Chances *string
}

// Generator produces analysis, strategy and search output.
// Requests reach it already normalized.
type Generator interface {
	Analyze(ctx context.Context, cc CaseContext, req models.AnalysisRequest) (*Analysis, error)
	PlanStrategy(ctx context.Context, cc CaseContext, req models.StrategyRequest) (*Strategy, error)
	// SearchNorms returns citations ranked best-first
	SearchNorms(ctx context.Context, req models.NormSearchRequest) ([]models.Citation, error)
}

// NormIndex finds normative sources by free-text query
type NormIndex interface {
	Search(ctx context.Context, query string, sources []string, limit int) ([]models.Citation, error)
}
