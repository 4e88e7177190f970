package models

import (
	"strings"
)

// Citation is a reference to a normative source
type Citation struct {
	Source     string  `json:"source"`
	Identifier string  `json:"identifier"`
	Excerpt    *string `json:"excerpt,omitempty"`
	URL        *string `json:"url,omitempty"`
}

// Normative source categories
const (
	SourceStatute                 = "statute"
	SourceConstitution            = "constitution"
	SourceBindingPrecedentSummary = "binding_precedent_summary"
	SourceGuidingOpinion          = "guiding_opinion"
)

// DefaultSources are searched when a request names none
var DefaultSources = []string{
	SourceStatute,
	SourceConstitution,
	SourceBindingPrecedentSummary,
	SourceGuidingOpinion,
}

// Analysis report sections
const (
	SectionSummary             = "summary"
	SectionRequestsVsDecisions = "requests_vs_decisions"
	SectionGrounds             = "grounds"
	SectionCriticalAnalysis    = "critical_analysis"
	SectionRecommendations     = "recommendations"
)

// DefaultSections is the section order used when a request names none
var DefaultSections = []string{
	SectionSummary,
	SectionRequestsVsDecisions,
	SectionGrounds,
	SectionCriticalAnalysis,
	SectionRecommendations,
}

// Output formats
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// AnalysisRequest represents the request body for analyzing a case
type AnalysisRequest struct {
	Format           string   `json:"format"`
	IncludeCitations *bool    `json:"includeCitations"`
	Sections         []string `json:"sections"`
}

// Normalize applies defaults and validates format and sections
func (r *AnalysisRequest) Normalize() error {
	if r.Format == "" {
		r.Format = FormatMarkdown
	}
	if r.Format != FormatMarkdown && r.Format != FormatJSON {
		return invalidf("format must be markdown or json")
	}
	if r.IncludeCitations == nil {
		include := true
		r.IncludeCitations = &include
	}
	if len(r.Sections) == 0 {
		r.Sections = append([]string(nil), DefaultSections...)
		return nil
	}
	seen := make(map[string]bool, len(r.Sections))
	for _, s := range r.Sections {
		if !contains(DefaultSections, s) {
			return invalidf("unknown section %q", s)
		}
		if seen[s] {
			return invalidf("duplicate section %q", s)
		}
		seen[s] = true
	}
	return nil
}

// WantsCitations reports whether citations should be returned
func (r *AnalysisRequest) WantsCitations() bool {
	return r.IncludeCitations == nil || *r.IncludeCitations
}

// AnalysisResponse is the analysis report for a case
type AnalysisResponse struct {
	CaseID    string     `json:"caseId"`
	Format    string     `json:"format"`
	Output    string     `json:"output"`
	Citations []Citation `json:"citations,omitempty"`
}

// StrategyRequest represents the request body for planning a litigation strategy
type StrategyRequest struct {
	Goal        *string `json:"goal"`
	Deadline    *string `json:"deadline"`
	Constraints *string `json:"constraints"`
}

// StrategyResponse is a litigation roadmap for a case
type StrategyResponse struct {
	CaseID  string   `json:"caseId"`
	Roadmap string   `json:"roadmap"`
	Risks   []string `json:"risks"`
	Chances *string  `json:"chances,omitempty"`
}

// NormSearchRequest represents the request body for a normative-source search
type NormSearchRequest struct {
	Query   string   `json:"query" binding:"required"`
	Sources []string `json:"sources"`
	Limit   *int     `json:"limit"`
}

// Normalize applies defaults and validates query, sources and limit
func (r *NormSearchRequest) Normalize() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return invalidf("query is required")
	}
	if len(r.Sources) == 0 {
		r.Sources = append([]string(nil), DefaultSources...)
	}
	for _, s := range r.Sources {
		if !contains(DefaultSources, s) {
			return invalidf("unknown source %q", s)
		}
	}
	if r.Limit == nil {
		limit := DefaultSearchLimit
		r.Limit = &limit
	}
	if *r.Limit < 1 || *r.Limit > MaxSearchLimit {
		return invalidf("limit must be between 1 and %d", MaxSearchLimit)
	}
	return nil
}

// MaxResults returns the normalized result cap
func (r *NormSearchRequest) MaxResults() int {
	if r.Limit == nil {
		return DefaultSearchLimit
	}
	return *r.Limit
}

// SearchResponse holds the citations found by a norm search
type SearchResponse struct {
	Items []Citation `json:"items"`
}
