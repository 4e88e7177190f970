package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"iajuridica-backend/models"
)

type sectionText struct {
	title string
	body  string
}

var staticSections = map[string]sectionText{
	models.SectionSummary: {
		title: "Resumo Executivo",
		body:  "Sentença parcialmente procedente. Horas extras deferidas; insalubridade indeferida.",
	},
	models.SectionRequestsVsDecisions: {
		title: "Pedidos x Decisões",
		body: "| Pedido | Resultado | Fundamento |\n|---|---|---|\n" +
			"| Horas extras | Parcial | Art. 7º, XVI CF; Art. 59 CLT; Súmula 85/TST |\n" +
			"| Insalubridade | Improcedente | Art. 195 CLT |",
	},
	models.SectionGrounds: {
		title: "Fundamentos",
		body:  "- **Art. 59, CLT**: limite e remuneração das horas extras.\n- **Súmula 85/TST**: compensação de jornada.",
	},
	models.SectionCriticalAnalysis: {
		title: "Análise Crítica",
		body:  "Ponto fraco: perícia não requerida oportunamente.",
	},
	models.SectionRecommendations: {
		title: "Recomendações",
		body:  "RO com tese de cerceamento (art. 5º, LV, CF) + prequestionar art. 818 CLT.",
	},
}

var staticCitations = []models.Citation{
	{Source: models.SourceStatute, Identifier: "Art. 59", URL: ptr(cltURL + "#art59")},
	{Source: models.SourceBindingPrecedentSummary, Identifier: "Súmula 85", URL: ptr(tstURL)},
}

const staticRoadmap = "1) RO (art. 5º, LV, CF)\n" +
	"2) Prequestionar art. 818 CLT e 373 CPC\n" +
	"3) RR c/ transcendência se mantida negativa de perícia"

// Static returns fixed content regardless of the case documents.
// It is the default generator and the one used in tests.
type Static struct {
	index NormIndex
}

// NewStatic creates a fixed-response generator searching norms in index.
// A nil index searches DefaultNorms.
func NewStatic(index NormIndex) *Static {
	if index == nil {
		index = NewCatalog(DefaultNorms)
	}
	return &Static{index: index}
}

type jsonSection struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Analyze renders the requested sections in order
func (g *Static) Analyze(ctx context.Context, cc CaseContext, req models.AnalysisRequest) (*Analysis, error) {
	sections := req.Sections
	if len(sections) == 0 {
		sections = models.DefaultSections
	}

	var output string
	if req.Format == models.FormatJSON {
		out := make([]jsonSection, 0, len(sections))
		for _, key := range sections {
			s := staticSections[key]
			out = append(out, jsonSection{Section: key, Title: s.title, Content: s.body})
		}
		b, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		output = string(b)
	} else {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# Análise: %s\n", cc.Case.Title))
		sb.WriteString(fmt.Sprintf("_Documentos analisados: %d_\n\n", len(cc.Documents)))
		for i, key := range sections {
			s := staticSections[key]
			sb.WriteString(fmt.Sprintf("## %d. %s\n%s\n\n", i+1, s.title, s.body))
		}
		output = strings.TrimRight(sb.String(), "\n")
	}

	citations := make([]models.Citation, len(staticCitations))
	copy(citations, staticCitations)
	return &Analysis{Output: output, Citations: citations}, nil
}

// PlanStrategy returns the fixed appeal roadmap, prefixed by the caller's goal, deadline and constraints
func (g *Static) PlanStrategy(ctx context.Context, cc CaseContext, req models.StrategyRequest) (*Strategy, error) {
	var sb strings.Builder
	if req.Goal != nil && *req.Goal != "" {
		sb.WriteString("Objetivo: " + *req.Goal + "\n")
	}
	if req.Deadline != nil && *req.Deadline != "" {
		sb.WriteString("Prazo: " + *req.Deadline + "\n")
	}
	if req.Constraints != nil && *req.Constraints != "" {
		sb.WriteString("Restrições: " + *req.Constraints + "\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(staticRoadmap)

	return &Strategy{
		Roadmap: sb.String(),
		Risks:   []string{"preclusão da perícia"},
		Chances: ptr("média-alta"),
	}, nil
}

// SearchNorms searches the configured index
func (g *Static) SearchNorms(ctx context.Context, req models.NormSearchRequest) ([]models.Citation, error) {
	return g.index.Search(ctx, req.Query, req.Sources, req.MaxResults())
}
