package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"iajuridica-backend/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = time.Second
	maxDocumentChars      = 20000
)

const systemInstruction = `Você é um assistente jurídico especializado em Direito do Trabalho brasileiro.
Responda sempre em português e exclusivamente com um objeto JSON válido no formato solicitado.
Cite apenas normas existentes (CLT, Constituição Federal, súmulas e orientações jurisprudenciais do TST).`

// contentModel is the subset of *genai.GenerativeModel used here
type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini generates content with a Gemini model
type Gemini struct {
	model          contentModel
	index          NormIndex
	maxAttempts    int
	initialBackoff time.Duration
	logger         zerolog.Logger
}

// GeminiOption is a functional option for Gemini
type GeminiOption func(*Gemini)

// GeminiWithNormIndex answers norm searches from index instead of the model
func GeminiWithNormIndex(index NormIndex) GeminiOption {
	return func(g *Gemini) {
		g.index = index
	}
}

// GeminiWithRetry sets how many times a transient failure is attempted and the first backoff
func GeminiWithRetry(maxAttempts int, initialBackoff time.Duration) GeminiOption {
	return func(g *Gemini) {
		if maxAttempts > 0 {
			g.maxAttempts = maxAttempts
		}
		g.initialBackoff = initialBackoff
	}
}

// GeminiWithLogger sets the logger
func GeminiWithLogger(logger zerolog.Logger) GeminiOption {
	return func(g *Gemini) {
		g.logger = logger
	}
}

// NewGemini creates a generator backed by the named model
func NewGemini(client *genai.Client, modelName string, opts ...GeminiOption) *Gemini {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}

	return newGemini(model, opts...)
}

func newGemini(model contentModel, opts ...GeminiOption) *Gemini {
	g := &Gemini{
		model:          model,
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type analysisPayload struct {
	Output    string            `json:"output"`
	Citations []models.Citation `json:"citations"`
}

type strategyPayload struct {
	Roadmap string   `json:"roadmap"`
	Risks   []string `json:"risks"`
	Chances string   `json:"chances"`
}

type searchPayload struct {
	Items []models.Citation `json:"items"`
}

// Analyze asks the model for the requested report
func (g *Gemini) Analyze(ctx context.Context, cc CaseContext, req models.AnalysisRequest) (*Analysis, error) {
	var sb strings.Builder
	writeCaseContext(&sb, cc)
	sb.WriteString("\nTAREFA: elabore a análise do caso contendo, nesta ordem, as seções: ")
	sb.WriteString(strings.Join(req.Sections, ", "))
	sb.WriteString(".\n")
	if req.Format == models.FormatJSON {
		sb.WriteString(`O campo "output" deve ser uma string contendo um array JSON de objetos {"section","title","content"}.` + "\n")
	} else {
		sb.WriteString(`O campo "output" deve conter o relatório em Markdown, uma seção "##" por item.` + "\n")
	}
	sb.WriteString(`Responda no formato {"output": string, "citations": [{"source","identifier","excerpt","url"}]}. `)
	sb.WriteString(`Use em "source" um de: statute, constitution, binding_precedent_summary, guiding_opinion.`)

	var payload analysisPayload
	if err := g.generateJSON(ctx, sb.String(), &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Output) == "" {
		return nil, ErrEmptyResponse
	}
	if req.Format == models.FormatJSON {
		var sections []jsonSection
		if err := json.Unmarshal([]byte(payload.Output), &sections); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		if len(sections) == 0 {
			return nil, ErrEmptyResponse
		}
	}
	return &Analysis{
		Output:    payload.Output,
		Citations: filterCitations(payload.Citations, models.DefaultSources),
	}, nil
}

// PlanStrategy asks the model for a litigation roadmap
func (g *Gemini) PlanStrategy(ctx context.Context, cc CaseContext, req models.StrategyRequest) (*Strategy, error) {
	var sb strings.Builder
	writeCaseContext(&sb, cc)
	sb.WriteString("\nTAREFA: proponha a estratégia processual (roteiro de recursos e medidas).\n")
	writeOptional(&sb, "Objetivo", req.Goal)
	writeOptional(&sb, "Prazo", req.Deadline)
	writeOptional(&sb, "Restrições", req.Constraints)
	sb.WriteString(`Responda no formato {"roadmap": string, "risks": [string], "chances": string}.`)

	var payload strategyPayload
	if err := g.generateJSON(ctx, sb.String(), &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Roadmap) == "" {
		return nil, ErrEmptyResponse
	}

	s := &Strategy{Roadmap: payload.Roadmap, Risks: payload.Risks}
	if s.Risks == nil {
		s.Risks = []string{}
	}
	if payload.Chances != "" {
		s.Chances = &payload.Chances
	}
	return s, nil
}

// SearchNorms uses the norm index when configured, the model otherwise
func (g *Gemini) SearchNorms(ctx context.Context, req models.NormSearchRequest) ([]models.Citation, error) {
	if g.index != nil {
		return g.index.Search(ctx, req.Query, req.Sources, req.MaxResults())
	}

	prompt := fmt.Sprintf("TAREFA: pesquise normas aplicáveis à consulta %q.\n"+
		"Fontes permitidas: %s. Retorne no máximo %d itens, do mais relevante ao menos relevante.\n"+
		`Responda no formato {"items": [{"source","identifier","excerpt","url"}]}.`,
		req.Query, strings.Join(req.Sources, ", "), req.MaxResults())

	var payload searchPayload
	if err := g.generateJSON(ctx, prompt, &payload); err != nil {
		return nil, err
	}

	return filterCitations(payload.Items, req.Sources), nil
}

// filterCitations drops model citations from other sources or without an identifier
func filterCitations(citations []models.Citation, sources []string) []models.Citation {
	allowed := make(map[string]bool, len(sources))
	for _, s := range sources {
		allowed[s] = true
	}
	out := make([]models.Citation, 0, len(citations))
	for _, c := range citations {
		if allowed[c.Source] && strings.TrimSpace(c.Identifier) != "" {
			out = append(out, c)
		}
	}
	return out
}

// generateJSON calls the model, retrying transient failures with exponential backoff
func (g *Gemini) generateJSON(ctx context.Context, prompt string, out interface{}) error {
	var lastErr error
	backoff := g.initialBackoff
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			if !isTransient(ctx, err) {
				return fmt.Errorf("gemini request failed: %w", err)
			}
			g.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("transient gemini error")
			continue
		}

		text := responseText(resp)
		if text == "" {
			return ErrEmptyResponse
		}
		if err := json.Unmarshal([]byte(stripFence(text)), out); err != nil {
			return fmt.Errorf("failed to decode gemini response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("gemini request failed after %d attempts: %w", g.maxAttempts, lastErr)
}

func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}
	return true
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		// only the first candidate with content is used
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}

// stripFence removes a ```json fence some models wrap around JSON output
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func writeCaseContext(sb *strings.Builder, cc CaseContext) {
	sb.WriteString("CASO: " + cc.Case.Title + "\n")
	sb.WriteString("MATÉRIA: " + cc.Case.Matter + "\n")
	if cc.Case.Notes != nil && *cc.Case.Notes != "" {
		sb.WriteString("NOTAS: " + *cc.Case.Notes + "\n")
	}
	if len(cc.Documents) == 0 {
		sb.WriteString("DOCUMENTOS: nenhum documento anexado.\n")
		return
	}
	sb.WriteString("DOCUMENTOS:\n")
	for i, d := range cc.Documents {
		name := ""
		if d.Filename != nil {
			name = " (" + *d.Filename + ")"
		}
		sb.WriteString(fmt.Sprintf("--- [%d] %s%s ---\n", i+1, d.Type, name))
		sb.WriteString(documentText(d))
		sb.WriteString("\n")
	}
}

// documentText decodes content per its encoding; non-text payloads are summarized
func documentText(d models.Document) string {
	data, err := d.Decode()
	if err != nil {
		return "[conteúdo ilegível]"
	}
	if !utf8.Valid(data) {
		return fmt.Sprintf("[conteúdo binário omitido, %d bytes]", len(data))
	}
	text := string(data)
	if utf8.RuneCountInString(text) > maxDocumentChars {
		text = string([]rune(text)[:maxDocumentChars]) + "\n[...]"
	}
	return text
}

func writeOptional(sb *strings.Builder, label string, v *string) {
	if v != nil && *v != "" {
		sb.WriteString(label + ": " + *v + "\n")
	}
}
