package generator

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"iajuridica-backend/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Catalog is an in-memory NormIndex ranked by how many query terms an entry contains
type Catalog struct {
	entries []catalogEntry
}

type catalogEntry struct {
	citation models.Citation
	text     string
}

// NewCatalog indexes the given citations. Entry order breaks ranking ties.
func NewCatalog(citations []models.Citation) *Catalog {
	c := &Catalog{entries: make([]catalogEntry, 0, len(citations))}
	for _, cit := range citations {
		text := cit.Identifier
		if cit.Excerpt != nil {
			text += " " + *cit.Excerpt
		}
		c.entries = append(c.entries, catalogEntry{citation: cit, text: fold(text)})
	}
	return c
}

// Search returns at most limit entries from sources matching at least one query term
func (c *Catalog) Search(ctx context.Context, query string, sources []string, limit int) ([]models.Citation, error) {
	terms := strings.FieldsFunc(fold(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	allowed := make(map[string]bool, len(sources))
	for _, s := range sources {
		allowed[s] = true
	}

	type hit struct {
		citation models.Citation
		score    int
	}
	hits := make([]hit, 0)
	for _, e := range c.entries {
		if !allowed[e.citation.Source] {
			continue
		}
		score := 0
		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			if seen[term] || len(term) < 2 {
				continue
			}
			seen[term] = true
			if strings.Contains(e.text, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{citation: e.citation, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if limit >= 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]models.Citation, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.citation)
	}
	return out, nil
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases s and strips diacritics so "Equiparação" matches "equiparacao"
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func ptr(s string) *string { return &s }

const (
	cltURL = "https://www.planalto.gov.br/ccivil_03/decreto-lei/del5452.htm"
	cfURL  = "https://www.planalto.gov.br/ccivil_03/constituicao/constituicao.htm"
	tstURL = "https://www.tst.jus.br/jurisprudencia/sumulas"
)

// DefaultNorms seeds the catalog with the labor-law sources the static generator cites
var DefaultNorms = []models.Citation{
	{Source: models.SourceStatute, Identifier: "CLT Art. 461", Excerpt: ptr("Sendo idêntica a função, a todo trabalho de igual valor corresponderá igual salário (equiparação salarial)."), URL: ptr(cltURL + "#art461")},
	{Source: models.SourceBindingPrecedentSummary, Identifier: "Súmula 6/TST", Excerpt: ptr("Equiparação salarial. Requisitos e ônus da prova do fato impeditivo, modificativo ou extintivo."), URL: ptr(tstURL)},
	{Source: models.SourceStatute, Identifier: "CLT Art. 59", Excerpt: ptr("A duração diária do trabalho poderá ser acrescida de horas extras, em número não excedente de duas."), URL: ptr(cltURL + "#art59")},
	{Source: models.SourceBindingPrecedentSummary, Identifier: "Súmula 85/TST", Excerpt: ptr("Compensação de jornada. Acordo individual escrito e pagamento das horas extras habituais."), URL: ptr(tstURL)},
	{Source: models.SourceStatute, Identifier: "CLT Art. 195", Excerpt: ptr("A caracterização e a classificação da insalubridade e da periculosidade far-se-ão através de perícia."), URL: ptr(cltURL + "#art195")},
	{Source: models.SourceStatute, Identifier: "CLT Art. 818", Excerpt: ptr("O ônus da prova incumbe ao reclamante quanto ao fato constitutivo de seu direito."), URL: ptr(cltURL + "#art818")},
	{Source: models.SourceConstitution, Identifier: "CF Art. 7º, XVI", Excerpt: ptr("Remuneração do serviço extraordinário superior, no mínimo, em cinquenta por cento à do normal (horas extras)."), URL: ptr(cfURL + "#art7")},
	{Source: models.SourceConstitution, Identifier: "CF Art. 5º, LV", Excerpt: ptr("Aos litigantes são assegurados o contraditório e ampla defesa; cerceamento de defesa."), URL: ptr(cfURL + "#art5")},
	{Source: models.SourceGuidingOpinion, Identifier: "OJ 415 SBDI-1/TST", Excerpt: ptr("Horas extras. Dedução dos valores comprovadamente pagos pelo total apurado no período.")},
}
