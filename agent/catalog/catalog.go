// Package catalog implements part search, part details, compatibility checks
// and install steps over a pluggable data Source.
package catalog

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

const (
	maxSearchResults = 4

	exactMatchScore   = 100
	phraseMatchScore  = 8
	symptomMatchScore = 5

	noFitRecordNotes = "No exact compatibility record found in the current dataset. Confirm model and serial before ordering."
)

var (
	tokenRe   = regexp.MustCompile(`[a-z0-9]+`)
	stopWords = map[string]struct{}{
		"a": {}, "an": {}, "and": {}, "are": {}, "can": {}, "for": {}, "how": {}, "i": {},
		"is": {}, "it": {}, "my": {}, "of": {}, "on": {}, "the": {}, "to": {}, "with": {},
	}
)

// Catalog implements contractx.Catalog.
type Catalog struct {
	source Source
}

var _ contractx.Catalog = (*Catalog)(nil)

func New(source Source) (*Catalog, error) {
	if source == nil {
		return nil, errors.New("catalog source is required")
	}
	return &Catalog{source: source}, nil
}

// SearchParts ranks parts of the given appliance type against a free-text
// query: exact identifier hits first, then phrase, token and symptom matches.
// Ties prefer parts in stock.
func (c *Catalog) SearchParts(ctx context.Context, query string, applianceType contractx.ApplianceType) ([]contractx.Part, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return []contractx.Part{}, nil
	}
	queryTokens := Tokenize(query)

	parts, err := c.source.ListParts(ctx, applianceType)
	if err != nil {
		return nil, err
	}

	type scored struct {
		part  contractx.Part
		score int
	}
	ranked := make([]scored, 0, len(parts))
	for _, p := range parts {
		if score := scorePart(p, normalized, queryTokens); score > 0 {
			ranked = append(ranked, scored{part: p, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].part.InStock && !ranked[j].part.InStock
	})

	if len(ranked) > maxSearchResults {
		ranked = ranked[:maxSearchResults]
	}
	out := make([]contractx.Part, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.part)
	}
	return out, nil
}

func scorePart(p contractx.Part, normalizedQuery string, queryTokens []string) int {
	blob := strings.ToLower(strings.Join(append([]string{p.PsNumber, p.PartNumber, p.Name, p.Manufacturer}, p.Symptoms...), " "))

	score := 0
	if strings.ToLower(p.PsNumber) == normalizedQuery || strings.ToLower(p.PartNumber) == normalizedQuery {
		score += exactMatchScore
	}
	if len(normalizedQuery) >= 3 && strings.Contains(blob, normalizedQuery) {
		score += phraseMatchScore
	}
	score += tokenOverlap(queryTokens, blob)
	for _, symptom := range p.Symptoms {
		if strings.Contains(normalizedQuery, strings.ToLower(symptom)) {
			score += symptomMatchScore
		}
	}
	return score
}

// Tokenize lowercases text and keeps alphanumeric tokens longer than one
// character that are not stop words.
func Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) <= 1 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		out = append(out, token)
	}
	return out
}

func tokenOverlap(queryTokens []string, blob string) int {
	if len(queryTokens) == 0 {
		return 0
	}
	present := make(map[string]struct{})
	for _, token := range Tokenize(blob) {
		present[token] = struct{}{}
	}
	score := 0
	for _, token := range queryTokens {
		if _, ok := present[token]; !ok {
			continue
		}
		if len(token) > 4 {
			score += 2
		} else {
			score++
		}
	}
	return score
}

// GetPartDetails returns nil for unknown or blank part numbers.
func (c *Catalog) GetPartDetails(ctx context.Context, psNumber string) (*contractx.Part, error) {
	ps := strings.TrimSpace(psNumber)
	if ps == "" {
		return nil, nil
	}
	return c.source.FindPart(ctx, ps)
}

func (c *Catalog) CheckCompatibility(ctx context.Context, modelNumber string, psNumber string) (contractx.FitResult, error) {
	model := strings.TrimSpace(modelNumber)
	ps := strings.TrimSpace(psNumber)

	var fit *contractx.FitRecord
	if model != "" && ps != "" {
		found, err := c.source.FindFit(ctx, model, ps)
		if err != nil {
			return contractx.FitResult{}, err
		}
		fit = found
	}
	if fit == nil {
		return contractx.FitResult{
			Compatible:    false,
			FitConfidence: contractx.FitLow,
			Notes:         noFitRecordNotes,
		}, nil
	}
	return contractx.FitResult{
		Compatible:    fit.FitConfidence != contractx.FitLow,
		FitConfidence: fit.FitConfidence,
		Notes:         fit.Notes,
	}, nil
}

func (c *Catalog) BuildInstallSteps(ctx context.Context, psNumber string) ([]string, error) {
	ps := strings.TrimSpace(psNumber)
	if ps == "" {
		return []string{}, nil
	}
	steps, err := c.source.InstallSteps(ctx, ps)
	if err != nil {
		return nil, err
	}
	if steps == nil {
		steps = []string{}
	}
	return steps, nil
}

// Docs exposes the source's documents for indexing.
func (c *Catalog) Docs(ctx context.Context) ([]contractx.Doc, error) {
	return c.source.ListDocs(ctx)
}
