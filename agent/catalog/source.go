package catalog

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

// Source is the raw data behind the catalog. Lookups by identifier are
// case-insensitive; missing rows are reported as nil, not as errors.
type Source interface {
	ListParts(ctx context.Context, applianceType contractx.ApplianceType) ([]contractx.Part, error)
	FindPart(ctx context.Context, psNumber string) (*contractx.Part, error)
	FindFit(ctx context.Context, modelNumber string, psNumber string) (*contractx.FitRecord, error)
	InstallSteps(ctx context.Context, psNumber string) ([]string, error)
	ListDocs(ctx context.Context) ([]contractx.Doc, error)
}

// MemorySource serves the bundled dataset.
type MemorySource struct {
	parts []contractx.Part
	fits  []contractx.FitRecord
	docs  []contractx.Doc
	steps map[string][]string
}

var _ Source = (*MemorySource)(nil)

func NewMemorySource() *MemorySource {
	return &MemorySource{
		parts: SeedParts(),
		fits:  SeedFits(),
		docs:  SeedDocs(),
		steps: SeedInstallSteps(),
	}
}

func (m *MemorySource) ListParts(ctx context.Context, applianceType contractx.ApplianceType) ([]contractx.Part, error) {
	out := make([]contractx.Part, 0, len(m.parts))
	for _, p := range m.parts {
		if applianceType != contractx.ApplianceUnknown && contractx.ApplianceType(p.ApplianceType) != applianceType {
			continue
		}
		out = append(out, clonePart(p))
	}
	return out, nil
}

func (m *MemorySource) FindPart(ctx context.Context, psNumber string) (*contractx.Part, error) {
	for _, p := range m.parts {
		if strings.EqualFold(p.PsNumber, psNumber) {
			found := clonePart(p)
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemorySource) FindFit(ctx context.Context, modelNumber string, psNumber string) (*contractx.FitRecord, error) {
	for _, f := range m.fits {
		if strings.EqualFold(f.ModelNumber, modelNumber) && strings.EqualFold(f.PsNumber, psNumber) {
			found := f
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemorySource) InstallSteps(ctx context.Context, psNumber string) ([]string, error) {
	steps := m.steps[strings.ToUpper(psNumber)]
	return append([]string{}, steps...), nil
}

func (m *MemorySource) ListDocs(ctx context.Context) ([]contractx.Doc, error) {
	return append([]contractx.Doc(nil), m.docs...), nil
}

func clonePart(p contractx.Part) contractx.Part {
	p.Replaces = append([]string{}, p.Replaces...)
	p.Symptoms = append([]string{}, p.Symptoms...)
	return p
}
