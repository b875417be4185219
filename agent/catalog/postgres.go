package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

type partRow struct {
	bun.BaseModel `bun:"table:parts,alias:p"`

	ID            string   `bun:"id,pk"`
	PsNumber      string   `bun:"ps_number,notnull,unique"`
	PartNumber    string   `bun:"part_number,notnull"`
	Name          string   `bun:"name,notnull"`
	ApplianceType string   `bun:"appliance_type,notnull"`
	Manufacturer  string   `bun:"manufacturer,notnull"`
	Replaces      []string `bun:"replaces,array"`
	Symptoms      []string `bun:"symptoms,array"`
	Price         float64  `bun:"price,notnull"`
	InStock       bool     `bun:"in_stock,notnull"`
	ShippingEta   string   `bun:"shipping_eta"`
}

type fitRow struct {
	bun.BaseModel `bun:"table:model_part_fits,alias:f"`

	ModelNumber   string `bun:"model_number,pk"`
	PsNumber      string `bun:"ps_number,pk"`
	FitConfidence string `bun:"fit_confidence,notnull"`
	Notes         string `bun:"notes"`
}

type installStepRow struct {
	bun.BaseModel `bun:"table:install_steps,alias:s"`

	PsNumber string `bun:"ps_number,pk"`
	Position int    `bun:"position,pk"`
	Step     string `bun:"step,notnull"`
}

type docRow struct {
	bun.BaseModel `bun:"table:docs,alias:d"`

	ID            string `bun:"id,pk"`
	ApplianceType string `bun:"appliance_type,notnull"`
	Brand         string `bun:"brand"`
	PartNumber    string `bun:"part_number,nullzero"`
	DocType       string `bun:"doc_type,notnull"`
	Title         string `bun:"title,notnull"`
	URL           string `bun:"url,notnull"`
	Content       string `bun:"content,notnull"`
	UpdatedAt     string `bun:"updated_at,notnull"`
}

// PostgresSource reads the catalog from Postgres through bun.
type PostgresSource struct {
	db *bun.DB
}

var _ Source = (*PostgresSource)(nil)

// OpenPostgres connects with pgdriver, creates the schema when missing and,
// when seed is set, inserts the bundled dataset without overwriting rows.
func OpenPostgres(ctx context.Context, dsn string, seed bool) (*PostgresSource, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("catalog dsn is required for the postgres driver")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	src := NewPostgresSource(bun.NewDB(sqldb, pgdialect.New()))

	if err := src.Migrate(ctx); err != nil {
		_ = src.Close()
		return nil, err
	}
	if seed {
		if err := src.Seed(ctx); err != nil {
			_ = src.Close()
			return nil, err
		}
	}
	return src, nil
}

func NewPostgresSource(db *bun.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}

func (s *PostgresSource) Migrate(ctx context.Context) error {
	models := []any{(*partRow)(nil), (*fitRow)(nil), (*installStepRow)(nil), (*docRow)(nil)}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("%w: create table: %v", contractx.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *PostgresSource) Seed(ctx context.Context) error {
	parts := make([]partRow, 0, len(SeedParts()))
	for _, p := range SeedParts() {
		parts = append(parts, toPartRow(p))
	}
	fits := make([]fitRow, 0, len(SeedFits()))
	for _, f := range SeedFits() {
		fits = append(fits, fitRow{ModelNumber: f.ModelNumber, PsNumber: f.PsNumber, FitConfidence: string(f.FitConfidence), Notes: f.Notes})
	}
	var steps []installStepRow
	for _, p := range SeedParts() {
		for i, step := range SeedInstallSteps()[p.PsNumber] {
			steps = append(steps, installStepRow{PsNumber: p.PsNumber, Position: i + 1, Step: step})
		}
	}
	docs := make([]docRow, 0, len(SeedDocs()))
	for _, d := range SeedDocs() {
		docs = append(docs, docRow{
			ID: d.ID, ApplianceType: d.ApplianceType, Brand: d.Brand, PartNumber: d.PartNumber,
			DocType: d.DocType, Title: d.Title, URL: d.URL, Content: d.Content, UpdatedAt: d.UpdatedAt,
		})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&parts).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed parts: %w", err)
		}
		if _, err := tx.NewInsert().Model(&fits).On("CONFLICT (model_number, ps_number) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed fits: %w", err)
		}
		if _, err := tx.NewInsert().Model(&steps).On("CONFLICT (ps_number, position) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed install steps: %w", err)
		}
		if _, err := tx.NewInsert().Model(&docs).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed docs: %w", err)
		}
		log.Info().Int("parts", len(parts)).Int("docs", len(docs)).Msg("catalog seed applied")
		return nil
	})
}

func (s *PostgresSource) ListParts(ctx context.Context, applianceType contractx.ApplianceType) ([]contractx.Part, error) {
	var rows []partRow
	q := s.db.NewSelect().Model(&rows).OrderExpr("p.id ASC")
	if applianceType != contractx.ApplianceUnknown {
		q = q.Where("p.appliance_type = ?", string(applianceType))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list parts: %v", contractx.ErrStoreUnavailable, err)
	}
	out := make([]contractx.Part, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toPart())
	}
	return out, nil
}

func (s *PostgresSource) FindPart(ctx context.Context, psNumber string) (*contractx.Part, error) {
	var row partRow
	err := s.db.NewSelect().Model(&row).
		Where("LOWER(p.ps_number) = ?", strings.ToLower(psNumber)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find part: %v", contractx.ErrStoreUnavailable, err)
	}
	part := row.toPart()
	return &part, nil
}

func (s *PostgresSource) FindFit(ctx context.Context, modelNumber string, psNumber string) (*contractx.FitRecord, error) {
	var row fitRow
	err := s.db.NewSelect().Model(&row).
		Where("LOWER(f.model_number) = ?", strings.ToLower(modelNumber)).
		Where("LOWER(f.ps_number) = ?", strings.ToLower(psNumber)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find fit: %v", contractx.ErrStoreUnavailable, err)
	}
	return &contractx.FitRecord{
		ModelNumber:   row.ModelNumber,
		PsNumber:      row.PsNumber,
		FitConfidence: contractx.FitConfidence(row.FitConfidence),
		Notes:         row.Notes,
	}, nil
}

func (s *PostgresSource) InstallSteps(ctx context.Context, psNumber string) ([]string, error) {
	var rows []installStepRow
	err := s.db.NewSelect().Model(&rows).
		Where("LOWER(s.ps_number) = ?", strings.ToLower(psNumber)).
		OrderExpr("s.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: install steps: %v", contractx.ErrStoreUnavailable, err)
	}
	steps := make([]string, 0, len(rows))
	for _, row := range rows {
		steps = append(steps, row.Step)
	}
	return steps, nil
}

func (s *PostgresSource) ListDocs(ctx context.Context) ([]contractx.Doc, error) {
	var rows []docRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("d.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("%w: list docs: %v", contractx.ErrStoreUnavailable, err)
	}
	docs := make([]contractx.Doc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, contractx.Doc{
			ID: row.ID, ApplianceType: row.ApplianceType, Brand: row.Brand, PartNumber: row.PartNumber,
			DocType: row.DocType, Title: row.Title, URL: row.URL, Content: row.Content, UpdatedAt: row.UpdatedAt,
		})
	}
	return docs, nil
}

func toPartRow(p contractx.Part) partRow {
	return partRow{
		ID:            p.ID,
		PsNumber:      p.PsNumber,
		PartNumber:    p.PartNumber,
		Name:          p.Name,
		ApplianceType: p.ApplianceType,
		Manufacturer:  p.Manufacturer,
		Replaces:      p.Replaces,
		Symptoms:      p.Symptoms,
		Price:         p.Price,
		InStock:       p.InStock,
		ShippingEta:   p.ShippingEta,
	}
}

func (r partRow) toPart() contractx.Part {
	return clonePart(contractx.Part{
		ID:            r.ID,
		PsNumber:      r.PsNumber,
		PartNumber:    r.PartNumber,
		Name:          r.Name,
		ApplianceType: r.ApplianceType,
		Manufacturer:  r.Manufacturer,
		Replaces:      r.Replaces,
		Symptoms:      r.Symptoms,
		Price:         r.Price,
		InStock:       r.InStock,
		ShippingEta:   r.ShippingEta,
	})
}
