package catalog

import (
	"context"
	"fmt"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver string `split_words:"true" default:"memory"`
	DSN    string `envconfig:"DSN"`
	Seed   bool   `split_words:"true" default:"true"`
}

// Open builds the catalog for the configured driver. The returned closer
// releases the database handle, if any.
func Open(ctx context.Context, cfg Config) (*Catalog, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		c, err := New(NewMemorySource())
		return c, func() error { return nil }, err
	case DriverPostgres:
		source, err := OpenPostgres(ctx, cfg.DSN, cfg.Seed)
		if err != nil {
			return nil, nil, err
		}
		c, err := New(source)
		if err != nil {
			_ = source.Close()
			return nil, nil, err
		}
		return c, source.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported catalog driver=%q", cfg.Driver)
	}
}
