// Package relstore runs raw SQL against a relational backend. Two backends
// are supported: a Postgres pool for service deployments and an embedded
// SQLite file so the harness works with no external server.
package relstore

import (
	"context"
	"fmt"
)

// Row is one result row in column order.
type Row []any

// Store executes SQL verbatim. Statements are never rewritten or retried,
// and driver errors pass through untranslated.
type Store interface {
	// Query runs sql and returns all rows. Statements that produce no
	// result set return an empty slice.
	Query(ctx context.Context, sql string) ([]Row, error)
	// Exec runs sql and discards any result.
	Exec(ctx context.Context, sql string) error
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Name identifies the backend ("postgres" or "sqlite").
	Name() string
	// Close releases the backend.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver         string `mapstructure:"driver"`
	URI            string `mapstructure:"uri"`
	SQLitePath     string `mapstructure:"sqlitepath"`
	MigrationsPath string `mapstructure:"migrationspath"`
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenPostgres(ctx, cfg.URI, cfg.MigrationsPath)
	case "sqlite", "":
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown relational driver: %q", cfg.Driver)
	}
}
