// Package migrations embeds the goose migrations, one directory per dialect,
// and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Source returns the goose dialect and migration directory for d.
func Source(d dbx.Dialect) (goose.Dialect, fs.FS, error) {
	var dir string
	var dialect goose.Dialect
	switch d {
	case dbx.DialectPostgres:
		dir, dialect = "postgres", goose.DialectPostgres
	case dbx.DialectSQLite:
		dir, dialect = "sqlite", goose.DialectSQLite3
	default:
		return "", nil, fmt.Errorf("no migrations for dialect %q", d)
	}
	sub, err := fs.Sub(Migrations, dir)
	if err != nil {
		return "", nil, err
	}
	return dialect, sub, nil
}

// Up applies every pending migration for d.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	dialect, fsys, err := Source(d)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
