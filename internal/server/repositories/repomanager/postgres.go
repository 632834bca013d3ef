// Package repomanager provides RepositoryManager implementations for
// PostgreSQL and SQLite, wiring together repository constructors and the
// embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/repositories/missions"
	"github.com/kidslabs/catalog/internal/server/repositories/seasons"
	"github.com/kidslabs/catalog/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Seasons returns a seasons.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Seasons(db dbx.DBTX) seasons.Repository {
	return seasons.NewPostgresRepository(db)
}

// Missions returns a missions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Missions(db dbx.DBTX) missions.Repository {
	return missions.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, dbx.DialectPostgres)
}
