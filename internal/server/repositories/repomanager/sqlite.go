package repomanager

import (
	"context"
	"database/sql"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/repositories/missions"
	"github.com/kidslabs/catalog/internal/server/repositories/seasons"
	"github.com/kidslabs/catalog/internal/server/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Seasons(db dbx.DBTX) seasons.Repository {
	return seasons.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Missions(db dbx.DBTX) missions.Repository {
	return missions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, dbx.DialectSQLite)
}
