package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/migrations"
	"github.com/kidslabs/catalog/internal/server/repositories/missions"
	"github.com/kidslabs/catalog/internal/server/repositories/seasons"
	"github.com/kidslabs/catalog/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repositories against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Seasons(db dbx.DBTX) seasons.Repository
	Missions(db dbx.DBTX) missions.Repository
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// New returns the RepositoryManager for dialect.
func New(dialect dbx.Dialect) (RepositoryManager, error) {
	switch dialect {
	case dbx.DialectPostgres:
		return &PostgresRepositoryManager{}, nil
	case dbx.DialectSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}
