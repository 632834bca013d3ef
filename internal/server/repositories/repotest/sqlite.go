// Package repotest provides database fixtures for repository and service
// tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/migrations"
)

// OpenSQLite returns a migrated in-memory SQLite database that is closed when
// the test ends. The pool holds a single connection, so each call gets an
// isolated schema.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()
	db, dialect, err := dbx.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Up(context.Background(), db, dialect); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// Count returns the number of rows in table.
func Count(t testing.TB, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
