package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/kidslabs/catalog/internal/filex"
)

// Dialect names the SQL flavour behind a connection. Values match goose
// dialect names.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

const sqliteForeignKeys = "_pragma=foreign_keys(1)"

// ParseDSN resolves a connection string into a database/sql driver name, the
// data source handed to that driver, and the dialect.
//
// SQLite is selected by "sqlite:" (SQLAlchemy style, "sqlite:///rel.db" or
// "sqlite:////abs.db"), "file:" or ":memory:". Everything else goes to pgx.
func ParseDSN(dsn string) (driver, source string, dialect Dialect) {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		rest := strings.TrimPrefix(dsn, "sqlite:")
		switch {
		case strings.HasPrefix(rest, "///"):
			rest = rest[3:]
		case strings.HasPrefix(rest, "//"):
			rest = rest[2:]
		}
		return "sqlite", withForeignKeys(rest), DialectSQLite
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return "sqlite", withForeignKeys(dsn), DialectSQLite
	default:
		return "pgx", dsn, DialectPostgres
	}
}

func withForeignKeys(source string) string {
	if strings.Contains(source, "foreign_keys") {
		return source
	}
	if strings.Contains(source, "?") {
		return source + "&" + sqliteForeignKeys
	}
	return source + "?" + sqliteForeignKeys
}

// ErrDatabaseNotFound is returned by OpenExisting when a file-backed SQLite
// database does not exist yet.
var ErrDatabaseNotFound = errors.New("database not found")

// Open opens a pool for dsn and verifies nothing beyond driver acceptance;
// call PingContext to check connectivity. For file-backed SQLite the parent
// directory is created and the pool is limited to one connection, so callers
// must not use the pool while holding a transaction.
func Open(dsn string) (*sql.DB, Dialect, error) {
	return open(dsn, func(path string) error {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return fmt.Errorf("db dir error: %w", err)
		}
		return nil
	})
}

// OpenExisting is Open for read-only callers: a missing SQLite file yields
// ErrDatabaseNotFound and nothing is created on disk.
func OpenExisting(dsn string) (*sql.DB, Dialect, error) {
	return open(dsn, func(path string) error {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
			}
			return fmt.Errorf("db stat error: %w", err)
		}
		return nil
	})
}

func open(dsn string, prepareFile func(path string) error) (*sql.DB, Dialect, error) {
	driver, source, dialect := ParseDSN(dsn)

	if dialect == DialectSQLite {
		if path := sqlitePath(source); path != "" {
			if err := prepareFile(path); err != nil {
				return nil, "", err
			}
		}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	return db, dialect, nil
}

// sqlitePath returns the filesystem path of a plain SQLite data source, or ""
// for in-memory and URI ("file:") sources.
func sqlitePath(source string) string {
	path, _, _ := strings.Cut(source, "?")
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return ""
	}
	return path
}
