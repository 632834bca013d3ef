// Package server wires the catalog process together: it opens the store,
// applies migrations, builds the services and runs the HTTP API until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/logging"
	"github.com/kidslabs/catalog/internal/server/config"
	"github.com/kidslabs/catalog/internal/server/httpapi"
	"github.com/kidslabs/catalog/internal/server/repositories/repomanager"
	"github.com/kidslabs/catalog/internal/server/services"
)

// Store is an open, migrated database together with its repositories.
type Store struct {
	DB          *sql.DB
	Dialect     dbx.Dialect
	Repomanager repomanager.RepositoryManager
}

// OpenStore connects to dsn, checks connectivity and applies migrations.
// The caller owns the returned DB.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, dialect, err := dbx.Open(dsn)
	if err != nil {
		return nil, err
	}

	st, err := connect(ctx, db, dialect)
	if err != nil {
		return nil, err
	}

	if err := st.Repomanager.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return st, nil
}

// ConnectStore connects to an existing database without touching its schema
// or creating files. A missing SQLite file yields dbx.ErrDatabaseNotFound.
func ConnectStore(ctx context.Context, dsn string) (*Store, error) {
	db, dialect, err := dbx.OpenExisting(dsn)
	if err != nil {
		return nil, err
	}
	return connect(ctx, db, dialect)
}

// connect takes ownership of db and closes it on failure.
func connect(ctx context.Context, db *sql.DB, dialect dbx.Dialect) (*Store, error) {
	rm, err := repomanager.New(dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return &Store{DB: db, Dialect: dialect, Repomanager: rm}, nil
}

// NewLogger builds the configured logger writing to w.
func NewLogger(c *config.Config, w io.Writer) (logging.Logger, error) {
	l, err := logging.New(c.LogBackend, c.LogLevel, w)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	return l, nil
}

type App struct {
	config *config.Config
	logger logging.Logger
	store  *Store
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := NewLogger(c, os.Stdout)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "Database ready", "dialect", string(store.Dialect))

	return &App{config: c, logger: logger, store: store}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	catalog := services.NewCatalogService(
		app.store.DB,
		app.store.Repomanager,
		services.NewMedia(app.config.MediaBaseURL),
	)

	s := httpapi.NewServer(app.config, app.logger, app.store.DB, catalog)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or the process receives SIGINT, SIGTERM
// or SIGQUIT, then releases the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	closeErr := app.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// Close releases the database and flushes buffered logs.
func (app *App) Close() error {
	err := app.store.DB.Close()
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return err
}
