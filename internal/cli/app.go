// Package cli implements the catalog maintenance commands: seeding and
// verifying the dataset and managing user accounts.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kidslabs/catalog/internal/logging"
	"github.com/kidslabs/catalog/internal/server"
	"github.com/kidslabs/catalog/internal/server/config"
)

// Process exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	errUsage          = errors.New("usage")
	errVerifyMismatch = errors.New("catalog does not match the seeded dataset")
	errCheckFailed    = errors.New("invalid credentials")
)

// openStore migrates the schema before use; connectStore leaves the database
// exactly as it finds it.
var (
	openStore    = server.OpenStore
	connectStore = server.ConnectStore
)

const usage = `Usage: catalog-cli [flags] <command> [args]

Commands:
  seed                  replace the catalog with the seeded dataset
  verify [-v]           check the stored season and mission counts;
                        -v also lists every stored season
  user add <email>      register a user
  user passwd <email>   change the password of a user
  user check <email>    verify the credentials of a user
  help                  show this message
`

// App runs maintenance commands against the configured database.
type App struct {
	config *config.Config
	logger logging.Logger
	out    io.Writer
	errOut io.Writer
}

// NewApp builds an App that prints results to out and diagnostics to errOut.
func NewApp(cfg *config.Config, out, errOut io.Writer) (*App, error) {
	l, err := server.NewLogger(cfg, errOut)
	if err != nil {
		return nil, err
	}
	return &App{config: cfg, logger: l, out: out, errOut: errOut}, nil
}

// Run executes the command named by args[0] and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage)
		return ExitUsage
	}

	var err error
	switch args[0] {
	case "seed":
		err = a.seed(ctx, args[1:])
	case "verify":
		err = a.verify(ctx, args[1:])
	case "user":
		err = a.user(ctx, args[1:])
	case "help", "-h", "-help", "--help":
		fmt.Fprint(a.out, usage)
		return ExitOK
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n", args[0])
		err = errUsage
	}

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage):
		fmt.Fprint(a.errOut, usage)
		return ExitUsage
	case errors.Is(err, errVerifyMismatch), errors.Is(err, errCheckFailed):
		return ExitFailure
	default:
		a.logger.Error(ctx, "command failed", "command", args[0], "error", err)
		fmt.Fprintf(a.errOut, "error: %v\n", err)
		return ExitFailure
	}
}

// withStore opens the database with open for the duration of fn.
func (a *App) withStore(ctx context.Context, open func(context.Context, string) (*server.Store, error), fn func(st *server.Store) error) error {
	st, err := open(ctx, a.config.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.DB.Close(); err != nil {
			a.logger.Warn(ctx, "error closing database", "error", err)
		}
	}()
	return fn(st)
}
