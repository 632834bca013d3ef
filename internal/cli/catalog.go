package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server"
	"github.com/kidslabs/catalog/internal/server/services"
)

func (a *App) bootstrap(st *server.Store) *services.BootstrapService {
	return services.NewBootstrapService(st.DB, st.Repomanager, services.NewMedia(a.config.MediaBaseURL))
}

func (a *App) seed(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	return a.withStore(ctx, openStore, func(st *server.Store) error {
		res, err := a.bootstrap(st).Seed(ctx)
		if err != nil {
			return err
		}

		a.logger.Info(ctx, "catalog seeded",
			"seasons", res.Seasons, "missions", res.Missions,
			"deleted_seasons", res.DeletedSeasons, "deleted_missions", res.DeletedMissions)

		fmt.Fprintf(a.out, "Removed %d seasons and %d missions\n", res.DeletedSeasons, res.DeletedMissions)
		fmt.Fprintf(a.out, "Seeded %d seasons and %d missions\n", res.Seasons, res.Missions)
		return nil
	})
}

func (a *App) verify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	verbose := fs.Bool("v", false, "list the stored seasons")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	// verify is read-only: it never creates the database or migrates it
	err := a.withStore(ctx, connectStore, func(st *server.Store) error {
		b := a.bootstrap(st)
		r, err := b.Verify(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "Seasons:  %d (expected %d)\n", r.Seasons, r.ExpectedSeasons)
		fmt.Fprintf(a.out, "Missions: %d (expected %d)\n", r.Missions, r.ExpectedMissions)

		if *verbose {
			list, err := b.StoredSeasons(ctx)
			if err != nil {
				return err
			}
			for _, season := range list {
				fmt.Fprintf(a.out, "ID: %d, Title: %s\n", season.ID, deref(season.Titulo))
			}
		}

		if !r.OK() {
			fmt.Fprintln(a.out, "FAIL")
			return errVerifyMismatch
		}
		fmt.Fprintln(a.out, "OK")
		return nil
	})
	if errors.Is(err, dbx.ErrDatabaseNotFound) {
		fmt.Fprintf(a.out, "%v\nFAIL\n", err)
		return errVerifyMismatch
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
