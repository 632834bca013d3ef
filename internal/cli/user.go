package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/cryptox"
	"github.com/kidslabs/catalog/internal/server"
	"github.com/kidslabs/catalog/internal/server/services"
)

func (a *App) users(st *server.Store) *services.UserService {
	hasher := cryptox.NewPasswordHasher(a.config.PasswordIterations, a.config.PasswordSaltLength)
	return services.NewUserService(st.DB, st.Repomanager, hasher)
}

// user dispatches "user <action> <email>".
func (a *App) user(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	action, email := args[0], args[1]

	switch action {
	case "add":
		return a.userAdd(ctx, email)
	case "passwd":
		return a.userPasswd(ctx, email)
	case "check":
		return a.userCheck(ctx, email)
	default:
		fmt.Fprintf(a.errOut, "unknown user action %q\n\n", action)
		return errUsage
	}
}

func (a *App) userAdd(ctx context.Context, email string) error {
	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.withStore(ctx, openStore, func(st *server.Store) error {
		u, err := a.users(st).Register(ctx, email, string(password))
		if err != nil {
			return err
		}
		a.logger.Info(ctx, "user registered", "user_id", u.ID)
		fmt.Fprintf(a.out, "Created user %d (%s)\n", u.ID, u.Email)
		return nil
	})
}

func (a *App) userPasswd(ctx context.Context, email string) error {
	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.withStore(ctx, openStore, func(st *server.Store) error {
		if err := a.users(st).ChangePassword(ctx, email, string(password)); err != nil {
			return err
		}
		a.logger.Info(ctx, "password changed", "email", email)
		fmt.Fprintln(a.out, "Password updated")
		return nil
	})
}

func (a *App) userCheck(ctx context.Context, email string) error {
	password, err := GetPassword(a.out, "Password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.withStore(ctx, openStore, func(st *server.Store) error {
		u, err := a.users(st).Authenticate(ctx, email, string(password))
		if errors.Is(err, common.ErrorUnauthorized) {
			fmt.Fprintln(a.out, "Invalid credentials")
			return errCheckFailed
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Credentials OK for user %d\n", u.ID)
		return nil
	})
}
