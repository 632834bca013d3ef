// Package users persists user accounts.
package users

import (
	"context"
	"time"

	"github.com/kidslabs/catalog/internal/server/models"
)

// Repository stores users. Create returns common.ErrorAlreadyExists when the
// email is taken; lookups return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}

// now is a seam for tests.
var now = func() time.Time { return time.Now().UTC() }
