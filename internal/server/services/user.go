package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/cryptox"
	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/models"
	"github.com/kidslabs/catalog/internal/server/repositories/repomanager"
)

var ErrInvalidCredentials = fmt.Errorf("%w: email and password are required", common.ErrorValidation)

// UserService manages stored credentials:
// - Register: create a user with a hashed password
// - Authenticate: check an email/password pair
// - ChangePassword: replace the stored hash
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher}
}

// Register creates a user. A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user when password matches. Unknown emails and
// wrong passwords both yield common.ErrorUnauthorized and cost the same.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword(password, s.dummy())
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// ChangePassword replaces the password of the user registered under email.
func (s *UserService) ChangePassword(ctx context.Context, email, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || newPassword == "" {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		if err := repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		return nil
	})
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		secret, err := common.MakeRandHexString(16)
		if err != nil {
			secret = "unused"
		}
		s.dummyHash, _ = s.hasher.Hash(secret)
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
