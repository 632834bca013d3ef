package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	ts := now()
	err := r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, ts, ts).Scan(&user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.CreatedAt, user.UpdatedAt = ts, ts
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, created_at, updated_at FROM users
		 WHERE id = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, created_at, updated_at FROM users
		 WHERE email = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	query :=
		`UPDATE users SET password_hash = $1, updated_at = $2
		 WHERE id = $3
		 `
	res, err := r.db.ExecContext(ctx, query, passwordHash, now(), id)
	return checkUpdated(res, err)
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func checkUpdated(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
