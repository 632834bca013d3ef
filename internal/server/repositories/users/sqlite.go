package users

import (
	"context"
	"fmt"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?)`

	ts := now()
	res, err := r.db.ExecContext(ctx, query, user.Email, user.PasswordHash, ts, ts)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	user.CreatedAt, user.UpdatedAt = ts, ts
	return user, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, passwordHash, now(), id)
	return checkUpdated(res, err)
}
