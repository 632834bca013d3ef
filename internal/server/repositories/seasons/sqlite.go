package seasons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, season *models.Season) (*models.Season, error) {
	query := `INSERT INTO seasons (numero, titulo, descricao, imagem) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, season.Numero, season.Titulo, season.Descricao, season.Imagem)
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
	season.ID = id
	return season, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Season, error) {
	query := `SELECT id, numero, titulo, descricao, imagem FROM seasons WHERE id = ?`

	s := &models.Season{}
	if err := scanSeason(r.db.QueryRowContext(ctx, query, id), s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Season, error) {
	query := `SELECT id, numero, titulo, descricao, imagem FROM seasons ORDER BY numero IS NULL, numero, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanSeasons(rows)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seasons`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seasons`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
