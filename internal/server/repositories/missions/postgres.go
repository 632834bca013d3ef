package missions

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) BulkInsert(ctx context.Context, items []models.Mission) error {
	if len(items) == 0 {
		return nil
	}
	query, args := bulkInsertQuery(items, func(n int) string { return "$" + strconv.Itoa(n) })
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListBySeason(ctx context.Context, seasonID int64) ([]models.Mission, error) {
	query :=
		`SELECT ` + missionColumns + ` FROM missoes
		 WHERE season_id = $1
		 ORDER BY numero, id
		 `

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanMissions(rows)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Mission, error) {
	query :=
		`SELECT ` + missionColumns + ` FROM missoes
		 ORDER BY season_id, numero, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanMissions(rows)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM missoes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM missoes`))
}
