// Package seasons persists catalog seasons.
package seasons

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kidslabs/catalog/internal/server/models"
)

// Repository stores seasons. Create returns common.ErrorAlreadyExists when
// numero is taken and GetByID returns common.ErrorNotFound for unknown ids.
// List orders by numero with unnumbered seasons last.
type Repository interface {
	Create(ctx context.Context, season *models.Season) (*models.Season, error)
	GetByID(ctx context.Context, id int64) (*models.Season, error)
	List(ctx context.Context) ([]models.Season, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

func scanSeasons(rows *sql.Rows) ([]models.Season, error) {
	defer rows.Close()

	var items []models.Season
	for rows.Next() {
		var s models.Season
		if err := scanSeason(rows, &s); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSeason(row scanner, s *models.Season) error {
	var numero sql.NullInt64
	var titulo, descricao, imagem sql.NullString
	if err := row.Scan(&s.ID, &numero, &titulo, &descricao, &imagem); err != nil {
		return err
	}
	if numero.Valid {
		n := int(numero.Int64)
		s.Numero = &n
	}
	s.Titulo = nullString(titulo)
	s.Descricao = nullString(descricao)
	s.Imagem = nullString(imagem)
	return nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
