// Package missions persists the missions of each season in the missoes table.
package missions

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kidslabs/catalog/internal/server/models"
)

// Repository stores missions. Lists are ordered by numero within a season.
// Missions are only written in batches: BulkInsert writes every mission in a
// single statement.
type Repository interface {
	BulkInsert(ctx context.Context, items []models.Mission) error
	ListBySeason(ctx context.Context, seasonID int64) ([]models.Mission, error)
	ListAll(ctx context.Context) ([]models.Mission, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

const missionColumns = `id, season_id, numero, titulo, video_url, conteudo_apoio`

// bulkInsertQuery builds a multi-row INSERT with one placeholder group per
// mission. placeholder renders the n-th (1-based) bind parameter.
func bulkInsertQuery(items []models.Mission, placeholder func(n int) string) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO missoes (season_id, numero, titulo, video_url, conteudo_apoio) VALUES `)

	args := make([]any, 0, len(items)*5)
	for i, m := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := 0; j < 5; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(placeholder(len(args) + j + 1))
		}
		b.WriteString(")")
		args = append(args, m.SeasonID, m.Numero, m.Titulo, m.VideoURL, m.ConteudoApoio)
	}
	return b.String(), args
}

func scanMissions(rows *sql.Rows) ([]models.Mission, error) {
	defer rows.Close()

	var items []models.Mission
	for rows.Next() {
		var m models.Mission
		var videoURL, conteudo sql.NullString
		if err := rows.Scan(&m.ID, &m.SeasonID, &m.Numero, &m.Titulo, &videoURL, &conteudo); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		if videoURL.Valid {
			m.VideoURL = &videoURL.String
		}
		if conteudo.Valid {
			m.ConteudoApoio = &conteudo.String
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
