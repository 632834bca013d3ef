package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/models"
	"github.com/kidslabs/catalog/internal/server/repositories/repomanager"
)

const (
	SeedSeasons       = 50
	MissionsPerSeason = 10
	videoBaseURL      = "https://videos.kidslabs.com"
)

// SeedResult counts the rows purged and written by Seed.
type SeedResult struct {
	DeletedSeasons  int64
	DeletedMissions int64
	Seasons         int
	Missions        int
}

// Report is the outcome of Verify.
type Report struct {
	Seasons          int
	Missions         int
	ExpectedSeasons  int
	ExpectedMissions int
}

// OK reports whether the stored counts match the seeded dataset.
func (r Report) OK() bool {
	return r.Seasons == r.ExpectedSeasons && r.Missions == r.ExpectedMissions
}

// BootstrapService seeds and verifies the catalog dataset. It is used by the
// maintenance CLI, never on the request path. Concurrent Seed runs against the
// same database are not coordinated.
type BootstrapService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       Media
}

func NewBootstrapService(db *sql.DB, m repomanager.RepositoryManager, media Media) *BootstrapService {
	return &BootstrapService{db: db, repomanager: m, media: media}
}

// Seed ensures the schema exists, then replaces the catalog with 50 seasons
// of 10 missions each. Purge and inserts share one transaction; on any error
// nothing from this run is kept and the previous data survives.
func (s *BootstrapService) Seed(ctx context.Context) (*SeedResult, error) {
	if err := s.repomanager.RunMigrations(ctx, s.db); err != nil {
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	res := &SeedResult{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		seasonsRepo := s.repomanager.Seasons(tx)
		missionsRepo := s.repomanager.Missions(tx)

		var err error
		// missions reference seasons, so they go first
		if res.DeletedMissions, err = missionsRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error purging missions: %w", err)
		}
		if res.DeletedSeasons, err = seasonsRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error purging seasons: %w", err)
		}

		for t := 1; t <= SeedSeasons; t++ {
			season, err := seasonsRepo.Create(ctx, seedSeason(t, s.media))
			if err != nil {
				return fmt.Errorf("error creating season %d: %w", t, err)
			}
			if err := missionsRepo.BulkInsert(ctx, seedMissions(season.ID, t)); err != nil {
				return fmt.Errorf("error creating missions of season %d: %w", t, err)
			}
			res.Seasons++
			res.Missions += MissionsPerSeason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Verify counts the stored seasons and missions. It never writes.
func (s *BootstrapService) Verify(ctx context.Context) (*Report, error) {
	seasonCount, err := s.repomanager.Seasons(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting seasons: %w", err)
	}
	missionCount, err := s.repomanager.Missions(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting missions: %w", err)
	}
	return &Report{
		Seasons:          seasonCount,
		Missions:         missionCount,
		ExpectedSeasons:  SeedSeasons,
		ExpectedMissions: SeedSeasons * MissionsPerSeason,
	}, nil
}

// StoredSeasons lists the persisted seasons ordered by numero. Unlike the
// catalog listing it never substitutes placeholders.
func (s *BootstrapService) StoredSeasons(ctx context.Context) ([]models.Season, error) {
	list, err := s.repomanager.Seasons(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing seasons: %w", err)
	}
	return list, nil
}

func seedSeason(t int, media Media) *models.Season {
	numero := t
	titulo := fmt.Sprintf("Temporada %d", t)
	descricao := fmt.Sprintf("Aprendizados de IA – Temporada %d", t)
	imagem := media.Cover(&numero)
	return &models.Season{Numero: &numero, Titulo: &titulo, Descricao: &descricao, Imagem: &imagem}
}

func seedMissions(seasonID int64, t int) []models.Mission {
	items := make([]models.Mission, MissionsPerSeason)
	for i := range items {
		m := i + 1
		videoURL := fmt.Sprintf("%s/t%dm%d", videoBaseURL, t, m)
		apoio := fmt.Sprintf("Conteúdo educativo da missão %d", m)
		items[i] = models.Mission{
			SeasonID:      seasonID,
			Numero:        m,
			Titulo:        fmt.Sprintf("Missão %d", m),
			VideoURL:      &videoURL,
			ConteudoApoio: &apoio,
		}
	}
	return items
}
