// Package services contains server-side business logic: the content catalog
// served over HTTP, user credential management and the seed/verify
// maintenance routines.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/dbx"
	"github.com/kidslabs/catalog/internal/server/auth"
	"github.com/kidslabs/catalog/internal/server/models"
	"github.com/kidslabs/catalog/internal/server/repositories/repomanager"
)

const (
	placeholderSeasons     = 50
	placeholderDescription = "Missões lúdicas de IA para kids"
	placeholderImage       = "https://example.com/img.png"
)

var (
	ErrSeasonFieldsRequired = fmt.Errorf("%w: numero and titulo are required", common.ErrorValidation)
	ErrSeasonNotCreated     = fmt.Errorf("%w: season not created", common.ErrorValidation)
	ErrSeasonNotFound       = fmt.Errorf("season %w", common.ErrorNotFound)
)

// CreateSeasonInput is the payload of CreateSeason. Numero and Titulo must be
// present and non-zero.
type CreateSeasonInput struct {
	Numero    *int
	Titulo    *string
	Descricao *string
	Imagem    *string
}

// CatalogService serves seasons and missions. Mission content is locked for
// anonymous callers and unlocked for any authenticated one.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       Media
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, media Media) *CatalogService {
	return &CatalogService{db: db, repomanager: m, media: media}
}

// GetHome returns every season ordered by numero with its missions as cards.
func (s *CatalogService) GetHome(ctx context.Context, caller auth.Caller) (*HomeView, error) {
	seasonList, err := s.repomanager.Seasons(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing seasons: %w", err)
	}
	missionList, err := s.repomanager.Missions(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing missions: %w", err)
	}

	bySeason := make(map[int64][]models.Mission, len(seasonList))
	for _, m := range missionList {
		bySeason[m.SeasonID] = append(bySeason[m.SeasonID], m)
	}

	locked := isLocked(caller)
	view := &HomeView{Rows: make([]HomeSeason, 0, len(seasonList))}
	for _, season := range seasonList {
		row := HomeSeason{
			ID:        season.ID,
			Numero:    season.Numero,
			Titulo:    season.Titulo,
			Descricao: season.Descricao,
			Imagem:    season.Imagem,
			Cards:     make([]MissionCard, 0, len(bySeason[season.ID])),
		}
		for _, m := range bySeason[season.ID] {
			row.Cards = append(row.Cards, MissionCard{
				ID:      m.ID,
				Numero:  m.Numero,
				Titulo:  m.Titulo,
				Thumb:   s.media.Thumb(season.Numero, m.Numero),
				Preview: s.media.Preview(season.Numero, m.Numero),
				Locked:  locked,
			})
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}

// ListSeasons returns the persisted seasons ordered by numero, or 50
// placeholder seasons when nothing is stored yet.
func (s *CatalogService) ListSeasons(ctx context.Context) ([]SeasonView, error) {
	seasonList, err := s.repomanager.Seasons(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing seasons: %w", err)
	}
	if len(seasonList) == 0 {
		return placeholderSeasonViews(), nil
	}

	views := make([]SeasonView, 0, len(seasonList))
	for _, season := range seasonList {
		image := s.media.Cover(season.Numero)
		if season.Imagem != nil && *season.Imagem != "" {
			image = *season.Imagem
		}
		views = append(views, SeasonView{
			ID:          season.ID,
			Numero:      season.Numero,
			Title:       season.Titulo,
			Titulo:      season.Titulo,
			Description: season.Descricao,
			Descricao:   season.Descricao,
			Image:       image,
			Imagem:      image,
		})
	}
	return views, nil
}

func placeholderSeasonViews() []SeasonView {
	views := make([]SeasonView, placeholderSeasons)
	description := placeholderDescription
	for i := range views {
		n := i + 1
		title := fmt.Sprintf("Temporada %d", n)
		views[i] = SeasonView{
			ID:          int64(n),
			Numero:      &n,
			Title:       &title,
			Titulo:      &title,
			Description: &description,
			Descricao:   &description,
			Image:       placeholderImage,
			Imagem:      placeholderImage,
		}
	}
	return views
}

// CreateSeason validates in and persists a new season in its own
// transaction. Any write failure, including a duplicate numero, is reported
// as ErrSeasonNotCreated after the transaction has rolled back.
func (s *CatalogService) CreateSeason(ctx context.Context, in CreateSeasonInput) (int64, error) {
	if in.Numero == nil || *in.Numero == 0 || in.Titulo == nil || *in.Titulo == "" {
		return 0, ErrSeasonFieldsRequired
	}

	season := &models.Season{
		Numero:    in.Numero,
		Titulo:    in.Titulo,
		Descricao: in.Descricao,
		Imagem:    in.Imagem,
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Seasons(tx).Create(ctx, season)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSeasonNotCreated, err)
	}
	return season.ID, nil
}

// ListMissions returns the missions of seasonID ordered by numero, or
// ErrSeasonNotFound when the season does not exist.
func (s *CatalogService) ListMissions(ctx context.Context, caller auth.Caller, seasonID int64) ([]MissionView, error) {
	if _, err := s.repomanager.Seasons(s.db).GetByID(ctx, seasonID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("error loading season: %w", err)
	}

	missionList, err := s.repomanager.Missions(s.db).ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("error listing missions: %w", err)
	}

	locked := isLocked(caller)
	views := make([]MissionView, 0, len(missionList))
	for _, m := range missionList {
		views = append(views, MissionView{
			ID:            m.ID,
			SeasonID:      m.SeasonID,
			Numero:        m.Numero,
			Titulo:        m.Titulo,
			VideoURL:      m.VideoURL,
			ConteudoApoio: m.ConteudoApoio,
			Locked:        locked,
		})
	}
	return views, nil
}

// isLocked applies the access rule: content is open to any authenticated
// caller. Plan or entitlement checks would go here.
func isLocked(caller auth.Caller) bool {
	return !caller.IsAuthenticated()
}
