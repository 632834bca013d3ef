package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/server/services"
	"github.com/labstack/echo/v4"
)

const (
	msgSeasonFieldsRequired = "Número e Título são obrigatórios"
	msgSeasonNotCreated     = "Erro ao criar temporada (verifique se o número já existe)"
	msgSeasonCreated        = "Temporada criada com sucesso!"
	msgSeasonNotFound       = "Temporada não encontrada"
	msgInvalidBody          = "JSON inválido"
	msgInternal             = "Erro interno do servidor"

	healthTimeout = 2 * time.Second
)

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"erro": msg})
}

func (s *Server) internalError(c echo.Context, err error) error {
	loggerFrom(c, s.logger).Error(c.Request().Context(), "request failed", "error", err)
	return errorJSON(c, http.StatusInternalServerError, msgInternal)
}

func (s *Server) protected(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (s *Server) home(c echo.Context) error {
	view, err := s.catalog.GetHome(c.Request().Context(), callerOf(c))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) listSeasons(c echo.Context) error {
	seasons, err := s.catalog.ListSeasons(c.Request().Context())
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, seasons)
}

// createSeasonRequest mirrors the accepted JSON body. Numero is kept raw so
// that numeric strings are accepted like numbers.
type createSeasonRequest struct {
	Numero    json.RawMessage `json:"numero"`
	Titulo    *string         `json:"titulo"`
	Descricao *string         `json:"descricao"`
	Imagem    *string         `json:"imagem"`
}

func (s *Server) createSeason(c echo.Context) error {
	log := loggerFrom(c, s.logger)

	var req createSeasonRequest
	if err := c.Bind(&req); err != nil {
		log.Warn(c.Request().Context(), "invalid season payload", "error", err)
		return errorJSON(c, http.StatusBadRequest, msgInvalidBody)
	}
	numero, err := parseNumero(req.Numero)
	if err != nil {
		log.Warn(c.Request().Context(), "invalid numero", "error", err)
		return errorJSON(c, http.StatusBadRequest, msgSeasonFieldsRequired)
	}

	id, err := s.catalog.CreateSeason(c.Request().Context(), services.CreateSeasonInput{
		Numero:    numero,
		Titulo:    req.Titulo,
		Descricao: req.Descricao,
		Imagem:    req.Imagem,
	})
	switch {
	case err == nil:
		log.Info(c.Request().Context(), "season created", "id", id, "numero", *numero)
		return c.JSON(http.StatusCreated, echo.Map{"mensagem": msgSeasonCreated, "id": id})
	case errors.Is(err, services.ErrSeasonFieldsRequired):
		return errorJSON(c, http.StatusBadRequest, msgSeasonFieldsRequired)
	case errors.Is(err, services.ErrSeasonNotCreated):
		log.Warn(c.Request().Context(), "season not created", "error", err)
		return errorJSON(c, http.StatusBadRequest, msgSeasonNotCreated)
	default:
		return s.internalError(c, err)
	}
}

// parseNumero accepts a JSON integer or a string holding one. Absent, null
// and "" mean no value.
func parseNumero(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
	} else {
		text = string(raw)
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("numero %s is not an integer", raw)
	}
	return &n, nil
}

func (s *Server) listMissions(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusNotFound, msgSeasonNotFound)
	}

	missions, err := s.catalog.ListMissions(c.Request().Context(), callerOf(c), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errorJSON(c, http.StatusNotFound, msgSeasonNotFound)
		}
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, missions)
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		loggerFrom(c, s.logger).Error(ctx, "database ping failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// errorHandler renders errors that escape handlers, such as unknown routes,
// in the same {"erro": ...} shape as handler errors.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := msgInternal
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
	} else {
		loggerFrom(c, s.logger).Error(c.Request().Context(), "unhandled error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = errorJSON(c, code, msg)
	}
	if err != nil {
		loggerFrom(c, s.logger).Error(c.Request().Context(), "error response failed", "error", err)
	}
}
