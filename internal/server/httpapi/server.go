// Package httpapi exposes the catalog over HTTP JSON using echo.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/logging"
	"github.com/kidslabs/catalog/internal/server/auth"
	"github.com/kidslabs/catalog/internal/server/config"
	"github.com/kidslabs/catalog/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Catalog is the content service behind the HTTP routes.
type Catalog interface {
	GetHome(ctx context.Context, caller auth.Caller) (*services.HomeView, error)
	ListSeasons(ctx context.Context) ([]services.SeasonView, error)
	CreateSeason(ctx context.Context, in services.CreateSeasonInput) (int64, error)
	ListMissions(ctx context.Context, caller auth.Caller, seasonID int64) ([]services.MissionView, error)
}

// Pinger reports storage reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address         string
	routePrefix     string
	shutdownTimeout time.Duration
	logger          logging.Logger
	echo            *echo.Echo
	catalog         Catalog
	resolver        *auth.Resolver
	db              Pinger
	metrics         *metrics
}

func NewServer(cfg *config.Config, l logging.Logger, db Pinger, catalog Catalog) *Server {
	s := &Server{
		address:         cfg.HTTPAddr,
		routePrefix:     normalizePrefix(cfg.RoutePrefix),
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          l.With("module", "http_server"),
		catalog:         catalog,
		resolver:        auth.NewResolver([]byte(cfg.SecretKey)),
		db:              db,
	}
	if cfg.MetricsEnabled {
		s.metrics = newMetrics()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(s.requestID)
	e.Use(s.requestLogger)
	if s.metrics != nil {
		e.Use(s.metrics.middleware)
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, common.AuthorizationHeaderName},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s.echo = e
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Addr returns the bound listener address once Run has started listening.
func (s *Server) Addr() net.Addr { return s.echo.ListenerAddr() }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address, "route_prefix", s.routePrefix)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}

func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
