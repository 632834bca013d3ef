package httpapi

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// router is implemented by both *echo.Echo and *echo.Group.
type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	}

	s.catalogRoutes(s.echo)
	if s.routePrefix != "" {
		s.catalogRoutes(s.echo.Group(s.routePrefix))
	}
}

func (s *Server) catalogRoutes(r router) {
	optional := s.resolveCaller
	required := s.requireCaller

	r.GET("/protected", s.protected, required)
	r.GET("/home", s.home, optional)

	for _, base := range []string{"/seasons", "/temporadas"} {
		r.GET(base, s.listSeasons, optional)
		r.POST(base, s.createSeason, required)
		r.GET(base+"/:id/missoes", s.listMissions, optional)
	}
}
