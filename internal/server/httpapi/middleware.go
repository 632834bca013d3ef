package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/logging"
	"github.com/kidslabs/catalog/internal/server/auth"
	"github.com/labstack/echo/v4"
)

const (
	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// requestID propagates an incoming X-Request-ID or generates one, and binds a
// request-scoped logger carrying it.
func (s *Server) requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(common.RequestIDHeaderName)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}

		c.Request().Header.Set(common.RequestIDHeaderName, id)
		c.Response().Header().Set(common.RequestIDHeaderName, id)

		c.Set(requestIDKey, id)
		c.Set(loggerKey, s.logger.With("request_id", id))

		return next(c)
	}
}

// requestLogger writes one line per request once the handler has finished.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := statusOf(c, err)
		args := []any{
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"route", c.Path(),
			"status", status,
			"duration", time.Since(start).String(),
		}
		log := loggerFrom(c, s.logger)
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(c.Request().Context(), "request", append(args, "error", err)...)
		default:
			log.Info(c.Request().Context(), "request", args...)
		}
		return err
	}
}

// resolveCaller attaches the caller when a valid token is present and treats
// every other request as anonymous.
func (s *Server) resolveCaller(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := s.resolver.Resolve(c.Request().Header.Get(common.AuthorizationHeaderName))
		if err != nil && !errors.Is(err, common.ErrMissingToken) {
			loggerFrom(c, s.logger).Debug(c.Request().Context(), "ignoring unusable token", "error", err)
		}
		setCaller(c, caller)
		return next(c)
	}
}

// requireCaller rejects requests without a trusted token with 401 before the
// handler runs. A trusted token that names no user still passes.
func (s *Server) requireCaller(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := s.resolver.Resolve(c.Request().Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			loggerFrom(c, s.logger).Warn(c.Request().Context(), "unauthorized request", "error", err)
			return c.JSON(http.StatusUnauthorized, echo.Map{"erro": authMessage(err), "msg": authMessage(err)})
		}
		setCaller(c, caller)
		return next(c)
	}
}

func setCaller(c echo.Context, caller auth.Caller) {
	req := c.Request()
	c.SetRequest(req.WithContext(auth.WithCaller(req.Context(), caller)))
}

func callerOf(c echo.Context) auth.Caller {
	return auth.CallerFromContext(c.Request().Context())
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingToken):
		return "Missing Authorization Header"
	case errors.Is(err, common.ErrTokenExpired):
		return "Token has expired"
	default:
		return "Invalid token"
	}
}

func loggerFrom(c echo.Context, fallback logging.Logger) logging.Logger {
	if l, ok := c.Get(loggerKey).(logging.Logger); ok {
		return l
	}
	return fallback
}

// statusOf returns the status the client will see for a handler result.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
