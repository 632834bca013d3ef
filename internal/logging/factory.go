package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the named backend writing JSON lines to w.
func New(backend, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		lvl, err := parseSlogLevel(level)
		if err != nil {
			return nil, err
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
		return NewZapLogger(zap.New(core)), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func parseSlogLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                   { return n }
