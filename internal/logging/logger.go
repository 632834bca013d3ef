// Package logging is the structured logging facade shared by the HTTP server
// and the maintenance CLI. New selects a slog or zap backend from config.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	log.Info(ctx, "season created", "id", id, "numero", numero)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every entry.
	With(args ...any) Logger
}
