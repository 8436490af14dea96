// Package logging defines the structured-logging interface the server codes
// against. The slog implementation below is the only one in use, but keeping
// the interface thin makes services testable with a discard logger.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key-value
// pairs, as in slog:
//
//	log.Info(ctx, "list deleted", "sync_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
