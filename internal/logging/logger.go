// Package logging defines the structured-logging interface used across the
// journal. The default implementation wraps log/slog.
package logging

import "context"

// Logger is the logging surface the stores, the session manager and the
// terminal front end depend on. args are slog key/value pairs; the stores
// always pass "op" and, when known, "user_id" or "entry_id":
//
//	log.Warn(ctx, "date range query failed", "op", "GetByDateRange", "user_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn is used for reads that degraded to an empty result.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
}

// ComponentKey tags every record written by a store or manager.
const ComponentKey = "component"

// ForComponent returns log tagged with the component name. A nil log yields
// a discarding logger so constructors accept an unset logger.
func ForComponent(log Logger, name string) Logger {
	if log == nil {
		return NewNopLogger().With(ComponentKey, name)
	}
	return log.With(ComponentKey, name)
}
