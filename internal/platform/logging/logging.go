package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// contextKey is the key type used to store the logger in a context.
// Using a custom type prevents collisions.
type contextKey string

const loggerKey = contextKey("logger")

// New builds the process-wide JSON logger.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug|info|warn|error to a slog level. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StartJob derives a job-scoped logger carrying a fresh job id, the command name and
// the tenant, and stores it in the returned context.
func StartJob(ctx context.Context, base *slog.Logger, command, tenantID string) (context.Context, *slog.Logger) {
	if base == nil {
		base = slog.Default()
	}
	jobLogger := base.With(
		slog.String("job_id", uuid.NewString()),
		slog.String("command", command),
	)
	if tenantID != "" {
		jobLogger = jobLogger.With(slog.String("tenant_id", tenantID))
	}
	return WithLogger(ctx, jobLogger), jobLogger
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the job-scoped logger, falling back to the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}
