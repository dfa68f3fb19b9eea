package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/portfolio-ledger/internal/config"
)

type correlationKey struct{}

// NewLogger creates a JSON slog.Logger writing to stdout, tagged with the service name
func NewLogger(cfg *config.Config, service string) *slog.Logger {
	return newLogger(os.Stdout, cfg.Logging.Level, service)
}

func newLogger(w io.Writer, levelName, service string) *slog.Logger {
	level := ParseLevel(levelName)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(w, opts))
	if service != "" {
		logger = logger.With("service", service)
	}

	logger.Info("logger initialized", "level", level)

	return logger
}

// ParseLevel maps a case-insensitive level name to a slog.Level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// WithCorrelationID stores the correlation ID in ctx
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// CorrelationID returns the correlation ID stored in ctx, or ""
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

// FromContext returns base enriched with the correlation ID from ctx, if any
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := CorrelationID(ctx); id != "" {
		return base.With("correlation_id", id)
	}
	return base
}
