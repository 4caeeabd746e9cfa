package spectra

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with spectra-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithID adds an ID field to the logger (useful for tagging operations).
func (l *Logger) WithID(id uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithBackend adds a backend kind field to the logger.
func (l *Logger) WithBackend(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", kind),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, id uint32, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"id", id,
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"id", id,
			"dimension", dimension,
		)
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"k", k,
			"results", resultsFound,
		)
	}
}

// LogEvict logs the eviction of the oldest entry once the store is at capacity.
func (l *Logger) LogEvict(ctx context.Context, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evict failed",
			"size", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "oldest entry evicted",
			"size", size,
		)
	}
}

// LogFallback logs the fallback to the exhaustive backend after partition
// training failed.
func (l *Logger) LogFallback(ctx context.Context, clusters int, err error) {
	l.WarnContext(ctx, "partition training failed, using exhaustive backend",
		"clusters", clusters,
		"error", err,
	)
}

// LogSanitize logs the repair of a malformed input vector. Callers are
// expected to rate-limit this, as a misbehaving producer can emit repairable
// vectors at line rate.
func (l *Logger) LogSanitize(ctx context.Context, originalLen, nonFinite, dimension int) {
	l.WarnContext(ctx, "vector repaired before use",
		"original_len", originalLen,
		"non_finite", nonFinite,
		"dimension", dimension,
	)
}
