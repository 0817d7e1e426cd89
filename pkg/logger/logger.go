package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"bilingual-reader/internal/domain"
)

// AppLogger implements the domain.Logger interface on top of slog
type AppLogger struct {
	logger *slog.Logger
}

// NewLogger creates a logger writing to stdout. format is "json" or "text".
func NewLogger(levelStr, format string) domain.Logger {
	return New(os.Stdout, levelStr, format)
}

// New creates a logger writing to w.
func New(w io.Writer, levelStr, format string) *AppLogger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(levelStr),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &AppLogger{logger: slog.New(handler)}
}

// Slog exposes the underlying slog logger.
func (l *AppLogger) Slog() *slog.Logger {
	return l.logger
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info(msg, fields...)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"error", err}, fields...)...)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug(msg, fields...)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn(msg, fields...)
}

// parseLogLevel converts a level name to a slog level, defaulting to info.
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
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

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
