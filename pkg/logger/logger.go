// Package logger provides the structured logging sink every component of
// kactor depends on instead of fmt.Print*, wrapping log/slog the way the
// rest of this module's ambient stack wraps third-party libraries.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

type ctxKey struct{}

// requestIDKey is the context key a request's correlation id is stashed
// under. ContextWithRequestID/RequestIDFromContext are the only things
// that touch it.
var requestIDKey ctxKey

// ContextWithRequestID attaches id to ctx so every Logger call made with
// the derived context carries a "request_id" attribute automatically.
// kactor does not use it: the actor passes its per-request uuid to the
// Logger as an explicit "request_id" argument instead.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the id attached by ContextWithRequestID, or
// "" if none was attached.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger wraps slog.Logger to provide additional functionality
type Logger struct {
	*slog.Logger
	hideFields map[string]struct{} // For O(1) lookup of fields to hide
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	var output io.Writer
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "":
		fallthrough
	case "stdout":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Convert hideFields slice to map for O(1) lookup
	hideFields := make(map[string]struct{})
	for _, field := range cfg.HideFields {
		hideFields[field] = struct{}{}
	}

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level:     cfg.GetLevel(),
		AddSource: true, // Always show source as per requirement
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Format time as MM/DD/YYYY HH:mm:ss
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(a.Key, t.Format("01/02/2006 15:04:05"))
				}
			}

			// Hide attributes as per requirement
			if len(groups) > 0 {
				return slog.Attr{}
			}

			// Mask specific fields if they're in the hideFields list
			if _, exists := hideFields[a.Key]; exists {
				return slog.String(a.Key, "***")
			}

			return a
		},
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{
		Logger:     slog.New(handler),
		hideFields: hideFields,
	}
}

// With returns a new Logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:     l.Logger.With(args...),
		hideFields: l.hideFields,
	}
}

// withRequestID prepends a request_id attribute when ctx carries one, so
// callers never have to remember to pass it explicitly.
func withRequestID(ctx context.Context, args []any) []any {
	id := RequestIDFromContext(ctx)
	if id == "" {
		return args
	}
	return append([]any{"request_id", id}, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.Logger.DebugContext(ctx, msg, withRequestID(ctx, args)...)
}

// Info logs an info message
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.Logger.InfoContext(ctx, msg, withRequestID(ctx, args)...)
}

// Warn logs a warning message
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.Logger.WarnContext(ctx, msg, withRequestID(ctx, args)...)
}

// Error logs an error message
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.Logger.ErrorContext(ctx, msg, withRequestID(ctx, args)...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(ctx context.Context, msg string, args ...any) {
	l.Logger.ErrorContext(ctx, msg, withRequestID(ctx, args)...)
	os.Exit(1)
}
