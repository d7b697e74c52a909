package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is the logging interface passed through contexts.
type Logger interface {
	Debug(ctx context.Context, msg string, kv ...any)
	Info(ctx context.Context, msg string, kv ...any)
	Warn(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, kv ...any)
	Errorf(ctx context.Context, format string, args ...any)
	With(kv ...any) Logger
}

type contextKey struct{}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or a human logger on
// stderr at INFO level.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok && l != nil {
		return l
	}
	return fallback
}

var fallback Logger = &slogLogger{l: slog.New(newHumanHandler(os.Stderr, slog.LevelInfo))}

// NewWithWriter builds a Logger writing to w. format is human, text or json.
func NewWithWriter(format string, level slog.Leveler, w io.Writer) (Logger, error) {
	var h slog.Handler
	switch format {
	case "", "human":
		h = newHumanHandler(w, level)
	case "text":
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
	return &slogLogger{l: slog.New(h)}, nil
}

// newHumanHandler is a text handler without timestamps for terminal use.
func newHumanHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}

type slogLogger struct{ l *slog.Logger }

func (s *slogLogger) Debug(ctx context.Context, msg string, kv ...any) { s.l.DebugContext(ctx, msg, kv...) }
func (s *slogLogger) Info(ctx context.Context, msg string, kv ...any)  { s.l.InfoContext(ctx, msg, kv...) }
func (s *slogLogger) Warn(ctx context.Context, msg string, kv ...any)  { s.l.WarnContext(ctx, msg, kv...) }
func (s *slogLogger) Error(ctx context.Context, msg string, kv ...any) { s.l.ErrorContext(ctx, msg, kv...) }

func (s *slogLogger) Errorf(ctx context.Context, format string, args ...any) {
	s.l.ErrorContext(ctx, fmt.Sprintf(format, args...))
}

func (s *slogLogger) With(kv ...any) Logger { return &slogLogger{l: s.l.With(kv...)} }

// Tee returns a Logger that forwards every record to all of ls.
func Tee(ls ...Logger) Logger { return teeLogger(ls) }

type teeLogger []Logger

func (t teeLogger) Debug(ctx context.Context, msg string, kv ...any) {
	for _, l := range t {
		l.Debug(ctx, msg, kv...)
	}
}

func (t teeLogger) Info(ctx context.Context, msg string, kv ...any) {
	for _, l := range t {
		l.Info(ctx, msg, kv...)
	}
}

func (t teeLogger) Warn(ctx context.Context, msg string, kv ...any) {
	for _, l := range t {
		l.Warn(ctx, msg, kv...)
	}
}

func (t teeLogger) Error(ctx context.Context, msg string, kv ...any) {
	for _, l := range t {
		l.Error(ctx, msg, kv...)
	}
}

func (t teeLogger) Errorf(ctx context.Context, format string, args ...any) {
	t.Error(ctx, fmt.Sprintf(format, args...))
}

func (t teeLogger) With(kv ...any) Logger {
	out := make(teeLogger, len(t))
	for i, l := range t {
		out[i] = l.With(kv...)
	}
	return out
}
