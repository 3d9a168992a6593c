package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SetupLogger installs a JSON slog handler writing to w as the slog default
// and returns it as a Logger. Errors logged with ErrAttr get a stacktrace
// attribute.
func SetupLogger(w io.Writer, level string) (Logger, error) {
	lvl, ok := ParseLevel(level)
	if !ok {
		return nil, errors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
	ops := slog.HandlerOptions{
		Level: slog.Level(lvl),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "severity"
			case slog.MessageKey:
				attr.Key = "message"
			}
			return attr
		},
	}
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return NewSlogLogger(logger), nil
}

// SlogLogger implements Logger on top of *slog.Logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, slogArgs(fields)...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, slogArgs(fields)...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, slogArgs(fields)...) }
func (s *SlogLogger) Error(msg string, fields ...any) { s.l.Error(msg, slogArgs(fields)...) }

func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{l: s.l.With(slogArgs(fields)...)}
}

func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

// slogArgs turns a leading error into ErrAttr so ErrFmtHandler sees it.
func slogArgs(fields []any) []any {
	if len(fields) == 0 {
		return nil
	}
	if err, ok := fields[0].(error); ok {
		return append([]any{ErrAttr(err)}, fields[1:]...)
	}
	return fields
}
