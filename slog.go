package fsm

import (
	"context"
	"log/slog"
)

// Extra slog levels for severities slog does not name.
const (
	SlogLevelNotice = slog.LevelInfo + 2
	SlogLevelFatal  = slog.LevelError + 4
)

// SlogLevel maps a diagnostics level to a slog level.
func SlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelNotice:
		return SlogLevelNotice
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelFatal, LevelNone:
		return SlogLevelFatal
	}
	return slog.LevelInfo
}

type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a Sink writing to logger. A nil logger means
// slog.Default().
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger}
}

func (s *slogSink) Log(m *Machine, cookie any, level Level, msg string) {
	attrs := []slog.Attr{
		slog.String("machine", m.Name()),
		slog.String("id", m.ID()),
	}
	if cookie != nil {
		attrs = append(attrs, slog.Any("cookie", cookie))
	}
	s.logger.LogAttrs(context.Background(), SlogLevel(level), msg, attrs...)
}
