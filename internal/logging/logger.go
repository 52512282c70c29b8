// Package logging configures the slog logger of the fsmdemo command.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/openwebos/fsm"
)

// New creates a text logger writing to w, usually Stderr so that command
// output on Stdout stays clean. Machine severities slog does not name are
// printed as NOTICE and FATAL.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				switch a.Value.Any() {
				case fsm.SlogLevelNotice:
					return slog.String(slog.LevelKey, "NOTICE")
				case fsm.SlogLevelFatal:
					return slog.String(slog.LevelKey, "FATAL")
				}
			}
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	return level, err
}
