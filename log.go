package fsm

import (
	"fmt"
	"strings"
)

// Level is a diagnostics severity.
type Level int8

// Levels in increasing severity. LevelNone as a threshold disables output.
const (
	LevelDebug Level = iota + 1
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelFatal
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelNotice:
		return "NOTICE"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelNone:
		return "NONE"
	}
	return fmt.Sprintf("Level(%d)", int8(l))
}

// Sink receives formatted diagnostics lines from a machine. cookie is the
// value given to EnableLogging or Config.Cookie.
type Sink interface {
	Log(m *Machine, cookie any, level Level, msg string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(m *Machine, cookie any, level Level, msg string)

// Log calls f.
func (f SinkFunc) Log(m *Machine, cookie any, level Level, msg string) {
	f(m, cookie, level, msg)
}

// EnableLogging routes the machine's diagnostics to sink, replacing any
// previous sink and cookie.
func (m *Machine) EnableLogging(sink Sink, cookie any) {
	m.sink = sink
	m.cookie = cookie
}

// DisableLogging removes the sink and cookie.
func (m *Machine) DisableLogging() {
	m.sink = nil
	m.cookie = nil
}

// SetLogLevel sets the minimum level forwarded to the sink.
func (m *Machine) SetLogLevel(level Level) {
	m.level = level
}

// LogLevel returns the minimum level forwarded to the sink.
func (m *Machine) LogLevel() Level {
	return m.level
}

func (m *Machine) enabled(level Level) bool {
	return m.sink != nil && m.level != LevelNone && level >= m.level
}

// logf formats a line as FSM.<name>(<id>/c=<cookie>): <text> and forwards it
// to the sink if level is enabled.
func (m *Machine) logf(level Level, format string, args ...any) {
	if !m.enabled(level) {
		return
	}
	prefix := fmt.Sprintf("FSM.%s(%s/c=%v): ", m.name, m.id, m.cookie)
	m.sink.Log(m, m.cookie, level, prefix+fmt.Sprintf(format, args...))
}

// ParseLevel returns the level named by s, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for l := LevelDebug; l <= LevelNone; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("fsm: unknown log level %q", s)
}
