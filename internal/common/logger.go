package common

import (
	"log/slog"
	"os"
)

// LogLevel is the verbosity selected in configuration.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelNames = map[LogLevel]string{
	LogLevelError: "error",
	LogLevelWarn:  "warn",
	LogLevelInfo:  "info",
	LogLevelDebug: "debug",
}

var slogLevels = map[LogLevel]slog.Level{
	LogLevelError: slog.LevelError,
	LogLevelWarn:  slog.LevelWarn,
	LogLevelInfo:  slog.LevelInfo,
	LogLevelDebug: slog.LevelDebug,
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "info"
}

// ToSlogLevel converts LogLevel to its slog equivalent.
func (l LogLevel) ToSlogLevel() slog.Level {
	if sl, ok := slogLevels[l]; ok {
		return sl
	}
	return slog.LevelInfo
}

// Logger provides the centralized logging interface for jenkinsverify.
// Console output is the tool's only user-facing surface, so every progress
// and status line goes through here.
type Logger struct {
	*slog.Logger
	level  LogLevel
	masker *Masker
}

func wrap(h slog.Handler, level LogLevel, m *Masker) *Logger {
	return &Logger{Logger: slog.New(h), level: level, masker: m}
}

// handlerOpts routes every attribute through the masker so text and JSON
// output scrub credentials the same way the color handler does.
func handlerOpts(level LogLevel, m *Masker) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level.ToSlogLevel(),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if m == nil || !m.IsEnabled() {
				return a
			}
			if s, ok := m.MaskValue(a.Key, a.Value.Any()).(string); ok {
				if s == MaskedValue || a.Value.Kind() == slog.KindString {
					a.Value = slog.StringValue(s)
				}
			}
			return a
		},
	}
}

// NewLogger returns a plain text logger writing to stdout.
func NewLogger(level LogLevel) *Logger {
	m := NewMasker()
	return wrap(slog.NewTextHandler(os.Stdout, handlerOpts(level, m)), level, m)
}

// NewJSONLogger returns a JSON logger, for runs whose output is collected
// by CI rather than read by a person.
func NewJSONLogger(level LogLevel) *Logger {
	m := NewMasker()
	return wrap(slog.NewJSONHandler(os.Stdout, handlerOpts(level, m)), level, m)
}

// NewColorLogger returns a colorized terminal logger. The handler owns the
// masker so EnableMasking reaches attribute rendering too.
func NewColorLogger(level LogLevel) *Logger {
	h := NewColorHandler(os.Stdout, &slog.HandlerOptions{Level: level.ToSlogLevel()})
	return wrap(h, level, h.masker)
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// EnableMasking toggles sensitive-value masking for this logger
func (l *Logger) EnableMasking(enabled bool) {
	if l.masker != nil {
		l.masker.SetEnabled(enabled)
	}
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		level:  l.level,
		masker: l.masker,
	}
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// WithAuthMode returns a logger with the active authentication mode attached
func (l *Logger) WithAuthMode(mode string) *Logger {
	return l.with("auth_mode", mode)
}

// WithStore returns a logger with store backend context
func (l *Logger) WithStore(storeType string) *Logger {
	return l.with("store", storeType)
}

// WithRequest returns a logger with HTTP request context
func (l *Logger) WithRequest(method, url string) *Logger {
	return l.with("method", method, "url", url)
}

// Global default logger instance
var defaultLogger = NewLogger(LogLevelInfo)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}
