package shimio

import (
	"fmt"
	"strings"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat defines the output format for log messages
type LogFormat int

const (
	LogFormatTagged LogFormat = iota // [DISM WRAPPER] ... / WARNING: ... / ERROR: ...
	LogFormatPlain                   // No prefix
)

// Logger writes leveled diagnostic lines. Info, Success and Debug go to stdout
// as an audit trail; warnings and errors go to stderr.
type Logger struct {
	io       *IOManager
	format   LogFormat
	prefixes map[LogLevel]string
	minLevel LogLevel
	theme    Theme
}

// NewLogger creates a tagged logger bound to the given IOManager. Debug lines
// are suppressed until WithLevel(LevelDebug) is called.
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:       io,
		format:   LogFormatTagged,
		prefixes: TaggedPrefixes("[DISM WRAPPER]"),
		minLevel: LevelInfo,
		theme:    DefaultTheme(),
	}
}

// TaggedPrefixes returns the prefix set used by the shim: the audit tag for
// informational lines and the ERROR:/WARNING: convention on stderr.
func TaggedPrefixes(tag string) map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   tag + " [debug]",
		LevelInfo:    tag,
		LevelSuccess: tag,
		LevelWarning: "WARNING:",
		LevelError:   "ERROR:",
	}
}

// WithFormat sets the log format and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	return l
}

// WithLevel sets the minimum level that is written.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := l.formatMessage(level, msg) + "\n"
	if level == LevelWarning || level == LevelError {
		_ = l.io.Err().WriteFlush([]byte(line))
		return
	}
	_ = l.io.Out().WriteFlush([]byte(line))
}

// Blank writes an empty line to stdout, used to separate the audit trail from
// relayed child output.
func (l *Logger) Blank() {
	_ = l.io.Out().WriteFlush([]byte("\n"))
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	// Whitespace-only messages are written as-is
	if strings.TrimSpace(msg) == "" {
		return msg
	}
	if l.format == LogFormatPlain {
		return l.colorizeByLevel(level, msg)
	}
	prefix := l.prefixes[level]
	if prefix == "" {
		return l.colorizeByLevel(level, msg)
	}
	return l.colorizeByLevel(level, prefix) + " " + msg
}

// colorizeByLevel applies semantic color based on log level
func (l *Logger) colorizeByLevel(level LogLevel, text string) string {
	var c Color
	switch level {
	case LevelDebug:
		c = l.theme.Debug
	case LevelInfo:
		c = l.theme.Info
	case LevelSuccess:
		c = l.theme.Success
	case LevelWarning:
		c = l.theme.Warning
	case LevelError:
		c = l.theme.Error
	default:
		return text
	}
	return l.io.Colorize(text, c.sgr())
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) { l.Log(LevelDebug, format, args...) }

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Success logs a success message
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }

// Warning logs a warning message to stderr
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }

// Error logs an error message to stderr
func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }
