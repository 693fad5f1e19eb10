package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI color codes for console output
const (
	ColorReset        = "\033[0m"
	ColorRed          = "\033[31m"
	ColorYellow       = "\033[33m"
	ColorBlue         = "\033[34m"
	ColorGreen        = "\033[32m"
	ColorCyan         = "\033[36m"
	ColorBrightRed    = "\033[91m"
	ColorBrightYellow = "\033[93m"
	ColorBrightGray   = "\033[90m"
)

// Level is a log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel maps a level name to a Level, defaulting to WARN
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "ERROR":
		return LevelError
	default:
		return LevelWarn
	}
}

// Logger writes leveled, optionally colored lines to a writer (stderr by default)
type Logger struct {
	name string

	mu           sync.Mutex
	out          io.Writer
	level        Level
	colorEnabled bool
	now          func() time.Time
}

// New creates a logger writing to stderr at WARN level
func New(name string) *Logger {
	return &Logger{
		name:         name,
		out:          os.Stderr,
		level:        LevelWarn,
		colorEnabled: isTerminal(os.Stderr),
		now:          time.Now,
	}
}

// NewWithWriter creates a logger writing uncolored lines to w
func NewWithWriter(name string, w io.Writer, level Level) *Logger {
	return &Logger{name: name, out: w, level: level, now: time.Now}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWithWriter("", io.Discard, LevelError+1)
}

// isTerminal checks if we're outputting to a terminal (for color support)
func isTerminal(f *os.File) bool {
	if os.Getenv("TERM") == "dumb" || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// SetLevel changes the minimum level that is written
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Enabled reports whether messages at level would be written
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) colorFor(level Level) string {
	if !l.colorEnabled {
		return ""
	}
	switch level {
	case LevelDebug:
		return ColorBrightGray
	case LevelInfo:
		return ColorGreen
	case LevelWarn:
		return ColorBrightYellow
	default:
		return ColorBrightRed
	}
}

func (l *Logger) log(level Level, message string, fields map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	var b strings.Builder
	color := l.colorFor(level)
	reset := ""
	if color != "" {
		reset = ColorReset
	}

	fmt.Fprintf(&b, "%s %s%-5s%s", l.now().Format("15:04:05.000"), color, level, reset)
	if l.name != "" {
		fmt.Fprintf(&b, " [%s]", l.name)
	}
	b.WriteString(" ")
	b.WriteString(message)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%s", k, fields[k])
		}
	}
	b.WriteString("\n")

	_, _ = io.WriteString(l.out, b.String())
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...), nil)
}

// WithFields returns a context that attaches fields to every message
func (l *Logger) WithFields(fields map[string]string) *LogContext {
	return &LogContext{logger: l, fields: fields}
}

// LogContext provides field-based logging
type LogContext struct {
	logger *Logger
	fields map[string]string
}

func (c *LogContext) Debug(message string) {
	c.logger.log(LevelDebug, message, c.fields)
}

func (c *LogContext) Info(message string) {
	c.logger.log(LevelInfo, message, c.fields)
}

func (c *LogContext) Warn(message string) {
	c.logger.log(LevelWarn, message, c.fields)
}

func (c *LogContext) Error(message string) {
	c.logger.log(LevelError, message, c.fields)
}
