// Package logger is a small leveled logger. Lines look like
//
//	2024-05-01 12:00:00.000 INFO  [prefix] [file.go:42] message key=value
//
// Derived loggers (WithField, WithPrefix) share the parent's output and lock.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR"}

var levelColors = [...]string{
	DEBUG: "\033[36m",
	INFO:  "\033[32m",
	WARN:  "\033[33m",
	ERROR: "\033[31m",
}

const colorReset = "\033[0m"

func (l Level) String() string {
	if l < DEBUG || l > ERROR {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel parses a level name. Unknown names map to INFO.
func ParseLevel(s string) Level {
	l, _ := LookupLevel(s)
	return l
}

// LookupLevel parses a level name and reports whether it was recognized.
func LookupLevel(s string) (Level, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return INFO, false
}

type field struct {
	key   string
	value any
}

// sink is the destination shared by a logger and everything derived from it.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// Logger writes leveled, prefixed lines with key=value fields.
type Logger struct {
	sink   *sink
	level  Level
	prefix string
	fields []field // sorted by key
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets where lines are written.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.sink.out = w }
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// WithPrefix sets the bracketed prefix.
func WithPrefix(prefix string) Option {
	return func(l *Logger) { l.prefix = prefix }
}

// WithColors turns ANSI level colors on or off.
func WithColors(enabled bool) Option {
	return func(l *Logger) { l.sink.color = enabled }
}

// New creates a logger writing INFO and above to stdout.
func New(opts ...Option) *Logger {
	l := &Logger{
		sink:  &sink{out: os.Stdout, color: true},
		level: INFO,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New())
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	defaultLogger.Store(l)
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger.Load()
}

func (l *Logger) derive() *Logger {
	c := *l
	return &c
}

// WithField returns a logger that appends key=value to every line.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a logger carrying fields in addition to l's. A key
// already present is overwritten.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		merged[f.key] = f.value
	}
	for k, v := range fields {
		merged[k] = v
	}

	c := l.derive()
	c.fields = make([]field, 0, len(merged))
	for k, v := range merged {
		c.fields = append(c.fields, field{k, v})
	}
	sort.Slice(c.fields, func(i, j int) bool { return c.fields[i].key < c.fields[j].key })
	return c
}

// WithPrefix returns a logger with a different prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	c := l.derive()
	c.prefix = prefix
	return c
}

// Enabled reports whether lines at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) Debug(msg string, args ...any) { l.write(DEBUG, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(INFO, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(WARN, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(ERROR, msg, args) }

// write formats one line. It must be called directly from a level method so
// that caller depth 2 is the code that logged.
func (l *Logger) write(level Level, msg string, args []any) {
	if !l.Enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	b.WriteByte(' ')
	if l.sink.color {
		b.WriteString(levelColors[level])
		fmt.Fprintf(&b, "%-5s", level)
		b.WriteString(colorReset)
	} else {
		fmt.Fprintf(&b, "%-5s", level)
	}
	b.WriteByte(' ')
	if l.prefix != "" {
		fmt.Fprintf(&b, "[%s] ", l.prefix)
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		fmt.Fprintf(&b, "[%s:%d] ", filepath.Base(file), line)
	}
	b.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.key, f.value)
	}
	b.WriteByte('\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	io.WriteString(l.sink.out, b.String())
}

// Package-level helpers log through the default logger.

func Debug(msg string, args ...any) { Default().write(DEBUG, msg, args) }
func Info(msg string, args ...any)  { Default().write(INFO, msg, args) }
func Warn(msg string, args ...any)  { Default().write(WARN, msg, args) }
func Error(msg string, args ...any) { Default().write(ERROR, msg, args) }

type ctxKey struct{}

// FromContext returns the request-scoped logger, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// NewContext returns ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
