// Package logging provides the structured logging facility used across the
// module. Components accept the Logger interface so tests can silence output
// and callers can plug in their own backend; the default production backend
// is zap (see zap.go).
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level, defaulting to INFO.
func ParseLevel(name string) Level {
	switch name {
	case "debug", "DEBUG":
		return DEBUG
	case "warn", "WARN":
		return WARN
	case "error", "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Logger is the logging interface consumed by the rest of the module.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithFields returns a logger that attaches the given fields to every entry.
	WithFields(fields ...Field) Logger

	// SetLevel sets the minimum level that will be emitted.
	SetLevel(level Level)
}

// jsonLogger is a dependency-free fallback used when the zap backend cannot
// be constructed. One JSON object per line.
type jsonLogger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	fields []Field
}

// NewLogger creates a plain JSON line logger writing to stderr at INFO
// level. Stdout stays reserved for the protocol stream.
func NewLogger() Logger {
	return &jsonLogger{out: os.Stderr, level: INFO}
}

// NewNopLogger creates a logger that discards everything. Intended for tests.
func NewNopLogger() Logger {
	return &jsonLogger{out: io.Discard, level: ERROR + 1}
}

func (l *jsonLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"level":     level.String(),
		"message":   msg,
	}
	for _, f := range l.fields {
		entry[f.Key] = f.Value
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(append(data, '\n'))
}

func (l *jsonLogger) Debug(msg string, fields ...Field) { l.log(DEBUG, msg, fields) }
func (l *jsonLogger) Info(msg string, fields ...Field)  { l.log(INFO, msg, fields) }
func (l *jsonLogger) Warn(msg string, fields ...Field)  { l.log(WARN, msg, fields) }
func (l *jsonLogger) Error(msg string, fields ...Field) { l.log(ERROR, msg, fields) }

func (l *jsonLogger) WithFields(fields ...Field) Logger {
	clone := &jsonLogger{out: l.out, level: l.level}
	clone.fields = make([]Field, 0, len(l.fields)+len(fields))
	clone.fields = append(clone.fields, l.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (l *jsonLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Field constructors for common types.

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err.Error()}
}
