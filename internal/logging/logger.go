package logging

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity levels.
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
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a Level.
// Unknown names yield LevelInfo and false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Fields is the structured payload attached to an entry.
type Fields = map[string]interface{}

// LogEntry represents a structured log entry.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
}

// sink is shared between a logger and everything derived from it, so
// SetOutput/SetLevel on the root affect request-scoped children too.
type sink struct {
	mu     sync.Mutex
	output io.Writer
	level  Level
}

// Logger provides structured JSON logging.
type Logger struct {
	sink   *sink
	fields Fields
}

// New creates a new Logger instance writing to stdout at info level.
func New() *Logger {
	return &Logger{
		sink:   &sink{output: os.Stdout, level: LevelInfo},
		fields: Fields{},
	}
}

// SetOutput sets the output writer for the logger.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
	return l
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) *Logger {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
	return l
}

// WithField returns a child logger with an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields returns a child logger with additional fields.
func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{sink: l.sink, fields: merged}
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Fields) { l.log(LevelError, msg, fields...) }

func (l *Logger) log(level Level, msg string, extra ...Fields) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if level < l.sink.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}
	if n := len(l.fields) + len(extra); n > 0 {
		all := make(Fields, len(l.fields))
		for k, v := range l.fields {
			all[k] = v
		}
		for _, f := range extra {
			for k, v := range f {
				all[k] = v
			}
		}
		if len(all) > 0 {
			entry.Fields = all
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		_, _ = io.WriteString(l.sink.output, entry.Timestamp+" "+entry.Level+" "+msg+"\n")
		return
	}
	data = append(data, '\n')
	_, _ = l.sink.output.Write(data)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request-scoped logger, or Default.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
			return l
		}
	}
	return Default
}

// Default is the default logger instance.
var Default = New()

// SetDefaultLevel sets the level for the default logger.
func SetDefaultLevel(level Level) {
	Default.SetLevel(level)
}

func Debug(msg string, fields ...Fields) { Default.Debug(msg, fields...) }
func Info(msg string, fields ...Fields)  { Default.Info(msg, fields...) }
func Warn(msg string, fields ...Fields)  { Default.Warn(msg, fields...) }
func Error(msg string, fields ...Fields) { Default.Error(msg, fields...) }
