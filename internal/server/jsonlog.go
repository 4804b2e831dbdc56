// jsonlog.go - Structured logging for component lifecycle events.
// Per-request access lines stay on the stdlib logger (logging.go); this
// logger carries leveled, optionally-JSON events like startup, store
// selection, and upload/download milestones.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var levelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

// Logger writes leveled entries, as JSON when configured for
// production and as plain key=value text otherwise.
type Logger struct {
	output     io.Writer
	minLevel   LogLevel
	enableJSON bool
}

type logEntry struct {
	Level   LogLevel       `json:"level"`
	Time    string         `json:"time"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// DefaultLogger is used when no logger is injected.
var DefaultLogger = NewLogger(os.Stdout, LogLevelInfo, false)

func NewLogger(output io.Writer, minLevel LogLevel, enableJSON bool) *Logger {
	if _, ok := levelRank[minLevel]; !ok {
		minLevel = LogLevelInfo
	}
	return &Logger{output: output, minLevel: minLevel, enableJSON: enableJSON}
}

// LoggerFromEnv builds a logger from FSTASH_LOG_LEVEL and
// FSTASH_LOG_FORMAT ("json" forces JSON output, as does
// FSTASH_ENV=production).
func LoggerFromEnv() *Logger {
	enableJSON := os.Getenv("FSTASH_LOG_FORMAT") == "json" || os.Getenv("FSTASH_ENV") == "production"
	return NewLogger(os.Stdout, LogLevel(os.Getenv("FSTASH_LOG_LEVEL")), enableJSON)
}

func (l *Logger) log(level LogLevel, msg string, fields map[string]any, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := logEntry{
		Level:   level,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Message: msg,
		Fields:  fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if l.enableJSON {
		data, _ := json.Marshal(entry)
		fmt.Fprintln(l.output, string(data))
		return
	}

	// Plain text format for development
	fmt.Fprintf(l.output, "[%s] %s %s", entry.Level, entry.Time, entry.Message)
	for k, v := range entry.Fields {
		fmt.Fprintf(l.output, " %s=%v", k, v)
	}
	if entry.Error != "" {
		fmt.Fprintf(l.output, " error=%s", entry.Error)
	}
	fmt.Fprintln(l.output)
}

func (l *Logger) Debug(msg string, fields map[string]any) {
	l.log(LogLevelDebug, msg, fields, nil)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.log(LogLevelInfo, msg, fields, nil)
}

func (l *Logger) Warn(msg string, fields map[string]any) {
	l.log(LogLevelWarn, msg, fields, nil)
}

func (l *Logger) Error(msg string, fields map[string]any, err error) {
	l.log(LogLevelError, msg, fields, err)
}
