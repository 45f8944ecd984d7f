package domain

import "time"

// LogLevel represents the canonical log severity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

// Priority returns the rank of a log level (higher = more severe)
func (l LogLevel) Priority() int {
	switch l {
	case LogLevelDebug:
		return 0
	case LogLevelInfo:
		return 1
	case LogLevelWarn:
		return 2
	case LogLevelError:
		return 3
	case LogLevelFatal:
		return 4
	default:
		return 1
	}
}

// ParseLogLevel converts a string to LogLevel. Unrecognized or empty
// values map to INFO.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "DEBUG", "debug", "Debug":
		return LogLevelDebug
	case "INFO", "info", "Info":
		return LogLevelInfo
	case "WARN", "warn", "Warn", "WARNING", "warning":
		return LogLevelWarn
	case "ERROR", "error", "Error":
		return LogLevelError
	case "FATAL", "fatal", "Fatal":
		return LogLevelFatal
	default:
		return LogLevelInfo
	}
}

// Levels lists all canonical levels in ascending severity order.
func Levels() []LogLevel {
	return []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal}
}

// LogEntry is the canonical form of an upstream log record. Entries are
// immutable after normalization and replaced wholesale on each refresh cycle.
type LogEntry struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Level      LogLevel       `json:"level"`
	Service    string         `json:"service"`
	Component  string         `json:"component,omitempty"`
	Message    string         `json:"message"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	StackTrace string         `json:"stackTrace,omitempty"`
}

// RawLogRecord matches the upstream JSON log shape before normalization.
// Timestamp and Metadata are kept loose on purpose: the backend emits
// RFC3339 strings, unix seconds or millis, and metadata that may itself be
// a serialized JSON string.
type RawLogRecord struct {
	ID         string `json:"id,omitempty"`
	Timestamp  any    `json:"timestamp"`
	Level      string `json:"level,omitempty"`
	Service    string `json:"service"`
	Component  string `json:"component,omitempty"`
	Message    string `json:"message"`
	Metadata   any    `json:"metadata,omitempty"`
	StackTrace string `json:"stackTrace,omitempty"`
	Path       string `json:"path,omitempty"`
}
