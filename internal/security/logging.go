// Package security provides structured logging and rate limiting for the
// messenger backend. Log output is one JSON object per line so it can be
// shipped to log aggregation without further parsing.
package security

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// LogLevel identifies the severity of a log entry.
type LogLevel string

const (
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// SecurityEvent identifies a security-relevant occurrence.
type SecurityEvent string

const (
	EventLoginSuccess       SecurityEvent = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEvent = "LOGIN_FAILURE"
	EventLogout             SecurityEvent = "LOGOUT"
	EventRateLimitExceeded  SecurityEvent = "RATE_LIMIT_EXCEEDED"
	EventUnauthorizedAccess SecurityEvent = "UNAUTHORIZED_ACCESS"
)

// LogEntry is the JSON shape of a single log line.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error,omitempty"`
	Event     SecurityEvent          `json:"event,omitempty"`
	UserID    *string                `json:"user_id,omitempty"`
	Target    string                 `json:"target,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Logger emits structured JSON log entries.
type Logger struct {
	output *log.Logger
}

// NewLogger creates a logger writing to stdout.
func NewLogger() *Logger {
	return &Logger{
		output: log.New(os.Stdout, "", 0),
	}
}

// Info logs an informational message.
func (l *Logger) Info(message string) {
	l.write(LogEntry{Level: LogLevelInfo, Message: message})
}

// Warn logs a warning message.
func (l *Logger) Warn(message string) {
	l.write(LogEntry{Level: LogLevelWarning, Message: message})
}

// Error logs an error message with its underlying cause, if any.
func (l *Logger) Error(message string, err error) {
	entry := LogEntry{Level: LogLevelError, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// Critical logs a critical failure with its underlying cause, if any.
func (l *Logger) Critical(message string, err error) {
	entry := LogEntry{Level: LogLevelCritical, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// Request logs one completed HTTP request.
func (l *Logger) Request(method, path string, status int, latency time.Duration, ipAddress string) {
	l.write(LogEntry{
		Level:     LogLevelInfo,
		Message:   method + " " + path,
		IPAddress: ipAddress,
		Details: map[string]interface{}{
			"status":     status,
			"latency_ms": latency.Milliseconds(),
		},
	})
}

// SecurityEvent logs a security-relevant occurrence with its actor and
// request metadata. userID is nil when no authenticated user is involved
// (e.g. a failed login).
func (l *Logger) SecurityEvent(event SecurityEvent, userID *string, target, ipAddress, userAgent string, details map[string]interface{}) {
	l.write(LogEntry{
		Level:     LogLevelWarning,
		Message:   string(event),
		Event:     event,
		UserID:    userID,
		Target:    target,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details:   details,
	})
}

func (l *Logger) write(entry LogEntry) {
	entry.Timestamp = time.Now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		// Fall back to plain output rather than dropping the entry.
		l.output.Printf("%s %s", entry.Level, entry.Message)
		return
	}

	l.output.Println(string(data))
}
