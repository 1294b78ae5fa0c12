package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// ConsoleLogger writes human-readable lines to a terminal
type ConsoleLogger struct {
	mu               sync.Mutex
	writer           io.Writer
	level            LogLevel
	traceID          string
	colorEnabled     bool
	timestampEnabled bool
	redactSensitive  bool
}

// ConsoleLoggerConfig contains configuration for console logger
type ConsoleLoggerConfig struct {
	Writer           io.Writer
	Level            LogLevel
	ColorEnabled     bool
	TimestampEnabled bool
	RedactSensitive  bool
}

// NewConsoleLogger creates a new console logger
func NewConsoleLogger(config ConsoleLoggerConfig) *ConsoleLogger {
	if config.Writer == nil {
		config.Writer = os.Stderr
	}

	return &ConsoleLogger{
		writer:           config.Writer,
		level:            config.Level,
		colorEnabled:     config.ColorEnabled,
		timestampEnabled: config.TimestampEnabled,
		redactSensitive:  config.RedactSensitive,
	}
}

// Credential shapes that must never reach a log line: the bearer token on
// every request, OAuth token exchange payloads, the app secret from the
// config, and raw Authorization headers from HTTP dumps.
var redactPatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`), "Bearer [REDACTED]"},
	{regexp.MustCompile(`(access_token|refresh_token|oauth_token)["']?\s*[:=]\s*["']?[A-Za-z0-9\-._~+/]+=*`), "$1=[REDACTED]"},
	{regexp.MustCompile(`(?i)(app[_-]?secret|appsecret|client[_-]?secret)["']?\s*[:=]\s*["']?[A-Za-z0-9\-._~+/]+=*`), "$1=[REDACTED]"},
	{regexp.MustCompile(`(?i)authorization["']?\s*[:=]\s*["']?[^\s"']+`), "Authorization: [REDACTED]"},
}

func redactSensitiveData(s string) string {
	for _, p := range redactPatterns {
		s = p.re.ReplaceAllString(s, p.replacement)
	}
	return s
}

func (l *ConsoleLogger) formatMessage(level LogLevel, msg string, fields ...Field) string {
	var sb strings.Builder

	if l.timestampEnabled {
		if l.colorEnabled {
			sb.WriteString(colorGray)
		}
		sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
		sb.WriteString(" ")
		if l.colorEnabled {
			sb.WriteString(colorReset)
		}
	}

	if l.colorEnabled {
		switch level {
		case DEBUG:
			sb.WriteString(colorBlue)
		case INFO:
			sb.WriteString(colorReset)
		case WARN:
			sb.WriteString(colorYellow)
		case ERROR:
			sb.WriteString(colorRed)
		}
	}
	sb.WriteString(fmt.Sprintf("%-5s", level.String()))
	if l.colorEnabled {
		sb.WriteString(colorReset)
	}
	sb.WriteString(" ")

	if l.traceID != "" {
		if l.colorEnabled {
			sb.WriteString(colorGray)
		}
		// First 8 chars are enough to correlate with the file log
		short := l.traceID
		if len(short) > 8 {
			short = short[:8]
		}
		sb.WriteString(fmt.Sprintf("[%s] ", short))
		if l.colorEnabled {
			sb.WriteString(colorReset)
		}
	}

	if l.redactSensitive {
		msg = redactSensitiveData(msg)
	}
	sb.WriteString(msg)

	if len(fields) > 0 {
		sb.WriteString(" ")
		for i, field := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			value := fmt.Sprintf("%v", field.Value)
			if l.redactSensitive {
				value = redactSensitiveData(value)
			}
			sb.WriteString(field.Key)
			sb.WriteString("=")
			sb.WriteString(value)
		}
	}

	return sb.String()
}

func (l *ConsoleLogger) log(level LogLevel, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.writer, l.formatMessage(level, msg, fields...))
}

// Debug logs a debug-level message
func (l *ConsoleLogger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields...)
}

// Info logs an info-level message
func (l *ConsoleLogger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields...)
}

// Warn logs a warning-level message
func (l *ConsoleLogger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields...)
}

// Error logs an error-level message
func (l *ConsoleLogger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields...)
}

// WithTraceID returns a copy of the logger bound to a trace ID
func (l *ConsoleLogger) WithTraceID(traceID string) Logger {
	return &ConsoleLogger{
		writer:           l.writer,
		level:            l.level,
		traceID:          traceID,
		colorEnabled:     l.colorEnabled,
		timestampEnabled: l.timestampEnabled,
		redactSensitive:  l.redactSensitive,
	}
}

// WithContext binds the logger to the trace ID carried by ctx, if any
func (l *ConsoleLogger) WithContext(ctx context.Context) Logger {
	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		return l
	}
	return l.WithTraceID(traceID)
}

// SetLevel sets the minimum log level
func (l *ConsoleLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close is a no-op for the console logger
func (l *ConsoleLogger) Close() error {
	return nil
}
