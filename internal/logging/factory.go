package logging

import (
	"fmt"
	"net/http"
	"net/http/httputil"
)

// LogConfig configures the logger stack
type LogConfig struct {
	Level           LogLevel
	OutputFile      string
	MaxFileSize     int64
	EnableConsole   bool
	EnableDebug     bool
	EnableColor     bool
	EnableTimestamp bool
	RedactSensitive bool
}

// DefaultLogConfig returns sane defaults: console at INFO with redaction,
// 100 MiB file rotation when a file is configured.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:           INFO,
		MaxFileSize:     100 * 1024 * 1024,
		EnableConsole:   true,
		EnableColor:     true,
		EnableTimestamp: true,
		RedactSensitive: true,
	}
}

// NewLogger builds a logger from config. Console and file loggers are
// combined through a MultiLogger; with neither enabled a NoOpLogger is
// returned.
func NewLogger(config LogConfig) (Logger, error) {
	var loggers []Logger

	if config.EnableConsole {
		loggers = append(loggers, NewConsoleLogger(ConsoleLoggerConfig{
			Level:            config.Level,
			ColorEnabled:     config.EnableColor,
			TimestampEnabled: config.EnableTimestamp,
			RedactSensitive:  config.RedactSensitive,
		}))
	}

	if config.OutputFile != "" {
		maxSize := config.MaxFileSize
		if maxSize == 0 {
			maxSize = DefaultLogConfig().MaxFileSize
		}
		fileLogger, err := NewFileLogger(FileLoggerConfig{
			FilePath:      config.OutputFile,
			Level:         config.Level,
			MaxFileSize:   maxSize,
			RotateEnabled: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create file logger: %w", err)
		}
		loggers = append(loggers, fileLogger)
	}

	switch len(loggers) {
	case 0:
		return NewNoOpLogger(), nil
	case 1:
		return loggers[0], nil
	default:
		return NewMultiLogger(loggers...), nil
	}
}

// DebugTransport is an http.RoundTripper that dumps each request and
// response to the logger at DEBUG level. Only headers are dumped; the
// console logger's redaction strips credentials before display.
type DebugTransport struct {
	Base   http.RoundTripper
	Logger Logger
}

// RoundTrip implements http.RoundTripper
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if dump, err := httputil.DumpRequestOut(req, false); err == nil {
		t.Logger.Debug("HTTP request", F("dump", string(dump)))
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		t.Logger.Debug("HTTP transport error", F("error", err.Error()))
		return resp, err
	}

	if dump, err := httputil.DumpResponse(resp, false); err == nil {
		t.Logger.Debug("HTTP response", F("dump", string(dump)))
	}

	return resp, nil
}

// NewDebugLoggerWithTransport builds a logger and, when debug is enabled, a
// DebugTransport bound to it for wire-level tracing. The transport is nil
// when debug is off.
func NewDebugLoggerWithTransport(config LogConfig) (Logger, *DebugTransport, error) {
	logger, err := NewLogger(config)
	if err != nil {
		return nil, nil, err
	}
	if !config.EnableDebug {
		return logger, nil, nil
	}
	return logger, &DebugTransport{Logger: logger}, nil
}
