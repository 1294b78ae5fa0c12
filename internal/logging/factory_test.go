package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultLogConfig(t *testing.T) {
	config := DefaultLogConfig()

	if config.Level != INFO {
		t.Errorf("Expected Level=INFO, got %v", config.Level)
	}
	if !config.EnableConsole {
		t.Error("Expected EnableConsole=true")
	}
	if !config.RedactSensitive {
		t.Error("Expected RedactSensitive=true")
	}
	if config.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected MaxFileSize=104857600, got %v", config.MaxFileSize)
	}
}

func TestNewLogger_ConsoleOnly(t *testing.T) {
	logger, err := NewLogger(LogConfig{
		Level:         INFO,
		EnableConsole: true,
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if _, ok := logger.(*ConsoleLogger); !ok {
		t.Errorf("Expected ConsoleLogger, got %T", logger)
	}
}

func TestNewLogger_FileOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dropbox-api.log")

	logger, err := NewLogger(LogConfig{
		Level:         INFO,
		EnableConsole: false,
		OutputFile:    logPath,
		MaxFileSize:   1024,
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if _, ok := logger.(*FileLogger); !ok {
		t.Errorf("Expected FileLogger, got %T", logger)
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestNewLogger_Both(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dropbox-api.log")

	logger, err := NewLogger(LogConfig{
		Level:         INFO,
		EnableConsole: true,
		OutputFile:    logPath,
		MaxFileSize:   1024,
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if _, ok := logger.(*MultiLogger); !ok {
		t.Errorf("Expected MultiLogger, got %T", logger)
	}
}

func TestNewLogger_NoOp(t *testing.T) {
	logger, err := NewLogger(LogConfig{
		Level:         INFO,
		EnableConsole: false,
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if _, ok := logger.(*NoOpLogger); !ok {
		t.Errorf("Expected NoOpLogger, got %T", logger)
	}
}

func TestNewLogger_InvalidPath(t *testing.T) {
	invalidPath := "/invalid/path/that/does/not/exist/dropbox-api.log"
	if runtime.GOOS == "windows" {
		invalidPath = `Z:\nonexistent\path\that\does\not\exist\dropbox-api.log`
	}

	_, err := NewLogger(LogConfig{
		Level:         INFO,
		EnableConsole: false,
		OutputFile:    invalidPath,
	})
	if err == nil {
		t.Error("Expected error for invalid path, got nil")
	}
}

func TestNewDebugLoggerWithTransport(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dropbox-api.log")

	logger, transport, err := NewDebugLoggerWithTransport(LogConfig{
		Level:         DEBUG,
		EnableConsole: false,
		OutputFile:    logPath,
		EnableDebug:   true,
	})
	if err != nil {
		t.Fatalf("NewDebugLoggerWithTransport() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if transport == nil {
		t.Fatal("DebugTransport is nil")
	}
}

func TestNewDebugLoggerWithTransport_NoDebug(t *testing.T) {
	logger, transport, err := NewDebugLoggerWithTransport(LogConfig{
		Level:         INFO,
		EnableConsole: true,
		EnableDebug:   false,
	})
	if err != nil {
		t.Fatalf("NewDebugLoggerWithTransport() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	if transport != nil {
		t.Error("Expected nil DebugTransport when EnableDebug=false")
	}
}
