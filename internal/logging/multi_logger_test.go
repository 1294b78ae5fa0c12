package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newBufferedConsole(buf *bytes.Buffer, level LogLevel) *ConsoleLogger {
	return NewConsoleLogger(ConsoleLoggerConfig{
		Writer:           buf,
		Level:            level,
		ColorEnabled:     false,
		TimestampEnabled: false,
	})
}

func TestMultiLogger_Creation(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiLogger(newBufferedConsole(&buf, INFO))
	if multi == nil {
		t.Fatal("NewMultiLogger() returned nil")
	}
}

func TestMultiLogger_LogsToAll(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	multi := NewMultiLogger(newBufferedConsole(&buf1, INFO), newBufferedConsole(&buf2, INFO))
	multi.Info("upload complete", F("path", "/Public/a.txt"))

	output1 := buf1.String()
	output2 := buf2.String()

	if output1 == "" {
		t.Error("First logger didn't receive message")
	}
	if output2 == "" {
		t.Error("Second logger didn't receive message")
	}
	if output1 != output2 {
		t.Errorf("Loggers produced different output:\n%s\n%s", output1, output2)
	}
	if !strings.Contains(output1, "path=/Public/a.txt") {
		t.Errorf("Output missing field: %q", output1)
	}
}

func TestMultiLogger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiLogger(newBufferedConsole(&buf, DEBUG))

	multi.Debug("chunk sent")
	multi.Info("download")
	multi.Warn("item skipped")
	multi.Error("upload failed")

	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		if !strings.Contains(buf.String(), level) {
			t.Errorf("Output missing %s entry", level)
		}
	}
}

func TestMultiLogger_WithTraceID(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiLogger(newBufferedConsole(&buf, INFO))

	multi.WithTraceID("trace-123").Info("metadata")

	if !strings.Contains(buf.String(), "trace-12") {
		t.Errorf("Output missing trace ID prefix: %q", buf.String())
	}
}

func TestMultiLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiLogger(newBufferedConsole(&buf, INFO))

	ctx := ContextWithTraceID(context.Background(), "ctx-trace")
	multi.WithContext(ctx).Info("metadata")

	if buf.String() == "" {
		t.Error("Context logger didn't log anything")
	}
}

func TestMultiLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiLogger(newBufferedConsole(&buf, DEBUG))

	multi.Debug("logged")

	multi.SetLevel(ERROR)

	multi.Debug("filtered")
	multi.Info("filtered")
	multi.Error("logged")

	if strings.Contains(buf.String(), "filtered") {
		t.Errorf("SetLevel did not propagate: %q", buf.String())
	}
	if strings.Count(buf.String(), "logged") != 2 {
		t.Errorf("Expected 2 logged entries, got output %q", buf.String())
	}
}

func TestMultiLogger_Close(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dropbox-api.log")

	fileLogger, err := NewFileLogger(FileLoggerConfig{
		FilePath: logPath,
		Level:    INFO,
	})
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}

	multi := NewMultiLogger(fileLogger)

	if err := multi.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestMultiLogger_FileAndConsole(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dropbox-api.log")

	var buf bytes.Buffer

	fileLogger, err := NewFileLogger(FileLoggerConfig{
		FilePath: logPath,
		Level:    INFO,
	})
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}

	multi := NewMultiLogger(fileLogger, newBufferedConsole(&buf, INFO))

	multi.Info("download", F("path", "/Photos/a.jpg"))

	if err := multi.Close(); err != nil {
		t.Fatalf("Failed to close multi logger: %v", err)
	}

	if buf.String() == "" {
		t.Error("Console didn't receive message")
	}

	fileData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(fileData) == 0 {
		t.Error("Log file is empty")
	}
}
