package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logLevel string
	}{
		{
			name:     "Valid debug level",
			level:    "debug",
			logLevel: "DEBUG",
		},
		{
			name:     "Valid info level",
			level:    "info",
			logLevel: "INFO",
		},
		{
			name:     "Valid warn level",
			level:    "warn",
			logLevel: "WARN",
		},
		{
			name:     "Valid error level",
			level:    "error",
			logLevel: "ERROR",
		},
		{
			name:     "Invalid level defaults to info",
			level:    "invalid",
			logLevel: "INFO",
		},
		{
			name:     "Empty level defaults to info",
			level:    "",
			logLevel: "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Fatal("New() returned nil")
			}

			if got := log.GetLevel().String(); got != tt.logLevel {
				t.Errorf("New(%q) log level = %q, want %q", tt.level, got, tt.logLevel)
			}
		})
	}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_WithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("importer").Info("test message")

	entry := decodeLine(t, &buf)
	if entry["module"] != "importer" {
		t.Errorf("Expected module %q, got %v", "importer", entry["module"])
	}
	if entry["message"] != "test message" {
		t.Errorf("Expected message %q, got %v", "test message", entry["message"])
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{
		"inserted": 3,
		"skipped":  1,
	}).Info("import complete")

	entry := decodeLine(t, &buf)
	if entry["inserted"] != float64(3) {
		t.Errorf("Expected inserted=3, got %v", entry["inserted"])
	}
	if entry["skipped"] != float64(1) {
		t.Errorf("Expected skipped=1, got %v", entry["skipped"])
	}
}

func TestLogger_LevelKeysRenamed(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Warn("something odd")

	entry := decodeLine(t, &buf)
	if entry["level"] != "warning" {
		t.Errorf("Expected level %q, got %v", "warning", entry["level"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("Expected timestamp key in log entry")
	}
}

func TestLogger_DebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("Expected no output for debug at info level, got %q", buf.String())
	}
}
