package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pdfkit.log")

	logger, err := NewLogger("debug", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	logger.Debugw("hello", "tool", "merge")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"tool":"merge"`) {
		t.Errorf("Expected structured field in log, got: %s", data)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfkit.log")

	logger, err := NewLogger("error", path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	logger.Info("quiet")
	logger.Error("loud")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") {
		t.Error("Expected info message to be filtered at error level")
	}
	if !strings.Contains(string(data), "loud") {
		t.Error("Expected error message to be logged")
	}
}
