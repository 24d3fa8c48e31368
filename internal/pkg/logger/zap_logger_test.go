package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	var log ILogger = NewIsolatedLogger(logPath)

	log.Info("test_module", "first entry", map[string]interface{}{"key": "value"})
	log.Warn("test_module", "second entry", nil)
	log.Error("test_module", "third entry", map[string]interface{}{"error": "boom"})
	if err := log.Sync(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	content := string(data)

	for _, want := range []string{"first entry", "second entry", "third entry", "test_module", "error_ref"} {
		if !strings.Contains(content, want) {
			t.Errorf("log output missing %q", want)
		}
	}
	if lines := strings.Count(strings.TrimSpace(content), "\n") + 1; lines != 3 {
		t.Errorf("wrote %d lines, want 3", lines)
	}
}

func TestZapLoggerNilDetails(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	log := NewZapLogger(logPath, true)

	// Must not panic on nil detail maps at any level.
	log.Debug("m", "d", nil)
	log.Info("m", "i", nil)
	log.Warn("m", "w", nil)
	log.Error("m", "e", nil)
}
