package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func readLog(t *testing.T, dir string) string {
	t.Helper()
	Close()
	b, err := os.ReadFile(LogPath(dir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(b)
}

func TestInitWritesWarningsOnly(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(Close)

	Debug("debug message")
	Info("info message")
	Warn("warn message", "habit", "h1")
	Error("error message")

	out := readLog(t, dir)
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("default level should drop debug and info:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "habit=h1") {
		t.Errorf("warning missing from log:\n%s", out)
	}
}

func TestInitDebugMirrorsToStderr(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	if err := Init(Config{Debug: true, ConfigDir: dir, Stderr: &stderr}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(Close)

	Debug("streak validated", "habit", "h1")
	if !strings.Contains(stderr.String(), "streak validated") {
		t.Errorf("debug output not mirrored: %q", stderr.String())
	}
	if !strings.Contains(readLog(t, dir), "streak validated") {
		t.Error("debug output not written to file")
	}
}

func TestInitLevelAndJSON(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir, Level: "info", JSON: true}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(Close)

	Info("habit created", "habit", "h1")

	line := strings.TrimSpace(readLog(t, dir))
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, line)
	}
	if rec["msg"] != "habit created" || rec["habit"] != "h1" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init(Config{ConfigDir: t.TempDir(), Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Close()

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
