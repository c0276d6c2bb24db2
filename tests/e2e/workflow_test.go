package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("SIXTYSIX_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	cliPath := filepath.Join(binDir, "sixtysix")

	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/sixtysix ./cmd/sixtysix'.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "sixtysix", "sixtysix.db")

	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "SIXTYSIX_") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("SIXTYSIX_CONFIG=%s", dbPath),
		"SIXTYSIX_TIMEZONE=UTC",
	)

	// 2. Initialize and allow notifications
	out := runCmd(t, cliPath, cleanEnv, "init")
	if !strings.Contains(out, "Initialized sixtysix storage") {
		t.Fatalf("unexpected init output: %s", out)
	}
	runCmd(t, cliPath, cleanEnv, "permission", "grant")

	// 3. Create a habit with a reminder
	out = runCmd(t, cliPath, cleanEnv, "habit", "add", "Read", "--remind", "07:00")
	if !strings.Contains(out, "Read") {
		t.Fatalf("unexpected add output: %s", out)
	}

	out = runCmd(t, cliPath, cleanEnv, "notifications", "list")
	if !strings.Contains(out, "daily at 07:00") {
		t.Errorf("reminder intent not registered:\n%s", out)
	}

	// 4. Check in and verify the stored record
	out = runCmd(t, cliPath, cleanEnv, "checkin", "Read")
	if !strings.Contains(out, "day 1/66") {
		t.Errorf("unexpected checkin output: %s", out)
	}
	out = runCmd(t, cliPath, cleanEnv, "checkin", "Read")
	if !strings.Contains(out, "already checked in") {
		t.Errorf("repeat checkin should be a no-op: %s", out)
	}

	var habit struct {
		CurrentStreak int    `json:"current_streak"`
		Chapter       int    `json:"chapter"`
		Status        string `json:"status"`
	}
	out = runCmd(t, cliPath, cleanEnv, "habit", "show", "Read", "--json")
	if err := json.Unmarshal([]byte(out), &habit); err != nil {
		t.Fatalf("invalid habit JSON: %v\n%s", err, out)
	}
	if habit.CurrentStreak != 1 || habit.Chapter != 1 || habit.Status != "active" {
		t.Errorf("unexpected habit record: %+v", habit)
	}

	// 5. Checked-in habits drop out of the evening summary
	out = runCmd(t, cliPath, cleanEnv, "notifications", "list")
	if strings.Contains(out, "emergency-daily-summary") {
		t.Errorf("summary should be cancelled once every habit is checked in:\n%s", out)
	}

	// 6. Backups
	out = runCmd(t, cliPath, cleanEnv, "backup", "create")
	if !strings.Contains(out, "Backup created") {
		t.Errorf("unexpected backup output: %s", out)
	}
	out = runCmd(t, cliPath, cleanEnv, "backup", "list")
	if !strings.Contains(out, "sixtysix-") {
		t.Errorf("backup not listed:\n%s", out)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}
