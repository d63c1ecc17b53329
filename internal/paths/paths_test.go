package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestStateDir_Override(t *testing.T) {
	t.Setenv("DESK_STATE_DIR", "/custom/state")
	if got := StateDir(); got != "/custom/state" {
		t.Errorf("StateDir() = %q, want /custom/state", got)
	}
	if got := LockFile(); got != "/custom/state/tui.lock" {
		t.Errorf("LockFile() = %q", got)
	}
	if got := DebugLogFile(); got != "/custom/state/debug.log" {
		t.Errorf("DebugLogFile() = %q", got)
	}
}

func TestStateDir_Default(t *testing.T) {
	t.Setenv("DESK_STATE_DIR", "")
	if got := StateDir(); !strings.HasSuffix(got, "desk-controller") {
		t.Errorf("StateDir() = %q, want a desk-controller dir", got)
	}
}

func TestConfigFile_Override(t *testing.T) {
	t.Setenv("DESK_CONFIG", "/custom/config.json")
	if got := ConfigFile(); got != "/custom/config.json" {
		t.Errorf("ConfigFile() = %q, want /custom/config.json", got)
	}
}

func TestConfigFile_Default(t *testing.T) {
	t.Setenv("DESK_CONFIG", "")
	got := ConfigFile()
	if filepath.Base(got) != "config.json" {
		t.Errorf("ConfigFile() = %q, want a config.json path", got)
	}
}

func TestEnsureStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	t.Setenv("DESK_STATE_DIR", dir)
	if err := EnsureStateDir(); err != nil {
		t.Fatalf("EnsureStateDir failed: %v", err)
	}
	// Idempotent.
	if err := EnsureStateDir(); err != nil {
		t.Fatalf("second EnsureStateDir failed: %v", err)
	}
}
