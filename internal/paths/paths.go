package paths

import (
	"os"
	"path/filepath"
)

const (
	stateDirName  = "desk-controller"
	configDirName = "desk-controller"
)

// StateDir returns the directory for runtime state (lock file, debug log).
// Overridable via DESK_STATE_DIR for tests and multi-user setups.
func StateDir() string {
	if dir := os.Getenv("DESK_STATE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), stateDirName)
}

// ConfigFile returns the path to the JSON configuration file.
// Overridable via DESK_CONFIG.
func ConfigFile() string {
	if path := os.Getenv("DESK_CONFIG"); path != "" {
		return path
	}
	base, err := os.UserConfigDir()
	if err != nil {
		// No home directory - fall back to the state dir
		return filepath.Join(StateDir(), "config.json")
	}
	return filepath.Join(base, configDirName, "config.json")
}

// LockFile returns the single-instance lock file path for the TUI.
func LockFile() string {
	return filepath.Join(StateDir(), "tui.lock")
}

// DebugLogFile returns the debug log path.
func DebugLogFile() string {
	return filepath.Join(StateDir(), "debug.log")
}

// EnsureStateDir creates the state directory if it does not exist.
func EnsureStateDir() error {
	return os.MkdirAll(StateDir(), 0755)
}
