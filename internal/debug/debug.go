// Package debug provides env-gated debug logging for desk-controller.
// Logging is enabled by setting DESK_TUI_DEBUG to any non-empty value;
// lines are appended to the debug log file in the state directory as
// timestamped EVENT key=value records.
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/victor-hucklenbroich/desk-controller/internal/paths"
)

var (
	mu      sync.Mutex
	enabled = os.Getenv("DESK_TUI_DEBUG") != ""
)

// Enabled reports whether debug logging is active.
func Enabled() bool {
	return enabled
}

// Log writes a formatted debug line if debug mode is enabled.
// Failures to write are silently ignored - debug logging must never
// affect application behavior.
func Log(format string, args ...interface{}) {
	if !enabled {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if err := paths.EnsureStateDir(); err != nil {
		return
	}

	f, err := os.OpenFile(paths.DebugLogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	ts := time.Now().Format("2006-01-02T15:04:05.000")
	fmt.Fprintf(f, "%s %s\n", ts, fmt.Sprintf(format, args...))
}
