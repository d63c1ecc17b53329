package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, tool string) {
	t.Helper()
	data := `{"tool": "` + tool + `", "shell": "/bin/sh", "min_height": 63, "max_height": 127, "unit_multiplier": 10}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

// awaitEvent reads events until match returns true or the timeout hits.
func awaitEvent(t *testing.T, ch <-chan ConfigEvent, match func(ConfigEvent) bool) ConfigEvent {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				t.Fatal("event channel closed")
			}
			if match(event) {
				return event
			}
		case <-deadline:
			t.Fatal("timed out waiting for config event")
		}
	}
}

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfig(t, path, "idasen-controller")

	w, err := NewConfigWatcher(path)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	defer w.Close()

	ch := w.Start()

	// fsnotify needs a beat to arm the directory watch.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "desk-ctl")

	event := awaitEvent(t, ch, func(e ConfigEvent) bool {
		return e.Err == nil && e.Config.Tool == "desk-ctl"
	})
	if event.Config.Shell != "/bin/sh" {
		t.Errorf("reloaded config shell = %q", event.Config.Shell)
	}
}

func TestConfigWatcher_EmitsErrorForMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfig(t, path, "idasen-controller")

	w, err := NewConfigWatcher(path)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	defer w.Close()

	ch := w.Start()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	awaitEvent(t, ch, func(e ConfigEvent) bool {
		return e.Err != nil
	})
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfig(t, path, "idasen-controller")

	w, err := NewConfigWatcher(path)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	defer w.Close()

	ch := w.Start()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case event := <-ch:
		t.Errorf("unexpected event for unrelated file: %+v", event)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestConfigWatcher_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, "idasen-controller")

	w, err := NewConfigWatcher(path)
	if err != nil {
		t.Fatalf("NewConfigWatcher failed: %v", err)
	}
	w.Start()

	if err := w.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
