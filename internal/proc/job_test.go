package proc

import (
	"testing"
	"time"
)

func TestStartJob_SpawnFailure(t *testing.T) {
	_, err := StartJob("/nonexistent/no-such-tool", "--server")
	if err == nil {
		t.Fatal("StartJob succeeded for a nonexistent binary")
	}
}

func TestJob_IsRunning(t *testing.T) {
	job, err := StartJob("sleep", "5")
	if err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}
	defer job.Stop()

	if !job.IsRunning() {
		t.Error("IsRunning = false for a live process")
	}
}

func TestJob_IsRunningAfterNaturalExit(t *testing.T) {
	job, err := StartJob("true")
	if err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for job.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if job.IsRunning() {
		t.Error("IsRunning = true after the process exited")
	}

	// Stop on an already-exited job is a no-op.
	if err := job.Stop(); err != nil {
		t.Errorf("Stop after natural exit failed: %v", err)
	}
}

func TestJob_StopIsIdempotent(t *testing.T) {
	job, err := StartJob("sleep", "10")
	if err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}

	if err := job.Stop(); err != nil {
		t.Errorf("first Stop failed: %v", err)
	}
	if job.IsRunning() {
		t.Error("IsRunning = true after Stop")
	}

	if err := job.Stop(); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
	if job.IsRunning() {
		t.Error("IsRunning = true after second Stop")
	}
}
