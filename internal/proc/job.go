package proc

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
)

// Job represents a fire-and-forget background subprocess, such as the
// desk controller's long-running server mode. Jobs are never restarted;
// the owner stops them explicitly on shutdown.
type Job struct {
	name   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	exited chan struct{}

	mu     sync.Mutex
	active bool
}

// StartJob spawns the command with stdin piped and stdout/stderr
// discarded.
func StartJob(name string, args ...string) (*Job, error) {
	cmd := exec.Command(name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to pipe stdin for %s: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to spawn %s: %w", name, err)
	}

	j := &Job{
		name:   name,
		cmd:    cmd,
		stdin:  stdin,
		exited: make(chan struct{}),
		active: true,
	}
	go func() {
		cmd.Wait()
		close(j.exited)
	}()

	debug.Log("JOB_STARTED name=%s pid=%d", name, cmd.Process.Pid)
	return j, nil
}

// IsRunning reports whether the process has not yet exited. Non-blocking.
func (j *Job) IsRunning() bool {
	select {
	case <-j.exited:
		return false
	default:
		return true
	}
}

// Stop terminates the job: SIGTERM, wait up to 2s, then SIGKILL and wait
// for it to land. Idempotent; the job is marked inactive regardless of
// outcome.
func (j *Job) Stop() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.active {
		return nil
	}
	j.active = false

	if !j.IsRunning() {
		debug.Log("JOB_ALREADY_EXITED name=%s", j.name)
		return nil
	}

	j.stdin.Close()

	if err := j.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		debug.Log("JOB_TERM_ERROR name=%s error=%v", j.name, err)
	}

	select {
	case <-j.exited:
		debug.Log("JOB_STOPPED name=%s", j.name)
		return nil
	case <-time.After(terminateGrace):
	}

	debug.Log("JOB_KILL name=%s", j.name)
	if err := j.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill %s: %w", j.name, err)
	}
	<-j.exited
	debug.Log("JOB_STOPPED name=%s forced=true", j.name)
	return nil
}
