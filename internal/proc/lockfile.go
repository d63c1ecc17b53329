package proc

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
)

// LockFile enforces a single desk-controller instance per machine. Two
// UIs driving one desk would race move commands against each other, so
// the TUI takes an exclusive flock before starting the server job.
type LockFile struct {
	path string
	file *os.File
}

// AcquireLockFile takes an exclusive, non-blocking lock on path. It
// returns an error if another instance already holds the lock. The lock
// is released when Release is called or the process exits.
func AcquireLockFile(path string) (*LockFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return nil, fmt.Errorf("desk-controller already running (lock held at %s)", path)
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	// PID is informational, for diagnosing a stale-looking lock by hand.
	if err := file.Truncate(0); err == nil {
		if _, err := file.Seek(0, 0); err == nil {
			fmt.Fprintf(file, "%d\n", os.Getpid())
			file.Sync()
		}
	}

	debug.Log("LOCKFILE_ACQUIRED path=%s pid=%d", path, os.Getpid())
	return &LockFile{path: path, file: file}, nil
}

// Release unlocks and closes the lock file. Safe to call once.
func (l *LockFile) Release() error {
	if l.file == nil {
		return nil
	}

	var errs []error
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		errs = append(errs, fmt.Errorf("failed to release lock: %w", err))
	}
	if err := l.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close lock file: %w", err))
	}
	l.file = nil

	debug.Log("LOCKFILE_RELEASED path=%s", l.path)
	return errors.Join(errs...)
}
