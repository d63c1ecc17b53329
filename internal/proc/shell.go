package proc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
)

const (
	// pollInterval is how often Send checks the line queue while waiting
	// for the quiet period to elapse.
	pollInterval = 100 * time.Millisecond

	// terminateGrace is how long Close waits after SIGTERM before
	// escalating to SIGKILL.
	terminateGrace = 2 * time.Second
)

// ShellSession owns one interactive subprocess. It is the sole writer to
// the process's stdin and the sole reader of its merged stdout/stderr
// stream. One reader goroutine runs for the lifetime of the session,
// appending output lines to an unbounded FIFO queue that Send drains.
type ShellSession struct {
	id     string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	quiet  time.Duration
	exited chan struct{}

	queueMu sync.Mutex
	queue   []string

	closeOnce sync.Once
	closeErr  error
}

// SessionOption customizes an opened session.
type SessionOption func(*ShellSession)

// WithQuietPeriod overrides the default 2s quiet period.
func WithQuietPeriod(d time.Duration) SessionOption {
	return func(s *ShellSession) {
		if d > 0 {
			s.quiet = d
		}
	}
}

// OpenShellSession spawns the given command with piped stdin and a merged
// stdout/stderr stream, and starts the reader goroutine. The caller must
// Close the session on every exit path, typically via defer.
func OpenShellSession(name string, args []string, opts ...SessionOption) (*ShellSession, error) {
	s := &ShellSession{
		id:     uuid.New().String(),
		quiet:  2 * time.Second,
		exited: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	cmd := exec.Command(name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to pipe stdin for %s: %w", name, err)
	}

	// Merge stdout and stderr into a single pipe so the reader sees lines
	// in the order the process emitted them.
	pr, pw, err := os.Pipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		stdin.Close()
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("failed to spawn %s: %w", name, err)
	}

	// The parent must drop its write end or the reader never sees EOF.
	pw.Close()

	s.cmd = cmd
	s.stdin = stdin

	go s.readLines(pr)
	go func() {
		cmd.Wait()
		close(s.exited)
	}()

	debug.Log("SESSION_OPENED id=%s command=%s pid=%d", s.id, name, cmd.Process.Pid)
	return s, nil
}

// ID returns the session's correlation id used in debug logs.
func (s *ShellSession) ID() string {
	return s.id
}

// readLines is the single reader goroutine. It appends each right-trimmed
// output line to the queue until the stream closes. A read error is
// recorded as one synthetic line rather than raised, so stragglers already
// queued are still delivered.
func (s *ShellSession) readLines(r io.ReadCloser) {
	defer r.Close()

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		s.enqueue(line)
	}

	if err := scanner.Err(); err != nil {
		debug.Log("SESSION_READ_ERROR id=%s error=%v", s.id, err)
		s.enqueue(fmt.Sprintf("read error: %v", err))
	}
	debug.Log("SESSION_READER_DONE id=%s", s.id)
}

func (s *ShellSession) enqueue(line string) {
	s.queueMu.Lock()
	s.queue = append(s.queue, line)
	s.queueMu.Unlock()
}

// takeLines drains and returns all currently queued lines in FIFO order.
func (s *ShellSession) takeLines() []string {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	if len(s.queue) == 0 {
		return nil
	}
	lines := s.queue
	s.queue = nil
	return lines
}

// Alive reports whether the subprocess has not yet exited. Non-blocking.
func (s *ShellSession) Alive() bool {
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

// Send writes command plus a newline to the process and collects output
// lines until the quiet period elapses with no new line arriving. Every
// dequeued line resets the inactivity clock, so output that keeps
// trickling in extends the wait indefinitely. An empty result after the
// quiet period is normal completion, not a failure.
//
// Lines emitted by the process after Send returns stay queued and are
// delivered by the next Send on this session.
func (s *ShellSession) Send(command string) ([]string, error) {
	if !s.Alive() {
		return nil, fmt.Errorf("%w: cannot send %q", ErrProcessTerminated, command)
	}

	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		debug.Log("SESSION_WRITE_ERROR id=%s error=%v", s.id, err)
		return nil, fmt.Errorf("%w: write failed: %v", ErrProcessTerminated, err)
	}

	debug.Log("SESSION_SEND id=%s command=%q", s.id, command)

	var out []string
	lastLine := time.Now()
	for {
		if batch := s.takeLines(); len(batch) > 0 {
			out = append(out, batch...)
			lastLine = time.Now()
		}
		if time.Since(lastLine) >= s.quiet {
			debug.Log("SESSION_SEND_DONE id=%s lines=%d", s.id, len(out))
			return out, nil
		}
		time.Sleep(pollInterval)
	}
}

// Close terminates the subprocess: SIGTERM, wait up to 2s, then SIGKILL
// and wait for the kill to land. Safe to call multiple times and on every
// exit path of the call site that opened the session.
func (s *ShellSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.terminate()
	})
	return s.closeErr
}

func (s *ShellSession) terminate() error {
	// Closing stdin lets well-behaved shells exit on their own.
	s.stdin.Close()

	select {
	case <-s.exited:
		debug.Log("SESSION_CLOSED id=%s", s.id)
		return nil
	default:
	}

	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		debug.Log("SESSION_TERM_ERROR id=%s error=%v", s.id, err)
	}

	select {
	case <-s.exited:
		debug.Log("SESSION_CLOSED id=%s", s.id)
		return nil
	case <-time.After(terminateGrace):
	}

	debug.Log("SESSION_KILL id=%s", s.id)
	if err := s.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill session process: %w", err)
	}
	<-s.exited
	debug.Log("SESSION_CLOSED id=%s forced=true", s.id)
	return nil
}
