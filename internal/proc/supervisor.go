package proc

import (
	"fmt"
	"os"

	"github.com/victor-hucklenbroich/desk-controller/internal/config"
	"github.com/victor-hucklenbroich/desk-controller/internal/debug"
)

// Supervisor maps logical desk actions to concrete command lines and owns
// the subprocess plumbing: the long-running server job plus transient
// shell sessions for one-shot commands.
//
// All process-boundary failures stop here. One-shot commands are logged
// and swallowed - the caller gets no signal whether the physical move
// succeeded, so a failed move leaves the desk out of sync with the UI's
// displayed target. Known trade-off, kept deliberately.
type Supervisor struct {
	cfg config.Config
}

// NewSupervisor creates a supervisor for the configured controller tool.
func NewSupervisor(cfg config.Config) *Supervisor {
	return &Supervisor{cfg: cfg}
}

// StartServer launches the controller's long-running server mode.
// Exactly one server is expected per application lifetime.
func (s *Supervisor) StartServer() (*Job, error) {
	job, err := StartJob(s.cfg.Tool, "--server")
	if err != nil {
		debug.Log("SUPERVISOR_SERVER_SPAWN_ERROR tool=%s error=%v", s.cfg.Tool, err)
		return nil, fmt.Errorf("failed to start controller server: %w", err)
	}
	return job, nil
}

// RunOneShot opens a transient shell session, sends exactly one command,
// logs the result, and guarantees the session is closed before returning.
// Errors never propagate upward.
func (s *Supervisor) RunOneShot(commandLine string) {
	session, err := OpenShellSession(s.cfg.Shell, nil, WithQuietPeriod(s.cfg.QuietPeriod()))
	if err != nil {
		debug.Log("SUPERVISOR_ONESHOT_SPAWN_ERROR shell=%s error=%v", s.cfg.Shell, err)
		fmt.Fprintf(os.Stderr, "WARNING: failed to open command session: %v\n", err)
		return
	}
	defer func() {
		if err := session.Close(); err != nil {
			debug.Log("SUPERVISOR_ONESHOT_CLOSE_ERROR id=%s error=%v", session.ID(), err)
		}
	}()

	lines, err := session.Send(commandLine)
	if err != nil {
		debug.Log("SUPERVISOR_ONESHOT_SEND_ERROR id=%s error=%v", session.ID(), err)
		fmt.Fprintf(os.Stderr, "WARNING: command %q failed: %v\n", commandLine, err)
		return
	}

	debug.Log("SUPERVISOR_ONESHOT_DONE id=%s command=%q lines=%d", session.ID(), commandLine, len(lines))
	for _, line := range lines {
		debug.Log("SUPERVISOR_ONESHOT_OUTPUT id=%s line=%q", session.ID(), line)
	}
}

// MoveTo issues the physical move command for the given height. The
// height is scaled by the configured unit multiplier on the way out.
func (s *Supervisor) MoveTo(target int) {
	s.RunOneShot(s.moveCommand(target))
}

func (s *Supervisor) moveCommand(target int) string {
	return fmt.Sprintf("%s --forward --move-to %d", s.cfg.Tool, target*s.cfg.UnitMultiplier)
}
