package proc

import "errors"

// ErrProcessTerminated is returned by ShellSession.Send when the
// underlying process has already exited or its stdin pipe is broken.
var ErrProcessTerminated = errors.New("process terminated")
