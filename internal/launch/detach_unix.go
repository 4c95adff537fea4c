//go:build !windows

package launch

import (
	"os/exec"
	"syscall"
)

// detach puts the process in its own session so it survives devhub exiting
// and never receives the terminal's signals.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
