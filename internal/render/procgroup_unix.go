//go:build unix

package render

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the renderer in its own process group and kills the
// whole group on cancellation, so forked worker processes die with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
}
