//go:build windows

package render

import "os/exec"

// setProcessGroup is a no-op on windows; the context cancel kills the
// renderer process itself and WaitDelay releases the pipes.
func setProcessGroup(cmd *exec.Cmd) {}
