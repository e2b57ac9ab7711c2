//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate puts the command in its own process group so that a timeout can
// take down the renderer together with any interpreter children it spawned.
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the caller still kills the leader through os.Process.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
