package process

import (
	"syscall"
	"time"

	gopsprocess "github.com/shirou/gopsutil/v4/process"
)

// TerminationGrace is the delay between SIGTERM and SIGKILL applied to a
// background process still running once the foreground process exits.
const TerminationGrace = 1 * time.Second

// Terminate signals h with SIGTERM, waits up to TerminationGrace for it to
// exit, and escalates to SIGKILL if it is still alive. It returns once the
// process has been reaped (or immediately, if it had already exited).
func (h *Handle) Terminate() {
	select {
	case <-h.exited:
		return
	default:
	}

	pid := h.Pid()
	if pid == 0 {
		return
	}
	_ = h.cmd.Process.Signal(syscall.SIGTERM)

	timer := time.NewTimer(TerminationGrace)
	defer timer.Stop()
	select {
	case <-h.exited:
		return
	case <-timer.C:
	}

	if alive(pid) {
		_ = h.cmd.Process.Signal(syscall.SIGKILL)
	}
	<-h.exited
}

// alive reports whether pid still names a running process, used to avoid
// signaling a pid that has already been reaped by the OS (and possibly
// reused) between the grace timer firing and the kill signal.
func alive(pid int) bool {
	running, err := gopsprocess.PidExists(int32(pid))
	if err != nil {
		return false
	}
	return running
}
