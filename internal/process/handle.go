package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/go-texest/texest/internal/texerr"
)

// Handle is a spawned child process: its live capture buffers, and the
// exit result once reaped.
type Handle struct {
	Spec Spec

	Stdout *StreamCapture
	Stderr *StreamCapture

	cmd *exec.Cmd

	exited   chan struct{}
	exitCode int
	exitErr  error
}

// Spawn execs Spec's command with piped stdin/stdout/stderr; the runner's
// own streams are never inherited. Stdout and stderr are drained
// concurrently into their StreamCaptures as soon as the child starts.
func Spawn(spec Spec) (*Handle, error) {
	if len(spec.Argv) == 0 {
		return nil, texerr.WithPath(texerr.KindSpawn, "", fmt.Errorf("process %q: empty argv", spec.Name))
	}

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	if spec.Workdir != "" {
		cmd.Dir = spec.Workdir
	}
	cmd.Env = mergeEnv(os.Environ(), spec.Env)

	h := &Handle{
		Spec:   spec,
		Stdout: NewStreamCapture(),
		Stderr: NewStreamCapture(),
		cmd:    cmd,
		exited: make(chan struct{}),
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, texerr.WithPath(texerr.KindSpawn, "", fmt.Errorf("process %q: stdout pipe: %w", spec.Name, err))
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, texerr.WithPath(texerr.KindSpawn, "", fmt.Errorf("process %q: stderr pipe: %w", spec.Name, err))
	}
	if spec.HasStdin {
		cmd.Stdin = bytes.NewReader(spec.Stdin)
	}

	if err := cmd.Start(); err != nil {
		return nil, texerr.WithPath(texerr.KindSpawn, "", fmt.Errorf("process %q: %w", spec.Name, err))
	}

	var drain sync.WaitGroup
	drain.Add(2)
	go func() {
		defer drain.Done()
		io.Copy(h.Stdout, stdoutPipe) //nolint:errcheck
		h.Stdout.Close()
	}()
	go func() {
		defer drain.Done()
		io.Copy(h.Stderr, stderrPipe) //nolint:errcheck
		h.Stderr.Close()
	}()

	go func() {
		drain.Wait()
		h.recordExit(cmd.Wait())
		close(h.exited)
	}()

	return h, nil
}

// mergeEnv layers overrides on top of base, last write wins, as "KEY=value"
// pairs suitable for exec.Cmd.Env.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(overrides))
	merged = append(merged, base...)
	for k, v := range overrides {
		merged = append(merged, k+"="+v)
	}
	return merged
}

func (h *Handle) recordExit(err error) {
	h.exitErr = err
	if err == nil {
		h.exitCode = 0
		return
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			// A process killed by a signal reports 128+signal, so
			// `status: {eq: 143}` can assert a SIGTERM kill.
			h.exitCode = 128 + int(ws.Signal())
			return
		}
		h.exitCode = exitErr.ExitCode()
		return
	}
	h.exitCode = -1
}

// Wait blocks until the child has been reaped and returns its exit code.
// The returned error is non-nil only for a failure unrelated to the
// child's own exit status (e.g. the exec package itself erroring).
func (h *Handle) Wait() (int, error) {
	<-h.exited
	var exitErr *exec.ExitError
	if h.exitErr != nil && !errors.As(h.exitErr, &exitErr) {
		return h.exitCode, h.exitErr
	}
	return h.exitCode, nil
}

// Done reports the channel that closes once the child has been reaped,
// for callers that need to select across several handles at once.
func (h *Handle) Done() <-chan struct{} {
	return h.exited
}

// Pid returns the child's process ID once started.
func (h *Handle) Pid() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}
