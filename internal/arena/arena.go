// Package arena implements the per-case resource bag: temp files and
// reserved TCP ports created while evaluating expressions, released
// unconditionally at the end of the case.
package arena

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Arena owns the temp files and port reservations created for a single
// case. Its lifetime begins at case setup and ends once the case's final
// process has been reaped and its expectations evaluated; ReleaseAll is
// guaranteed to run even when the case fails or panics, by tying it to a
// defer at the call site.
type Arena struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	files []string
	ports []int
}

// New creates an Arena with its own subdirectory under baseDir, named with
// a fresh UUID so that concurrent runs (or successive runs sharing a temp
// root) never collide.
func New(baseDir string, logger *slog.Logger) (*Arena, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Join(baseDir, "case-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create arena directory: %w", err)
	}
	return &Arena{dir: dir, logger: logger}, nil
}

// NewTempFile writes content to a freshly created file within the arena's
// directory and returns its absolute path. File mode is 0o600 per spec.
func (a *Arena) NewTempFile(content []byte) (string, error) {
	f, err := os.CreateTemp(a.dir, "tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if err := os.Chmod(path, 0o600); err != nil {
		f.Close()
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	a.mu.Lock()
	a.files = append(a.files, path)
	a.mu.Unlock()
	return path, nil
}

// ReservePort binds a loopback TCP socket on port 0 to learn a free
// ephemeral port, then closes the socket before returning. The caller must
// treat the reservation as best-effort: nothing prevents another process
// from binding the same port between this call returning and the child
// being spawned (see spec §9).
func (a *Arena) ReservePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("reserve port: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		return 0, fmt.Errorf("close reserved port listener: %w", err)
	}

	a.mu.Lock()
	a.ports = append(a.ports, port)
	a.mu.Unlock()
	return port, nil
}

// ReservedFiles returns the temp file paths created so far, for diagnostics.
func (a *Arena) ReservedFiles() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.files))
	copy(out, a.files)
	return out
}

// ReservedPorts returns the ports reserved so far, for diagnostics.
func (a *Arena) ReservedPorts() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int, len(a.ports))
	copy(out, a.ports)
	return out
}

// ReleaseAll deletes the arena's temp directory. It is infallible and
// idempotent: any error removing the directory is logged, never returned,
// so that orchestration can always proceed to the next case.
func (a *Arena) ReleaseAll() {
	a.mu.Lock()
	dir := a.dir
	a.mu.Unlock()

	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		a.logger.Warn("failed to release arena temp directory", "dir", dir, "error", err)
	}
}
