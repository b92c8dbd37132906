// Package process implements the spawn/capture/wait/terminate lifecycle of
// a single child process: piped streams, concurrent stdout/stderr capture
// that wait-conditions can observe live, and the SIGTERM-then-SIGKILL
// termination policy applied to background processes.
package process

import (
	"bytes"
	"context"
	"sync"
)

// StreamCapture accumulates a child's stdout or stderr into a buffer while
// letting a wait-condition watch the same data as it arrives, without
// consuming it: Write appends and wakes any blocked WaitForMatch calls,
// which re-scan the buffer accumulated so far.
type StreamCapture struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

// NewStreamCapture returns an empty, open StreamCapture.
func NewStreamCapture() *StreamCapture {
	c := &StreamCapture{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Write implements io.Writer, appending p to the buffer.
func (c *StreamCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.buf.Write(p)
	c.cond.Broadcast()
	c.mu.Unlock()
	return len(p), nil
}

// Close marks the stream as having reached EOF, waking any waiters so they
// can give up rather than block forever on a pattern that will never
// appear.
func (c *StreamCapture) Close() {
	c.mu.Lock()
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()
}

// Bytes returns a snapshot of everything captured so far.
func (c *StreamCapture) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())
	return out
}

// WaitForMatch blocks until match reports true against the accumulated
// buffer, the stream closes, or ctx is done, returning which of those
// happened first (true only for a genuine match).
func (c *StreamCapture) WaitForMatch(ctx context.Context, match func([]byte) bool) bool {
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.cond.Broadcast()
			c.mu.Unlock()
		case <-stop:
		}
	}()
	defer close(stop)

	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if match(c.buf.Bytes()) {
			return true
		}
		if c.closed || ctx.Err() != nil {
			return false
		}
		c.cond.Wait()
	}
}
