package process

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/go-texest/texest/internal/backoff"
	"github.com/go-texest/texest/internal/texerr"
)

// WaitKind tags a WaitSpec variant, mirroring document.WaitKind but fully
// evaluated: every field is a concrete Go value rather than an Expression.
type WaitKind int

const (
	WaitSleep WaitKind = iota
	WaitHTTP
	WaitStdout
	WaitStderr
)

// WaitSpec gates a background process as ready.
type WaitSpec struct {
	Kind WaitKind

	Duration time.Duration // Sleep

	URL      string // Http
	Timeout  time.Duration
	Interval time.Duration // Http; Stdout/Stderr poll via broadcast, not interval

	Pattern    string // Stdout / Stderr
	MatchRegex bool
}

const defaultHTTPInterval = 100 * time.Millisecond

// Await blocks until ws is satisfied, observing h's live capture for the
// Stdout/Stderr variants without consuming it.
func Await(ctx context.Context, ws WaitSpec, h *Handle) error {
	switch ws.Kind {
	case WaitSleep:
		timer := time.NewTimer(ws.Duration)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return nil

	case WaitHTTP:
		return awaitHTTP(ctx, ws)

	case WaitStdout:
		return awaitStream(ctx, ws, h.Stdout)

	case WaitStderr:
		return awaitStream(ctx, ws, h.Stderr)

	default:
		return fmt.Errorf("unknown wait kind %d", ws.Kind)
	}
}

func awaitHTTP(ctx context.Context, ws WaitSpec) error {
	interval := ws.Interval
	if interval <= 0 {
		interval = defaultHTTPInterval
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, ws.Timeout)
	defer cancel()

	client := resty.New()
	retrier := backoff.NewRetrier(backoff.NewConstantBackoffPolicy(interval))

	for {
		resp, err := client.R().SetContext(timeoutCtx).Get(ws.URL)
		if err == nil && resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
			return nil
		}
		if waitErr := retrier.Next(timeoutCtx, err); waitErr != nil {
			return texerr.WithPath(texerr.KindWaitTimeout, "", fmt.Errorf("http wait on %s: timed out", ws.URL))
		}
	}
}

func awaitStream(ctx context.Context, ws WaitSpec, capture *StreamCapture) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, ws.Timeout)
	defer cancel()

	var match func([]byte) bool
	if ws.MatchRegex {
		re, err := regexp.Compile(ws.Pattern)
		if err != nil {
			return texerr.WithPath(texerr.KindWaitTimeout, "", fmt.Errorf("wait pattern %q does not compile: %w", ws.Pattern, err))
		}
		match = re.Match
	} else {
		pattern := []byte(ws.Pattern)
		match = func(b []byte) bool { return bytes.Contains(b, pattern) }
	}

	if capture.WaitForMatch(timeoutCtx, match) {
		return nil
	}
	return texerr.WithPath(texerr.KindWaitTimeout, "", fmt.Errorf("pattern %q did not appear within timeout", ws.Pattern))
}
