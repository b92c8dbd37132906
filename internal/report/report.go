// Package report renders orchestrator.CaseResult slices in the two
// formats described by the external contract: human-readable "simple"
// text and a machine-readable "json" object, plus the tee framing blocks
// emitted ahead of either.
package report

import (
	"fmt"
	"io"

	"github.com/go-texest/texest/internal/orchestrator"
)

// Format selects the report's rendering.
type Format string

const (
	Simple Format = "simple"
	JSON   Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Simple, JSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q (want simple or json)", s)
	}
}

// Write renders results in the selected format to w. Tee blocks are
// written first, ahead of the final report, matching spec's ordering.
func Write(w io.Writer, format Format, results []orchestrator.CaseResult, colorEnabled bool) error {
	WriteTee(w, results)
	switch format {
	case JSON:
		return WriteJSON(w, results)
	default:
		return WriteSimple(w, results, colorEnabled)
	}
}

// Success reports whether every case passed, the CLI's exit-code input.
func Success(results []orchestrator.CaseResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
