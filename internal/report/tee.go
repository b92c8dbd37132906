package report

import (
	"fmt"
	"io"

	"github.com/go-texest/texest/internal/orchestrator"
)

// WriteTee emits the "== <proc> ==" captured-output blocks for every
// process tee'd during the run, background processes in declaration
// order followed by main, per case in run order.
func WriteTee(w io.Writer, results []orchestrator.CaseResult) {
	for _, r := range results {
		for _, block := range r.Tee {
			fmt.Fprintf(w, "== %s ==\n", block.Process)
			if block.HasStdout {
				fmt.Fprint(w, "=== captured stdout ===\n")
				w.Write(block.Stdout) //nolint:errcheck
				fmt.Fprint(w, "\n=======================\n")
			}
			if block.HasStderr {
				fmt.Fprint(w, "=== captured stderr ===\n")
				w.Write(block.Stderr) //nolint:errcheck
				fmt.Fprint(w, "\n=======================\n")
			}
		}
	}
}
