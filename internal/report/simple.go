package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/go-texest/texest/internal/orchestrator"
)

// WriteSimple renders results as a one-line-per-case pass/fail table
// followed by the failure messages of any failed case, each headed by
// its "<process>:<stream>" subject.
func WriteSimple(w io.Writer, results []orchestrator.CaseResult, colorEnabled bool) error {
	passLabel, failLabel := "PASS", "FAIL"
	if colorEnabled {
		passLabel = color.GreenString("PASS")
		failLabel = color.RedString("FAIL")
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Result", "Test Case"})
	numPassed := 0
	for _, r := range results {
		label := passLabel
		if r.Passed {
			numPassed++
		} else {
			label = failLabel
		}
		t.AppendRow(table.Row{label, r.Name})
	}
	t.Render()

	for _, r := range results {
		if r.Passed {
			continue
		}
		fmt.Fprintf(w, "\n%s: FAILED\n", r.Name)
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s:\n", f.Subject)
			for _, msg := range f.Messages {
				fmt.Fprintf(w, "    %s\n", msg)
			}
		}
	}

	fmt.Fprintf(w, "\n%d/%d test cases passed\n", numPassed, len(results))
	return nil
}
