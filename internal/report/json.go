package report

import (
	"encoding/json"
	"io"

	"github.com/go-texest/texest/internal/orchestrator"
)

type jsonFailure struct {
	Subject  string   `json:"subject"`
	Messages []string `json:"messages"`
}

type jsonCase struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Failures []jsonFailure `json:"failures"`
}

type jsonReport struct {
	NumTestCases       int        `json:"num_test_cases"`
	NumPassedTestCases int        `json:"num_passed_test_cases"`
	NumFailedTestCases int        `json:"num_failed_test_cases"`
	Success            bool       `json:"success"`
	TestResults        []jsonCase `json:"test_results"`
}

// WriteJSON renders results as the single-object JSON report described in
// the external interface contract.
func WriteJSON(w io.Writer, results []orchestrator.CaseResult) error {
	rep := jsonReport{
		TestResults: make([]jsonCase, len(results)),
	}
	for i, r := range results {
		rep.NumTestCases++
		if r.Passed {
			rep.NumPassedTestCases++
		} else {
			rep.NumFailedTestCases++
		}
		failures := make([]jsonFailure, len(r.Failures))
		for j, f := range r.Failures {
			failures[j] = jsonFailure{Subject: f.Subject, Messages: f.Messages}
		}
		rep.TestResults[i] = jsonCase{Name: r.Name, Passed: r.Passed, Failures: failures}
	}
	rep.Success = rep.NumFailedTestCases == 0

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
