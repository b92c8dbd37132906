package matcher

import (
	"fmt"

	"github.com/go-texest/texest/internal/value"
)

// Outcome is one matcher's final, post-negation result.
type Outcome struct {
	Passed bool
	// Message is set only when Passed is false.
	Message string
}

// EvaluateStatus runs the named status matcher against an exit code.
func EvaluateStatus(name string, negated bool, actual, param value.Value) (Outcome, error) {
	e, ok := LookupStatus(name)
	if !ok {
		return Outcome{}, fmt.Errorf("unknown status matcher %q", name)
	}
	return evaluate(e, negated, actual, param)
}

// EvaluateStream runs the named stream matcher against a captured buffer
// (stdout, stderr, or a file's content).
func EvaluateStream(name string, negated bool, actual, param value.Value) (Outcome, error) {
	e, ok := LookupStream(name)
	if !ok {
		return Outcome{}, fmt.Errorf("unknown stream matcher %q", name)
	}
	return evaluate(e, negated, actual, param)
}

func evaluate(e Entry, negated bool, actual, param value.Value) (Outcome, error) {
	matched, err := e.Match(actual, param)
	if err != nil {
		return Outcome{}, err
	}
	passed := matched
	if negated {
		passed = !matched
	}
	if passed {
		return Outcome{Passed: true}, nil
	}
	if negated {
		return Outcome{Message: e.NegatedPassMessage(actual, param)}, nil
	}
	return Outcome{Message: e.FailMessage(actual, param)}, nil
}
