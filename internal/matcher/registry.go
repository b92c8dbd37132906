// Package matcher implements the named predicates evaluated against a
// process's exit status, captured streams, and expected files, plus the
// negation and failure-message formatting described by the external
// message contract.
package matcher

import "github.com/go-texest/texest/internal/value"

// Entry pairs a matcher's positive-form predicate with its two message
// formatters: FailMessage is used when the positive form fails (the
// common case, and always the case for a matcher with no "not." prefix).
// NegatedPassMessage is used only when a "not."-prefixed matcher's
// positive form succeeded, so the negated result is the failure.
type Entry struct {
	Match              func(actual, param value.Value) (bool, error)
	FailMessage        func(actual, param value.Value) string
	NegatedPassMessage func(actual, param value.Value) string
}

var statusRegistry = map[string]Entry{}
var streamRegistry = map[string]Entry{}

func registerStatus(name string, e Entry) { statusRegistry[name] = e }
func registerStream(name string, e Entry) { streamRegistry[name] = e }

// LookupStatus finds the status-family matcher registered under name.
func LookupStatus(name string) (Entry, bool) {
	e, ok := statusRegistry[name]
	return e, ok
}

// LookupStream finds the stream-family matcher registered under name.
// File expectations reuse this family: a file's content is just another
// byte buffer.
func LookupStream(name string) (Entry, bool) {
	e, ok := streamRegistry[name]
	return e, ok
}
