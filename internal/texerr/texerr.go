// Package texerr defines the error taxonomy used across the test runner.
//
// Errors that originate from user input (a malformed document or an
// expression that cannot be resolved) carry a path so the reporter and the
// orchestrator can attribute a single failure without aborting the whole
// run. Errors are always wrapped with fmt.Errorf("...: %w", err) rather
// than swallowed, per the ambient error-handling convention.
package texerr

import "fmt"

// Kind classifies an error for the purposes of orchestration decisions
// (abort the run vs. fail the current case).
type Kind string

const (
	// KindDocument marks a YAML parse or schema mismatch. This is the only
	// kind that aborts the whole run (exit code 2).
	KindDocument Kind = "document"
	// KindExpression marks an undefined env var, unknown variable, or
	// unknown $-head encountered while evaluating an expression.
	KindExpression Kind = "expression"
	// KindSpawn marks a failure to exec a child process.
	KindSpawn Kind = "spawn"
	// KindWaitTimeout marks a wait-condition that did not resolve within
	// its timeout.
	KindWaitTimeout Kind = "wait_timeout"
	// KindProcessTimeout marks a foreground process that exceeded its
	// configured timeout.
	KindProcessTimeout Kind = "process_timeout"
	// KindInternal marks an I/O failure capturing output or another
	// internal error not attributable to the document or the child.
	KindInternal Kind = "internal"
)

// Error is a structured error carrying the document path (e.g.
// "tests[0].command[2].$env") that triggered it, when one applies.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a texerr.Error of the given kind wrapping err, with no path.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// WithPath builds a texerr.Error of the given kind wrapping err, annotated
// with the document path where it occurred.
func WithPath(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Documentf builds a KindDocument error.
func Documentf(format string, args ...any) *Error {
	return New(KindDocument, fmt.Errorf(format, args...))
}

// Expressionf builds a KindExpression error at the given path.
func Expressionf(path, format string, args ...any) *Error {
	return WithPath(KindExpression, path, fmt.Errorf(format, args...))
}
