// Package orchestrator runs a document's Cases sequentially: allocating
// each case's arena, evaluating its `let` bindings and process
// specifications, spawning background processes ahead of the foreground
// one, applying the termination policy, and evaluating expectations in
// the fixed status -> stdout -> stderr -> files order.
package orchestrator

// Failure is one accumulated expectation or orchestration-error result.
// Expectation failures are attributed to a subject of the form
// "<proc>:status", "<proc>:stdout", "<proc>:stderr", or
// "<proc>:file:<path>"; orchestration errors use "<proc>:expression",
// "<proc>:spawn", "<proc>:wait", "<proc>:timeout", "let.<name>", or "case".
type Failure struct {
	Subject  string
	Messages []string
}

// TeeBlock carries the captured bytes for one process whose tee_stdout or
// tee_stderr was set, rendered by the reporter after every case runs.
type TeeBlock struct {
	Process   string
	HasStdout bool
	Stdout    []byte
	HasStderr bool
	Stderr    []byte
}

// CaseResult is the outcome of running one Case: its name, pass/fail
// status, and every accumulated failure.
type CaseResult struct {
	Name     string
	Passed   bool
	Failures []Failure
	Tee      []TeeBlock
}
