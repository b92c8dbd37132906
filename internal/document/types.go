// Package document parses a YAML test-case document into the abstract
// case tree described by spec §3/§4.E, leaving every Expression field
// unevaluated (an expr.Node) so the orchestrator can resolve it per-case
// against that case's Scope and Arena.
package document

import "github.com/go-texest/texest/internal/expr"

// ProcessMode distinguishes a case's single foreground process from its
// zero or more background processes.
type ProcessMode int

const (
	Foreground ProcessMode = iota
	Background
)

// WaitKind tags a WaitCondition variant.
type WaitKind int

const (
	WaitSleep WaitKind = iota
	WaitHTTP
	WaitStdout
	WaitStderr
)

// WaitCondition gates a background process as "ready". Its parameters are
// themselves expressions, resolved at case setup alongside everything
// else.
type WaitCondition struct {
	Kind WaitKind

	// Sleep
	Duration expr.Node

	// Http
	URL      expr.Node
	Timeout  expr.Node
	Interval expr.Node // optional, defaults to 100ms when nil

	// Stdout / Stderr
	Pattern     expr.Node
	MatchRegex  bool // pattern is a regex rather than a literal substring
}

// MatcherSpec is a named predicate with a parameter Expression and a
// negation flag set by a "not." prefix on the YAML key.
type MatcherSpec struct {
	Name    string
	Negated bool
	Param   expr.Node
}

// Expectations holds the matchers evaluated against one process's
// observations, in the fixed order status -> stdout -> stderr -> files.
type Expectations struct {
	Status *MatcherSpec
	Stdout *MatcherSpec
	Stderr *MatcherSpec
	Files  map[string]MatcherSpec
	// FileOrder preserves declaration order for deterministic reporting.
	FileOrder []string
}

// ProcessSpec describes one child process, fully parsed but not yet
// evaluated.
type ProcessSpec struct {
	Name string
	Argv []expr.Node
	// Stdin is nil when the case supplies no stdin.
	Stdin expr.Node

	Mode    ProcessMode
	Wait    *WaitCondition // only meaningful when Mode == Background
	Timeout expr.Node      // optional; only meaningful for Foreground

	TeeStdout bool
	TeeStderr bool

	// Workdir and Env are supplemental (SPEC_FULL): an optional working
	// directory and per-process environment overrides, both Expressions.
	Workdir expr.Node
	EnvKeys []string
	Env     map[string]expr.Node

	Expectations *Expectations
}

// LetBinding is one `let` entry; order matters; later bindings may
// reference earlier ones by name.
type LetBinding struct {
	Name string
	Expr expr.Node
}

// Case is one declarative test scenario: the processes it starts, the
// variable bindings visible while resolving them, and which process is
// the foreground one driving the case's lifetime.
type Case struct {
	Name string // empty means "derive from argv" (spec §9 open question)
	Let  []LetBinding

	// ProcessOrder preserves declaration order; "main" is always last for
	// the flat form and is wherever the author placed it otherwise.
	ProcessOrder []string
	Processes    map[string]ProcessSpec
	MainName     string
}
