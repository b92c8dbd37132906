// Package expr implements the expression evaluator (spec §4.B): a Value
// tree where any Map whose sole key begins with "$" is interpreted as a
// function call. Expressions are parsed once into a sealed Node variant
// (see Design Notes: avoid a string-keyed dispatch table at evaluation
// time) and evaluated against a Scope plus the case's resource Arena.
package expr

import "github.com/go-texest/texest/internal/value"

// Node is a parsed expression ready for evaluation. The concrete types
// below are the only implementations; Eval type-switches over them rather
// than re-parsing the $-head at evaluation time.
type Node interface {
	path() string
}

type base struct{ Path string }

func (b base) path() string { return b.Path }

// Literal is any Expression node that is not itself a $-call: scalars pass
// through unchanged.
type Literal struct {
	base
	Value value.Value
}

// SeqNode recurses element-wise over a Seq Value.
type SeqNode struct {
	base
	Items []Node
}

// MapNode recurses over a Map Value whose sole key does not start with
// "$" (or that has more than one key).
type MapNode struct {
	base
	Keys   []string
	Values map[string]Node
}

// EnvCall is "$env: NAME" or "$env: NAME-DEFAULT".
type EnvCall struct {
	base
	Name    string
	Default string
	HasDef  bool
}

// JSONCall is "$json: V".
type JSONCall struct {
	base
	Arg Node
}

// YAMLCall is "$yaml: V".
type YAMLCall struct {
	base
	Arg Node
}

// TmpFileCall is "$tmp_file: V".
type TmpFileCall struct {
	base
	Content Node
}

// TmpPortCall is "$tmp_port: {}".
type TmpPortCall struct {
	base
}

// VarCall is "$var: NAME".
type VarCall struct {
	base
	Name string
}
