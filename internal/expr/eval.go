package expr

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-texest/texest/internal/arena"
	"github.com/go-texest/texest/internal/texerr"
	"github.com/go-texest/texest/internal/value"
)

// Scope holds the already-evaluated `let` bindings visible to a case,
// built incrementally in declaration order by the caller (each binding
// sees the ones evaluated before it).
type Scope map[string]value.Value

// Get looks up name, reporting whether it is bound.
func (s Scope) Get(name string) (value.Value, bool) {
	v, ok := s[name]
	return v, ok
}

// Eval evaluates a parsed Node against scope, using ar to satisfy the two
// resource-producing heads ($tmp_file, $tmp_port). Evaluation is eager and
// recursive, pure except for those two heads.
func Eval(n Node, scope Scope, ar *arena.Arena) (value.Value, error) {
	switch node := n.(type) {
	case Literal:
		return node.Value, nil

	case SeqNode:
		items := make([]value.Value, len(node.Items))
		for i, item := range node.Items {
			v, err := Eval(item, scope, ar)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.SeqValue(items), nil

	case MapNode:
		b := value.NewMap()
		for _, k := range node.Keys {
			v, err := Eval(node.Values[k], scope, ar)
			if err != nil {
				return value.Value{}, err
			}
			b.Set(k, v)
		}
		return b.Build(), nil

	case EnvCall:
		if v, ok := os.LookupEnv(node.Name); ok {
			return value.StringValue(v), nil
		}
		if node.HasDef {
			return value.StringValue(node.Default), nil
		}
		return value.Value{}, texerr.Expressionf(node.Path, "undefined environment variable %q", node.Name)

	case JSONCall:
		v, err := Eval(node.Arg, scope, ar)
		if err != nil {
			return value.Value{}, err
		}
		s, err := value.MarshalJSONCompact(v)
		if err != nil {
			return value.Value{}, texerr.WithPath(texerr.KindExpression, node.Path, err)
		}
		return value.StringValue(s), nil

	case YAMLCall:
		v, err := Eval(node.Arg, scope, ar)
		if err != nil {
			return value.Value{}, err
		}
		s, err := value.MarshalYAMLBlock(v)
		if err != nil {
			return value.Value{}, texerr.WithPath(texerr.KindExpression, node.Path, err)
		}
		return value.StringValue(s), nil

	case TmpFileCall:
		v, err := Eval(node.Content, scope, ar)
		if err != nil {
			return value.Value{}, err
		}
		var content []byte
		if s, ok := v.String(); ok {
			content = []byte(s)
		} else if b, ok := v.Bytes(); ok {
			content = b
		} else {
			return value.Value{}, texerr.Expressionf(node.Path, "$tmp_file content must evaluate to a string or bytes, got %s", v.Kind())
		}
		path, err := ar.NewTempFile(content)
		if err != nil {
			return value.Value{}, texerr.WithPath(texerr.KindExpression, node.Path, err)
		}
		return value.StringValue(path), nil

	case TmpPortCall:
		port, err := ar.ReservePort()
		if err != nil {
			return value.Value{}, texerr.WithPath(texerr.KindExpression, node.Path, err)
		}
		return value.StringValue(strconv.Itoa(port)), nil

	case VarCall:
		v, ok := scope.Get(node.Name)
		if !ok {
			return value.Value{}, texerr.Expressionf(node.Path, "unknown variable %q", node.Name)
		}
		return v, nil

	default:
		return value.Value{}, fmt.Errorf("expr: unhandled node type %T", n)
	}
}

// EvalToText evaluates n and renders the result as text, the common case
// for argv entries and scalar-valued let bindings.
func EvalToText(n Node, scope Scope, ar *arena.Arena) (string, error) {
	v, err := Eval(n, scope, ar)
	if err != nil {
		return "", err
	}
	s, err := v.AsText()
	if err != nil {
		return "", texerr.WithPath(texerr.KindExpression, n.path(), err)
	}
	return s, nil
}
