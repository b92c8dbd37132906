package expr

import (
	"fmt"
	"strings"

	"github.com/go-texest/texest/internal/texerr"
	"github.com/go-texest/texest/internal/value"
)

// Parse builds a Node tree from a raw Value, resolving $-heads into their
// typed Call nodes once, up front. path is the document path of v (e.g.
// "tests[0].command[2]"), extended with ".$env" etc. for the error
// reported when a node turns out to be malformed.
func Parse(v value.Value, path string) (Node, error) {
	if v.Kind() == value.Map {
		if key, arg, ok := v.SoleEntry(); ok && strings.HasPrefix(key, "$") {
			return parseCall(key, arg, path)
		}
		return parseMap(v, path)
	}
	if v.Kind() == value.Seq {
		items, _ := v.Seq()
		nodes := make([]Node, len(items))
		for i, item := range items {
			n, err := Parse(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			nodes[i] = n
		}
		return SeqNode{base: base{path}, Items: nodes}, nil
	}
	return Literal{base: base{path}, Value: v}, nil
}

func parseMap(v value.Value, path string) (Node, error) {
	keys := v.MapKeys()
	values := make(map[string]Node, len(keys))
	for _, k := range keys {
		child, _ := v.MapGet(k)
		n, err := Parse(child, fmt.Sprintf("%s.%s", path, k))
		if err != nil {
			return nil, err
		}
		values[k] = n
	}
	return MapNode{base: base{path}, Keys: keys, Values: values}, nil
}

func parseCall(head string, arg value.Value, path string) (Node, error) {
	callPath := path + "." + head
	switch head {
	case "$env":
		name, ok := arg.String()
		if !ok {
			return nil, texerr.Expressionf(callPath, "$env argument must be a string")
		}
		// Split on the first '-' only, so defaults may themselves contain '-'.
		if idx := strings.Index(name, "-"); idx >= 0 {
			return EnvCall{base: base{callPath}, Name: name[:idx], Default: name[idx+1:], HasDef: true}, nil
		}
		return EnvCall{base: base{callPath}, Name: name}, nil

	case "$json":
		inner, err := Parse(arg, callPath)
		if err != nil {
			return nil, err
		}
		return JSONCall{base: base{callPath}, Arg: inner}, nil

	case "$yaml":
		inner, err := Parse(arg, callPath)
		if err != nil {
			return nil, err
		}
		return YAMLCall{base: base{callPath}, Arg: inner}, nil

	case "$tmp_file":
		inner, err := Parse(arg, callPath)
		if err != nil {
			return nil, err
		}
		return TmpFileCall{base: base{callPath}, Content: inner}, nil

	case "$tmp_port":
		return TmpPortCall{base: base{callPath}}, nil

	case "$var":
		name, ok := arg.String()
		if !ok {
			return nil, texerr.Expressionf(callPath, "$var argument must be a string")
		}
		return VarCall{base: base{callPath}, Name: name}, nil

	default:
		return nil, texerr.Expressionf(callPath, "unknown expression head %q", head)
	}
}
