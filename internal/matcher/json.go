package matcher

import (
	"fmt"
	"strings"

	"github.com/go-texest/texest/internal/value"
)

func init() {
	registerStream("eq_json", Entry{
		Match: func(actual, param value.Value) (bool, error) {
			j, err := value.ParseJSON([]byte(bufferText(actual)))
			if err != nil {
				return false, fmt.Errorf("eq_json: %w", err)
			}
			return value.Equal(j, param), nil
		},
		FailMessage: func(actual, param value.Value) string {
			j, err := value.ParseJSON([]byte(bufferText(actual)))
			if err != nil {
				return fmt.Sprintf("buffer is not valid JSON: %v", err)
			}
			return strings.Join(eqDiff("", j, param), "\n\n")
		},
		NegatedPassMessage: func(_, param value.Value) string {
			s, _ := value.MarshalJSONCompact(param)
			return fmt.Sprintf("should not equal %s as JSON, but got it", s)
		},
	})

	registerStream("include_json", Entry{
		Match: func(actual, param value.Value) (bool, error) {
			j, err := value.ParseJSON([]byte(bufferText(actual)))
			if err != nil {
				return false, fmt.Errorf("include_json: %w", err)
			}
			return value.Includes(j, param), nil
		},
		FailMessage: func(actual, param value.Value) string {
			j, err := value.ParseJSON([]byte(bufferText(actual)))
			if err != nil {
				return fmt.Sprintf("buffer is not valid JSON: %v", err)
			}
			return strings.Join(includeDiff("", j, param), "\n\n")
		},
		NegatedPassMessage: func(actual, param value.Value) string {
			s, _ := value.MarshalJSONCompact(param)
			return fmt.Sprintf("should not include %s as JSON, but got it", s)
		},
	})
}

// atomDiff formats one path-keyed mismatch entry, rendering both sides as
// compact JSON atoms.
func atomDiff(path string, actual, expected value.Value) string {
	if path == "" {
		path = "."
	}
	exp, _ := value.MarshalJSONCompact(expected)
	act, _ := value.MarshalJSONCompact(actual)
	return fmt.Sprintf("json atoms at path %q are not equal:\n    expected:\n        %s\n    actual:\n        %s", path, exp, act)
}

// eqDiff walks expected's full shape against actual, reporting every path
// where the two disagree: a missing/extra key or index, or an unequal
// scalar. Used by eq_json's failure message.
func eqDiff(path string, actual, expected value.Value) []string {
	switch expected.Kind() {
	case value.Map:
		if actual.Kind() != value.Map {
			return []string{atomDiff(path, actual, expected)}
		}
		var diffs []string
		seen := make(map[string]bool, len(expected.MapKeys()))
		for _, k := range expected.MapKeys() {
			seen[k] = true
			ev, _ := expected.MapGet(k)
			if av, ok := actual.MapGet(k); ok {
				diffs = append(diffs, eqDiff(path+"."+k, av, ev)...)
			} else {
				diffs = append(diffs, atomDiff(path+"."+k, value.NullValue(), ev))
			}
		}
		for _, k := range actual.MapKeys() {
			if seen[k] {
				continue
			}
			av, _ := actual.MapGet(k)
			diffs = append(diffs, atomDiff(path+"."+k, av, value.NullValue()))
		}
		return diffs

	case value.Seq:
		if actual.Kind() != value.Seq {
			return []string{atomDiff(path, actual, expected)}
		}
		eItems, _ := expected.Seq()
		aItems, _ := actual.Seq()
		n := len(eItems)
		if len(aItems) > n {
			n = len(aItems)
		}
		var diffs []string
		for i := 0; i < n; i++ {
			idx := fmt.Sprintf("%s[%d]", path, i)
			switch {
			case i >= len(eItems):
				diffs = append(diffs, atomDiff(idx, aItems[i], value.NullValue()))
			case i >= len(aItems):
				diffs = append(diffs, atomDiff(idx, value.NullValue(), eItems[i]))
			default:
				diffs = append(diffs, eqDiff(idx, aItems[i], eItems[i])...)
			}
		}
		return diffs

	default:
		if !value.Equal(actual, expected) {
			return []string{atomDiff(path, actual, expected)}
		}
		return nil
	}
}

// includeDiff walks only param's shape against actual, so extra keys or
// trailing array elements in actual never produce a mismatch. Used by
// include_json's failure message.
func includeDiff(path string, actual, param value.Value) []string {
	switch param.Kind() {
	case value.Map:
		if actual.Kind() != value.Map {
			return []string{atomDiff(path, actual, param)}
		}
		var diffs []string
		for _, k := range param.MapKeys() {
			pv, _ := param.MapGet(k)
			if av, ok := actual.MapGet(k); ok {
				diffs = append(diffs, includeDiff(path+"."+k, av, pv)...)
			} else {
				diffs = append(diffs, atomDiff(path+"."+k, value.NullValue(), pv))
			}
		}
		return diffs

	case value.Seq:
		if actual.Kind() != value.Seq {
			return []string{atomDiff(path, actual, param)}
		}
		pItems, _ := param.Seq()
		aItems, _ := actual.Seq()
		var diffs []string
		for i, pv := range pItems {
			idx := fmt.Sprintf("%s[%d]", path, i)
			if i >= len(aItems) {
				diffs = append(diffs, atomDiff(idx, value.NullValue(), pv))
				continue
			}
			diffs = append(diffs, includeDiff(idx, aItems[i], pv)...)
		}
		return diffs

	default:
		if !value.Equal(actual, param) {
			return []string{atomDiff(path, actual, param)}
		}
		return nil
	}
}
