package matcher

import (
	"fmt"

	"github.com/go-texest/texest/internal/value"
)

func init() {
	registerStatus("eq", Entry{
		Match: func(actual, param value.Value) (bool, error) {
			a, ok := actual.Int()
			if !ok {
				return false, fmt.Errorf("status matcher actual must be an int, got %s", actual.Kind())
			}
			p, ok := param.Int()
			if !ok {
				return false, fmt.Errorf("eq status matcher param must be an int, got %s", param.Kind())
			}
			return a == p, nil
		},
		FailMessage: func(actual, param value.Value) string {
			a, _ := actual.Int()
			p, _ := param.Int()
			return fmt.Sprintf("not equals:\n\n-%d\n+%d\n", p, a)
		},
		NegatedPassMessage: func(_, param value.Value) string {
			p, _ := param.Int()
			return fmt.Sprintf("should not be %q, but got it", fmt.Sprintf("%d", p))
		},
	})
}
