package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-texest/texest/internal/value"
)

// bufferText renders a captured buffer (a String or Bytes Value) as UTF-8
// text, per the "interpreted as UTF-8 where possible" contract.
func bufferText(actual value.Value) string {
	if s, ok := actual.String(); ok {
		return s
	}
	if b, ok := actual.Bytes(); ok {
		return string(b)
	}
	s, _ := actual.AsText()
	return s
}

func init() {
	registerStream("eq", Entry{
		Match: func(actual, param value.Value) (bool, error) {
			p, ok := param.String()
			if !ok {
				return false, fmt.Errorf("eq stream matcher param must be a string, got %s", param.Kind())
			}
			return bufferText(actual) == p, nil
		},
		FailMessage: func(actual, param value.Value) string {
			p, _ := param.String()
			return fmt.Sprintf("not equals:\n\n-%s+%s", p, bufferText(actual))
		},
		NegatedPassMessage: func(_, param value.Value) string {
			p, _ := param.String()
			return fmt.Sprintf("should not be %q, but got it", p)
		},
	})

	registerStream("contain", Entry{
		Match: func(actual, param value.Value) (bool, error) {
			p, ok := param.String()
			if !ok {
				return false, fmt.Errorf("contain matcher param must be a string, got %s", param.Kind())
			}
			return strings.Contains(bufferText(actual), p), nil
		},
		FailMessage: func(actual, param value.Value) string {
			p, _ := param.String()
			return fmt.Sprintf("does not contain %q:\n\n%s", p, bufferText(actual))
		},
		NegatedPassMessage: func(_, param value.Value) string {
			p, _ := param.String()
			return fmt.Sprintf("should not contain %q, but got it", p)
		},
	})

	registerStream("match_regex", Entry{
		Match: func(actual, param value.Value) (bool, error) {
			p, ok := param.String()
			if !ok {
				return false, fmt.Errorf("match_regex matcher param must be a string, got %s", param.Kind())
			}
			re, err := regexp.Compile(p)
			if err != nil {
				return false, fmt.Errorf("match_regex pattern %q does not compile: %w", p, err)
			}
			return re.MatchString(bufferText(actual)), nil
		},
		FailMessage: func(actual, param value.Value) string {
			p, _ := param.String()
			return fmt.Sprintf("does not match /%s/:\n\n%s", p, bufferText(actual))
		},
		NegatedPassMessage: func(_, param value.Value) string {
			p, _ := param.String()
			return fmt.Sprintf("should not match /%s/, but got it", p)
		},
	})
}
