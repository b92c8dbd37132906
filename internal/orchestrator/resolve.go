package orchestrator

import (
	"fmt"
	"time"

	"github.com/go-texest/texest/internal/arena"
	"github.com/go-texest/texest/internal/document"
	"github.com/go-texest/texest/internal/expr"
	"github.com/go-texest/texest/internal/process"
)

// defaultWaitTimeout applies to Http/Stdout/Stderr wait-conditions that
// omit an explicit timeout; spec.md only defines a default for Http's
// poll interval (100ms), so this is a deliberate extension.
const defaultWaitTimeout = 5 * time.Second

// resolveProcessSpec evaluates ps's argv, stdin, workdir and env
// Expressions against scope, producing a process.Spec ready to spawn. The
// wait-condition, timeout and matcher parameters are evaluated elsewhere.
func resolveProcessSpec(ps document.ProcessSpec, scope expr.Scope, ar *arena.Arena) (process.Spec, error) {
	spec := process.Spec{Name: ps.Name, TeeStdout: ps.TeeStdout, TeeStderr: ps.TeeStderr}

	argv := make([]string, len(ps.Argv))
	for i, node := range ps.Argv {
		s, err := expr.EvalToText(node, scope, ar)
		if err != nil {
			return process.Spec{}, err
		}
		argv[i] = s
	}
	spec.Argv = argv

	if ps.Stdin != nil {
		v, err := expr.Eval(ps.Stdin, scope, ar)
		if err != nil {
			return process.Spec{}, err
		}
		if b, ok := v.Bytes(); ok {
			spec.Stdin = b
		} else {
			s, err := v.AsText()
			if err != nil {
				return process.Spec{}, err
			}
			spec.Stdin = []byte(s)
		}
		spec.HasStdin = true
	}

	if ps.Workdir != nil {
		s, err := expr.EvalToText(ps.Workdir, scope, ar)
		if err != nil {
			return process.Spec{}, err
		}
		spec.Workdir = s
	}

	if len(ps.EnvKeys) > 0 {
		env := make(map[string]string, len(ps.EnvKeys))
		for _, k := range ps.EnvKeys {
			s, err := expr.EvalToText(ps.Env[k], scope, ar)
			if err != nil {
				return process.Spec{}, err
			}
			env[k] = s
		}
		spec.Env = env
	}

	return spec, nil
}

// resolveWaitSpec evaluates a background process's wait-condition into a
// process.WaitSpec.
func resolveWaitSpec(wc *document.WaitCondition, scope expr.Scope, ar *arena.Arena) (process.WaitSpec, error) {
	evalDuration := func(n expr.Node) (time.Duration, error) {
		s, err := expr.EvalToText(n, scope, ar)
		if err != nil {
			return 0, err
		}
		return document.ParseDuration(s)
	}

	switch wc.Kind {
	case document.WaitSleep:
		d, err := evalDuration(wc.Duration)
		if err != nil {
			return process.WaitSpec{}, err
		}
		return process.WaitSpec{Kind: process.WaitSleep, Duration: d}, nil

	case document.WaitHTTP:
		url, err := expr.EvalToText(wc.URL, scope, ar)
		if err != nil {
			return process.WaitSpec{}, err
		}
		ws := process.WaitSpec{Kind: process.WaitHTTP, URL: url, Timeout: defaultWaitTimeout}
		if wc.Timeout != nil {
			if ws.Timeout, err = evalDuration(wc.Timeout); err != nil {
				return process.WaitSpec{}, err
			}
		}
		if wc.Interval != nil {
			if ws.Interval, err = evalDuration(wc.Interval); err != nil {
				return process.WaitSpec{}, err
			}
		}
		return ws, nil

	case document.WaitStdout, document.WaitStderr:
		kind := process.WaitStdout
		if wc.Kind == document.WaitStderr {
			kind = process.WaitStderr
		}
		pattern, err := expr.EvalToText(wc.Pattern, scope, ar)
		if err != nil {
			return process.WaitSpec{}, err
		}
		ws := process.WaitSpec{Kind: kind, Pattern: pattern, MatchRegex: wc.MatchRegex, Timeout: defaultWaitTimeout}
		if wc.Timeout != nil {
			if ws.Timeout, err = evalDuration(wc.Timeout); err != nil {
				return process.WaitSpec{}, err
			}
		}
		return ws, nil

	default:
		return process.WaitSpec{}, fmt.Errorf("unknown wait kind %d", wc.Kind)
	}
}
