package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-texest/texest/internal/arena"
	"github.com/go-texest/texest/internal/document"
	"github.com/go-texest/texest/internal/expr"
	"github.com/go-texest/texest/internal/matcher"
	"github.com/go-texest/texest/internal/process"
	"github.com/go-texest/texest/internal/value"
)

// Run executes every Case in document order, returning one CaseResult per
// Case. A case's own errors (a bad expression, a spawn failure, a wait
// timeout) become Failures on that case rather than aborting the run; only
// arena allocation failure is reported, and is vanishingly unlikely
// (the caller's temp directory must already exist).
func Run(cases []document.Case, tempRoot string, logger *slog.Logger) []CaseResult {
	results := make([]CaseResult, len(cases))
	for i, c := range cases {
		results[i] = runCase(c, tempRoot, logger)
	}
	return results
}

func runCase(c document.Case, tempRoot string, logger *slog.Logger) CaseResult {
	result := CaseResult{Name: c.Name}

	ar, err := arena.New(tempRoot, logger)
	if err != nil {
		result.Failures = append(result.Failures, Failure{Subject: "case", Messages: []string{err.Error()}})
		return result
	}
	defer ar.ReleaseAll()

	scope := expr.Scope{}
	for _, b := range c.Let {
		v, err := expr.Eval(b.Expr, scope, ar)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Subject: "let." + b.Name, Messages: []string{err.Error()}})
			return result
		}
		scope[b.Name] = v
	}

	specs := make(map[string]process.Spec, len(c.ProcessOrder))
	waits := make(map[string]process.WaitSpec, len(c.ProcessOrder))
	timeouts := make(map[string]time.Duration, len(c.ProcessOrder))
	for _, name := range c.ProcessOrder {
		ps := c.Processes[name]
		spec, err := resolveProcessSpec(ps, scope, ar)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Subject: name + ":expression", Messages: []string{err.Error()}})
			return result
		}
		specs[name] = spec

		if ps.Mode == document.Background && ps.Wait != nil {
			ws, err := resolveWaitSpec(ps.Wait, scope, ar)
			if err != nil {
				result.Failures = append(result.Failures, Failure{Subject: name + ":expression", Messages: []string{err.Error()}})
				return result
			}
			waits[name] = ws
		}
		if ps.Mode == document.Foreground && ps.Timeout != nil {
			s, err := expr.EvalToText(ps.Timeout, scope, ar)
			if err != nil {
				result.Failures = append(result.Failures, Failure{Subject: name + ":expression", Messages: []string{err.Error()}})
				return result
			}
			d, err := document.ParseDuration(s)
			if err != nil {
				result.Failures = append(result.Failures, Failure{Subject: name + ":expression", Messages: []string{err.Error()}})
				return result
			}
			timeouts[name] = d
		}
	}

	if result.Name == "" {
		result.Name = deriveCaseName(c, specs)
	}

	backgrounds := make([]string, 0, len(c.ProcessOrder))
	for _, name := range c.ProcessOrder {
		if name != c.MainName {
			backgrounds = append(backgrounds, name)
		}
	}

	handles := make(map[string]*process.Handle, len(c.ProcessOrder))
	backgroundFailed := false
	for _, name := range backgrounds {
		h, err := process.Spawn(specs[name])
		if err != nil {
			result.Failures = append(result.Failures, Failure{Subject: name + ":spawn", Messages: []string{err.Error()}})
			backgroundFailed = true
			continue
		}
		handles[name] = h
	}

	for _, name := range backgrounds {
		if backgroundFailed {
			break
		}
		h, ok := handles[name]
		if !ok {
			continue
		}
		ws, ok := waits[name]
		if !ok {
			continue
		}
		if err := process.Await(context.Background(), ws, h); err != nil {
			result.Failures = append(result.Failures, Failure{Subject: name + ":wait", Messages: []string{err.Error()}})
			backgroundFailed = true
		}
	}

	if !backgroundFailed {
		h, err := process.Spawn(specs[c.MainName])
		if err != nil {
			result.Failures = append(result.Failures, Failure{Subject: c.MainName + ":spawn", Messages: []string{err.Error()}})
		} else {
			handles[c.MainName] = h
			if d, ok := timeouts[c.MainName]; ok {
				ctx, cancel := context.WithTimeout(context.Background(), d)
				select {
				case <-h.Done():
				case <-ctx.Done():
					h.Terminate()
					result.Failures = append(result.Failures, Failure{Subject: c.MainName + ":timeout", Messages: []string{fmt.Sprintf("exceeded timeout of %s", d)}})
				}
				cancel()
			} else {
				<-h.Done()
			}
		}
	}

	for _, name := range backgrounds {
		if h, ok := handles[name]; ok {
			h.Terminate()
		}
	}

	teeOrder := append(append([]string{}, backgrounds...), c.MainName)
	for _, name := range teeOrder {
		ps, ok := c.Processes[name]
		if !ok {
			continue
		}
		h, ok := handles[name]
		if !ok {
			continue
		}

		if ps.TeeStdout || ps.TeeStderr {
			block := TeeBlock{Process: name}
			if ps.TeeStdout {
				block.HasStdout = true
				block.Stdout = h.Stdout.Bytes()
			}
			if ps.TeeStderr {
				block.HasStderr = true
				block.Stderr = h.Stderr.Bytes()
			}
			result.Tee = append(result.Tee, block)
		}

		if ps.Expectations == nil {
			continue
		}
		code, _ := h.Wait()
		result.Failures = append(result.Failures, evaluateExpectations(name, code, h, specs[name].Workdir, ps.Expectations, scope, ar)...)
	}

	result.Passed = len(result.Failures) == 0
	return result
}

func evaluateExpectations(procName string, exitCode int, h *process.Handle, workdir string, exp *document.Expectations, scope expr.Scope, ar *arena.Arena) []Failure {
	var failures []Failure

	if exp.Status != nil {
		if f := evalStatus(procName, exitCode, exp.Status, scope, ar); f != nil {
			failures = append(failures, *f)
		}
	}
	if exp.Stdout != nil {
		if f := evalStream(procName, "stdout", h.Stdout.Bytes(), exp.Stdout, scope, ar); f != nil {
			failures = append(failures, *f)
		}
	}
	if exp.Stderr != nil {
		if f := evalStream(procName, "stderr", h.Stderr.Bytes(), exp.Stderr, scope, ar); f != nil {
			failures = append(failures, *f)
		}
	}
	for _, fname := range exp.FileOrder {
		m := exp.Files[fname]
		path := fname
		if workdir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(workdir, path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, Failure{Subject: procName + ":file:" + fname, Messages: []string{fmt.Sprintf("could not read file: %v", err)}})
			continue
		}
		if f := evalStream(procName, "file:"+fname, content, &m, scope, ar); f != nil {
			failures = append(failures, *f)
		}
	}
	return failures
}

func evalStatus(procName string, code int, m *document.MatcherSpec, scope expr.Scope, ar *arena.Arena) *Failure {
	subject := procName + ":status"
	param, err := expr.Eval(m.Param, scope, ar)
	if err != nil {
		return &Failure{Subject: subject, Messages: []string{err.Error()}}
	}
	out, err := matcher.EvaluateStatus(m.Name, m.Negated, value.IntValue(int64(code)), param)
	if err != nil {
		return &Failure{Subject: subject, Messages: []string{err.Error()}}
	}
	if out.Passed {
		return nil
	}
	return &Failure{Subject: subject, Messages: []string{out.Message}}
}

func evalStream(procName, stream string, buf []byte, m *document.MatcherSpec, scope expr.Scope, ar *arena.Arena) *Failure {
	subject := procName + ":" + stream
	param, err := expr.Eval(m.Param, scope, ar)
	if err != nil {
		return &Failure{Subject: subject, Messages: []string{err.Error()}}
	}
	out, err := matcher.EvaluateStream(m.Name, m.Negated, value.BytesValue(buf), param)
	if err != nil {
		return &Failure{Subject: subject, Messages: []string{err.Error()}}
	}
	if out.Passed {
		return nil
	}
	return &Failure{Subject: subject, Messages: []string{out.Message}}
}

// deriveCaseName builds the default case name from the main process's
// resolved argv: its first two tokens joined by a space, e.g. "echo hello".
func deriveCaseName(c document.Case, specs map[string]process.Spec) string {
	main, ok := specs[c.MainName]
	if !ok || len(main.Argv) == 0 {
		return c.MainName
	}
	n := 2
	if len(main.Argv) < n {
		n = len(main.Argv)
	}
	return strings.Join(main.Argv[:n], " ")
}
