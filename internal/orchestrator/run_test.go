package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-texest/texest/internal/document"
)

func parseCases(t *testing.T, doc string) []document.Case {
	t.Helper()
	cases, err := document.Parse([]byte(doc))
	require.NoError(t, err)
	return cases
}

func TestRunFlatCasePasses(t *testing.T) {
	cases := parseCases(t, `
tests:
  - command: [echo, hello]
    expect:
      status:
        eq: 0
      stdout:
        eq: "hello\n"
`)
	results := Run(cases, t.TempDir(), nil)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed, "%+v", results[0].Failures)
	assert.Equal(t, "echo hello", results[0].Name)
}

func TestRunFlatCaseNegatedEqFailureMessage(t *testing.T) {
	cases := parseCases(t, `
tests:
  - command: [echo, hello]
    expect:
      stdout:
        not.eq: "hello\n"
`)
	results := Run(cases, t.TempDir(), nil)
	require.Len(t, results, 1)
	r := results[0]
	assert.False(t, r.Passed)
	require.Len(t, r.Failures, 1)
	assert.Equal(t, "main:stdout", r.Failures[0].Subject)
	assert.Equal(t, []string{`should not be "hello\n", but got it`}, r.Failures[0].Messages)
}

func TestRunFlatCaseEqFailureMessageLiteral(t *testing.T) {
	cases := parseCases(t, `
tests:
  - command: [echo, goodbye]
    expect:
      stdout:
        eq: "hello\n"
`)
	results := Run(cases, t.TempDir(), nil)
	r := results[0]
	assert.False(t, r.Passed)
	require.Len(t, r.Failures, 1)
	assert.Equal(t, "not equals:\n\n-hello\n+goodbye\n", r.Failures[0].Messages[0])
}

func TestRunFileExpectationResolvesAgainstProcessWorkdir(t *testing.T) {
	dir := t.TempDir()
	cases := parseCases(t, `
tests:
  - command: [sh, -c, "echo -n done > out.txt"]
    workdir: `+dir+`
    expect:
      files:
        out.txt:
          eq: "done"
`)
	results := Run(cases, t.TempDir(), nil)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed, "%+v", results[0].Failures)
}

func TestRunAccumulatesMultipleFailuresWithoutShortCircuit(t *testing.T) {
	cases := parseCases(t, `
tests:
  - command: [echo, hello]
    expect:
      status:
        eq: 9
      stdout:
        eq: "nope\n"
`)
	results := Run(cases, t.TempDir(), nil)
	r := results[0]
	assert.False(t, r.Passed)
	assert.Len(t, r.Failures, 2)
}

func TestRunBackgroundStdoutWaitThenForeground(t *testing.T) {
	cases := parseCases(t, `
tests:
  - processes:
      server:
        command: [sh, -c, "echo ready; sleep 1"]
        background: true
        wait:
          stdout:
            pattern: "ready"
            timeout: 2s
      client:
        command: [echo, world]
    expect:
      processes:
        client:
          stdout:
            eq: "world\n"
`)
	results := Run(cases, t.TempDir(), nil)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed, "%+v", results[0].Failures)
}

func TestRunBackgroundWaitTimeoutFailsCaseAndSkipsForeground(t *testing.T) {
	cases := parseCases(t, `
tests:
  - processes:
      server:
        command: [sleep, "1"]
        background: true
        wait:
          stdout:
            pattern: "never appears"
            timeout: 30ms
      client:
        command: [echo, world]
`)
	results := Run(cases, t.TempDir(), nil)
	r := results[0]
	assert.False(t, r.Passed)
	require.Len(t, r.Failures, 1)
	assert.Equal(t, "server:wait", r.Failures[0].Subject)
}

func TestRunTeeCapturesOutputForReporting(t *testing.T) {
	cases := parseCases(t, `
tests:
  - command: [echo, hello]
    tee_stdout: true
`)
	results := Run(cases, t.TempDir(), nil)
	r := results[0]
	require.Len(t, r.Tee, 1)
	assert.Equal(t, "main", r.Tee[0].Process)
	assert.True(t, r.Tee[0].HasStdout)
	assert.Equal(t, "hello\n", string(r.Tee[0].Stdout))
}
