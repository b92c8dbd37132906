package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-texest/texest/internal/arena"
	"github.com/go-texest/texest/internal/expr"
)

func newTestArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(t.TempDir(), nil)
	require.NoError(t, err)
	return a
}

func evalText(t *testing.T, n expr.Node, a *arena.Arena) string {
	t.Helper()
	s, err := expr.EvalToText(n, nil, a)
	require.NoError(t, err)
	return s
}

func TestParseFlatCaseDesugarsToMainProcess(t *testing.T) {
	doc := []byte(`
tests:
  - name: says hello
    command: [echo, hello]
    tee_stdout: true
    expect:
      status:
        eq: 0
      stdout:
        eq: "hello\n"
`)
	cases, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, "says hello", c.Name)
	assert.Equal(t, "main", c.MainName)
	assert.Equal(t, []string{"main"}, c.ProcessOrder)

	a := newTestArena(t)
	proc := c.Processes["main"]
	assert.Equal(t, Foreground, proc.Mode)
	assert.True(t, proc.TeeStdout)
	require.Len(t, proc.Argv, 2)
	assert.Equal(t, "echo", evalText(t, proc.Argv[0], a))
	assert.Equal(t, "hello", evalText(t, proc.Argv[1], a))

	require.NotNil(t, proc.Expectations)
	require.NotNil(t, proc.Expectations.Status)
	assert.Equal(t, "eq", proc.Expectations.Status.Name)
	assert.False(t, proc.Expectations.Status.Negated)
	require.NotNil(t, proc.Expectations.Stdout)
	assert.Equal(t, "hello\n", evalText(t, proc.Expectations.Stdout.Param, a))
}

func TestParseStructuredCaseOrdersBackgroundBeforeForeground(t *testing.T) {
	doc := []byte(`
tests:
  - processes:
      proc1:
        command: [sh, -c, "echo ready"]
        background: true
        wait:
          stdout:
            pattern: "ready"
      proc2:
        command: [echo, world]
    expect:
      processes:
        proc2:
          stdout:
            eq: "world\n"
`)
	cases, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, []string{"proc1", "proc2"}, c.ProcessOrder)
	assert.Equal(t, "proc2", c.MainName)

	proc1 := c.Processes["proc1"]
	assert.Equal(t, Background, proc1.Mode)
	require.NotNil(t, proc1.Wait)
	assert.Equal(t, WaitStdout, proc1.Wait.Kind)

	a := newTestArena(t)
	assert.Equal(t, "ready", evalText(t, proc1.Wait.Pattern, a))

	proc2 := c.Processes["proc2"]
	assert.Equal(t, Foreground, proc2.Mode)
	require.NotNil(t, proc2.Expectations)
	require.NotNil(t, proc2.Expectations.Stdout)
	assert.Equal(t, "world\n", evalText(t, proc2.Expectations.Stdout.Param, a))
}

func TestParseRejectsCaseWithNeitherCommandNorProcesses(t *testing.T) {
	doc := []byte(`
tests:
  - name: broken
`)
	_, err := Parse(doc)
	assert.Error(t, err)
}

func TestParseRejectsCaseWithBothCommandAndProcesses(t *testing.T) {
	doc := []byte(`
tests:
  - name: ambiguous
    command: [echo, hello]
    processes:
      main:
        command: [echo, hello]
`)
	_, err := Parse(doc)
	assert.Error(t, err)
}

func TestParseLetBindingsPreserveDeclarationOrder(t *testing.T) {
	doc := []byte(`
tests:
  - let:
      a: "1"
      b:
        $var: a
    command: [echo, "{{ignored}}"]
`)
	cases, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, cases[0].Let, 2)
	assert.Equal(t, "a", cases[0].Let[0].Name)
	assert.Equal(t, "b", cases[0].Let[1].Name)
}

func TestParseNotPrefixNegatesMatcher(t *testing.T) {
	doc := []byte(`
tests:
  - command: [echo, hello]
    expect:
      status:
        not.eq: 1
`)
	cases, err := Parse(doc)
	require.NoError(t, err)

	status := cases[0].Processes["main"].Expectations.Status
	require.NotNil(t, status)
	assert.Equal(t, "eq", status.Name)
	assert.True(t, status.Negated)
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := Parse([]byte(``))
	assert.Error(t, err)
}
