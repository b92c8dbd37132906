package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (stdout string, err error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), err
}

func TestRunFromStdinAllCasesPass(t *testing.T) {
	out, err := execute(t, `
tests:
  - command: [echo, hello]
    expect:
      stdout:
        eq: "hello\n"
`, "-", "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"success": true`))
}

func TestRunFromStdinFailingCaseExitsViaFailureSentinel(t *testing.T) {
	out, err := execute(t, `
tests:
  - command: [echo, goodbye]
    expect:
      stdout:
        eq: "hello\n"
`, "-", "--format", "json")
	require.Error(t, err)
	assert.True(t, IsFailure(err))
	assert.True(t, strings.Contains(out, "not equals"))
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "tests: []", "-", "--format", "xml")
	require.Error(t, err)
	assert.False(t, IsFailure(err))
}

func TestRunRejectsMalformedDocument(t *testing.T) {
	_, err := execute(t, "not: [valid", "-")
	require.Error(t, err)
	assert.False(t, IsFailure(err))
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}
