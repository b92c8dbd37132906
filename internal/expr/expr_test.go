package expr

import (
	"os"
	"testing"

	"github.com/go-texest/texest/internal/arena"
	"github.com/go-texest/texest/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.New(t.TempDir(), nil)
	require.NoError(t, err)
	return a
}

func mustParse(t *testing.T, v value.Value) Node {
	t.Helper()
	n, err := Parse(v, "tests[0]")
	require.NoError(t, err)
	return n
}

func TestEnvWithDefault(t *testing.T) {
	os.Unsetenv("TEXEST_TEST_VAR")
	n := mustParse(t, value.NewMap().Set("$env", value.StringValue("TEXEST_TEST_VAR-fallback")).Build())
	got, err := EvalToText(n, nil, newArena(t))
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestEnvSetIncludingEmpty(t *testing.T) {
	os.Setenv("TEXEST_TEST_VAR", "")
	defer os.Unsetenv("TEXEST_TEST_VAR")
	n := mustParse(t, value.NewMap().Set("$env", value.StringValue("TEXEST_TEST_VAR-fallback")).Build())
	got, err := EvalToText(n, nil, newArena(t))
	require.NoError(t, err)
	assert.Equal(t, "", got, "set-but-empty wins over default")
}

func TestEnvUndefinedNoDefaultErrors(t *testing.T) {
	os.Unsetenv("TEXEST_TEST_VAR_UNDEF")
	n := mustParse(t, value.NewMap().Set("$env", value.StringValue("TEXEST_TEST_VAR_UNDEF")).Build())
	_, err := Eval(n, nil, newArena(t))
	assert.Error(t, err)
}

func TestJSONNested(t *testing.T) {
	scope := Scope{"p": value.StringValue("8080")}
	doc := value.NewMap().Set("$json", value.NewMap().Set("port", value.NewMap().Set("$var", value.StringValue("p")).Build()).Build()).Build()
	n := mustParse(t, doc)
	got, err := EvalToText(n, scope, newArena(t))
	require.NoError(t, err)
	assert.Equal(t, `{"port":"8080"}`, got)
}

func TestVarUnknown(t *testing.T) {
	n := mustParse(t, value.NewMap().Set("$var", value.StringValue("missing")).Build())
	_, err := Eval(n, Scope{}, newArena(t))
	assert.Error(t, err)
}

func TestUnknownHead(t *testing.T) {
	_, err := Parse(value.NewMap().Set("$bogus", value.StringValue("x")).Build(), "tests[0]")
	assert.Error(t, err)
}

func TestTmpFileWritesContent(t *testing.T) {
	n := mustParse(t, value.NewMap().Set("$tmp_file", value.StringValue("payload")).Build())
	a := newArena(t)
	got, err := EvalToText(n, nil, a)
	require.NoError(t, err)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

func TestTmpPortBindingEvaluatedOnceIsStable(t *testing.T) {
	// Simulates `let: {port: {$tmp_port: {}}}` referenced twice: the
	// orchestrator evaluates the let binding once and both references read
	// the same scope entry.
	a := newArena(t)
	portNode := mustParse(t, value.NewMap().Set("$tmp_port", value.NewMap().Build()).Build())
	bound, err := Eval(portNode, nil, a)
	require.NoError(t, err)

	scope := Scope{"port": bound}
	varNode := mustParse(t, value.NewMap().Set("$var", value.StringValue("port")).Build())
	a1, err := EvalToText(varNode, scope, a)
	require.NoError(t, err)
	a2, err := EvalToText(varNode, scope, a)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
}

func TestSeqAndMapRecursion(t *testing.T) {
	doc := value.SeqValue([]value.Value{
		value.StringValue("echo"),
		value.NewMap().Set("$env", value.StringValue("TEXEST_TEST_VAR_UNDEF-x")).Build(),
	})
	n := mustParse(t, doc)
	got, err := Eval(n, nil, newArena(t))
	require.NoError(t, err)
	items, ok := got.Seq()
	require.True(t, ok)
	require.Len(t, items, 2)
}
