package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-texest/texest/internal/value"
)

func TestStatusEqPass(t *testing.T) {
	out, err := EvaluateStatus("eq", false, value.IntValue(0), value.IntValue(0))
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestStreamEqFailMessageLiteral(t *testing.T) {
	out, err := EvaluateStream("eq", false, value.StringValue("goodbye\n"), value.StringValue("hello\n"))
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, "not equals:\n\n-hello\n+goodbye\n", out.Message)
}

func TestStreamEqNegatedPassMessageLiteral(t *testing.T) {
	out, err := EvaluateStream("eq", true, value.StringValue("hello\n"), value.StringValue("hello\n"))
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, `should not be "hello\n", but got it`, out.Message)
}

func TestStreamEqNegatedFail(t *testing.T) {
	out, err := EvaluateStream("eq", true, value.StringValue("goodbye\n"), value.StringValue("hello\n"))
	require.NoError(t, err)
	assert.True(t, out.Passed, "mismatching buffer under not.eq should pass")
}

func TestContainMatcher(t *testing.T) {
	out, err := EvaluateStream("contain", false, value.StringValue("hello world"), value.StringValue("wor"))
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestMatchRegex(t *testing.T) {
	out, err := EvaluateStream("match_regex", false, value.StringValue("status: ok (200)"), value.StringValue(`\(\d+\)`))
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestMatchRegexInvalidPattern(t *testing.T) {
	_, err := EvaluateStream("match_regex", false, value.StringValue("x"), value.StringValue("("))
	assert.Error(t, err)
}

func TestIncludeJSONTwoMismatchPaths(t *testing.T) {
	actual := value.StringValue(`{"message":"world","nums":[1,0,3],"passed":true}`)
	param := value.NewMap().
		Set("message", value.StringValue("hello")).
		Set("nums", value.SeqValue([]value.Value{value.IntValue(1), value.IntValue(2)})).
		Build()

	out, err := EvaluateStream("include_json", false, actual, param)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Message, `json atoms at path ".message" are not equal`)
	assert.Contains(t, out.Message, `json atoms at path ".nums[1]" are not equal`)
}

func TestIncludeJSONNegatedPassMessage(t *testing.T) {
	actual := value.StringValue(`{"message":"hello"}`)
	param := value.NewMap().Set("message", value.StringValue("hello")).Build()

	out, err := EvaluateStream("include_json", true, actual, param)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, `should not include {"message":"hello"} as JSON, but got it`, out.Message)
}

func TestEqJSONIgnoresObjectKeyOrder(t *testing.T) {
	actual := value.StringValue(`{"b":2,"a":1}`)
	param := value.NewMap().Set("a", value.IntValue(1)).Set("b", value.IntValue(2)).Build()

	out, err := EvaluateStream("eq_json", false, actual, param)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestEqJSONNumericCrossEquality(t *testing.T) {
	actual := value.StringValue(`{"n":3}`)
	param := value.NewMap().Set("n", value.FloatValue(3)).Build()

	out, err := EvaluateStream("eq_json", false, actual, param)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestIncludeJSONReflexive(t *testing.T) {
	actual := value.StringValue(`{"a":1,"b":{"c":2}}`)
	j, err := value.ParseJSON([]byte(`{"a":1,"b":{"c":2}}`))
	require.NoError(t, err)

	out, err := EvaluateStream("include_json", false, actual, j)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}
