package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/jmespath/internal/functions"
	"github.com/ritamzico/jmespath/internal/runtime"
	"github.com/ritamzico/jmespath/internal/syntax"
)

func eval(t *testing.T, expression, jsonData string) any {
	t.Helper()
	rt := runtime.New()
	node, err := syntax.NewParser().Parse(expression)
	require.NoError(t, err)
	native, err := runtime.ParseOrderedJSON([]byte(jsonData))
	require.NoError(t, err)
	value := runtime.FromNative(rt, native)
	result, err := New(rt, functions.NewRegistry()).Evaluate(node, value)
	require.NoError(t, err)
	return runtime.ToNative(rt, result)
}

func evalErr(t *testing.T, expression, jsonData string) error {
	t.Helper()
	rt := runtime.New()
	node, err := syntax.NewParser().Parse(expression)
	require.NoError(t, err)
	native, err := runtime.ParseOrderedJSON([]byte(jsonData))
	require.NoError(t, err)
	value := runtime.FromNative(rt, native)
	_, err = New(rt, functions.NewRegistry()).Evaluate(node, value)
	return err
}

func TestEvaluateFieldAccess(t *testing.T) {
	assert.Equal(t, "bar", eval(t, "foo", `{"foo": "bar"}`))
}

func TestEvaluateFieldOnNonObjectIsNull(t *testing.T) {
	assert.Nil(t, eval(t, "foo", `"a string"`))
}

func TestEvaluateNegativeIndex(t *testing.T) {
	assert.Equal(t, float64(3), eval(t, "[-1]", `[1, 2, 3]`))
}

func TestEvaluateOutOfRangeIndexIsNull(t *testing.T) {
	assert.Nil(t, eval(t, "[10]", `[1, 2, 3]`))
}

func TestEvaluateSliceBasic(t *testing.T) {
	assert.Equal(t, []any{float64(2), float64(3)}, eval(t, "[1:3]", `[1, 2, 3, 4]`))
}

func TestEvaluateSliceNegativeStep(t *testing.T) {
	assert.Equal(t, []any{float64(4), float64(3), float64(2), float64(1)}, eval(t, "[::-1]", `[1, 2, 3, 4]`))
}

func TestEvaluateSliceStepZeroErrors(t *testing.T) {
	err := evalErr(t, "[::0]", `[1, 2, 3]`)
	require.Error(t, err)
}

func TestEvaluateSliceStartGreaterThanStopIsEmpty(t *testing.T) {
	assert.Equal(t, []any{}, eval(t, "[3:1]", `[1, 2, 3, 4]`))
}

func TestEvaluateFlatten(t *testing.T) {
	assert.Equal(t, []any{float64(1), float64(2), float64(3), float64(4)}, eval(t, "[]", `[[1, 2], [3, 4]]`))
}

func TestEvaluateFlattenMixedElements(t *testing.T) {
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, eval(t, "[]", `[[1, 2], 3]`))
}

func TestEvaluateProjectionSkipsNull(t *testing.T) {
	assert.Equal(t, []any{"x", "y"}, eval(t, "[*].a", `[{"a": "x"}, {"b": 1}, {"a": "y"}]`))
}

func TestEvaluateObjectProjection(t *testing.T) {
	result := eval(t, "*.a", `{"x": {"a": 1}, "y": {"a": 2}}`)
	assert.ElementsMatch(t, []any{float64(1), float64(2)}, result)
}

func TestEvaluateFilterProjection(t *testing.T) {
	assert.Equal(t, []any{"b"}, eval(t, "[?age > `20`].name", `[{"name": "a", "age": 10}, {"name": "b", "age": 30}]`))
}

func TestEvaluatePipeForcesFreshContext(t *testing.T) {
	assert.Equal(t, float64(1), eval(t, "foo[*]|[0]", `{"foo": [1, 2, 3]}`))
}

func TestEvaluateAndOrShortCircuit(t *testing.T) {
	assert.Equal(t, false, eval(t, "a && b", `{"a": false, "b": true}`))
	assert.Equal(t, true, eval(t, "a || b", `{"a": false, "b": true}`))
}

func TestEvaluateComparatorMixedKindsIsNull(t *testing.T) {
	assert.Nil(t, eval(t, "a < b", `{"a": "x", "b": 1}`))
}

func TestEvaluateComparatorOrdersSameKindStrings(t *testing.T) {
	assert.Equal(t, true, eval(t, "a < b", `{"a": "apple", "b": "banana"}`))
	assert.Equal(t, false, eval(t, "a > b", `{"a": "apple", "b": "banana"}`))
	assert.Equal(t, true, eval(t, "a <= b", `{"a": "same", "b": "same"}`))
}

func TestEvaluateMultiSelectListOnNullIsNull(t *testing.T) {
	assert.Nil(t, eval(t, "[a, b]", `null`))
}

func TestEvaluateMultiSelectHash(t *testing.T) {
	result := eval(t, "{x: a, y: b}", `{"a": 1, "b": 2}`)
	obj := result.(map[string]any)
	assert.Equal(t, float64(1), obj["x"])
	assert.Equal(t, float64(2), obj["y"])
}

func TestEvaluateLiteral(t *testing.T) {
	assert.Equal(t, []any{float64(1), float64(2)}, eval(t, "`[1, 2]`", `null`))
}

func TestEvaluateRawString(t *testing.T) {
	assert.Equal(t, "hi", eval(t, "'hi'", `null`))
}

func TestEvaluateFunctionCall(t *testing.T) {
	assert.Equal(t, float64(3), eval(t, "length(@)", `[1, 2, 3]`))
}

func TestEvaluateSortByExpressionRef(t *testing.T) {
	result := eval(t, "sort_by(@, &age)", `[{"age": 3}, {"age": 1}, {"age": 2}]`)
	arr := result.([]any)
	var ages []float64
	for _, item := range arr {
		ages = append(ages, item.(map[string]any)["age"].(float64))
	}
	assert.Equal(t, []float64{1, 2, 3}, ages)
}

func TestEvaluateIdentityPurity(t *testing.T) {
	rt := runtime.New()
	node, err := syntax.NewParser().Parse("foo.bar")
	require.NoError(t, err)
	native, err := runtime.ParseOrderedJSON([]byte(`{"foo": {"bar": 1}}`))
	require.NoError(t, err)
	value := runtime.FromNative(rt, native)
	interp := New(rt, functions.NewRegistry())

	first, err := interp.Evaluate(node, value)
	require.NoError(t, err)
	second, err := interp.Evaluate(node, value)
	require.NoError(t, err)
	assert.True(t, rt.Equal(first, second), "evaluating the same expression against the same value twice must be pure")
}
