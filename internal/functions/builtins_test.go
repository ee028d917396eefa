package functions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/jmespath/internal/functions"
	"github.com/ritamzico/jmespath/internal/runtime"
)

// call exercises builtins through Registry.Call with a nil Evaluator; none
// of the cases below reference an expression argument, so no Evaluator
// implementation is needed.
func call(t *testing.T, name string, args ...any) any {
	t.Helper()
	rt := runtime.New()
	reg := functions.NewRegistry()
	result, err := reg.Call(rt, nil, name, args)
	require.NoError(t, err)
	return result
}

func TestAbsCeilFloor(t *testing.T) {
	rt := runtime.New()
	assert.Equal(t, rt.Number(5), call(t, "abs", rt.Number(-5)))
	assert.Equal(t, rt.Number(3), call(t, "ceil", rt.Number(2.1)))
	assert.Equal(t, rt.Number(2), call(t, "floor", rt.Number(2.9)))
}

func TestSumAvgEmptyArray(t *testing.T) {
	rt := runtime.New()
	assert.Equal(t, rt.Number(0), call(t, "sum", rt.Array(nil)))
	assert.Equal(t, rt.Null(), call(t, "avg", rt.Array(nil)))
}

func TestLengthAcrossKinds(t *testing.T) {
	rt := runtime.New()
	assert.Equal(t, rt.Number(3), call(t, "length", rt.String("abc")))
	assert.Equal(t, rt.Number(2), call(t, "length", rt.Array([]any{rt.Number(1), rt.Number(2)})))
}

func TestContainsString(t *testing.T) {
	rt := runtime.New()
	assert.Equal(t, rt.Bool(true), call(t, "contains", rt.String("hello"), rt.String("ell")))
	assert.Equal(t, rt.Bool(false), call(t, "contains", rt.String("hello"), rt.String("zz")))
}

func TestSortAscendingWithDuplicates(t *testing.T) {
	rt := runtime.New()
	reg := functions.NewRegistry()
	arr := rt.Array([]any{rt.Number(3), rt.Number(1), rt.Number(2), rt.Number(1)})
	result, err := reg.Call(rt, nil, "sort", []any{arr})
	require.NoError(t, err)
	items, _ := rt.AsArray(result)
	var got []float64
	for _, item := range items {
		f, _ := rt.AsFloat(item)
		got = append(got, f)
	}
	assert.Equal(t, []float64{1, 1, 2, 3}, got)
}

func TestSortMixedKindsIsInvalidValue(t *testing.T) {
	rt := runtime.New()
	reg := functions.NewRegistry()
	arr := rt.Array([]any{rt.Number(1), rt.String("a")})
	_, err := reg.Call(rt, nil, "sort", []any{arr})
	require.Error(t, err)
	var fnErr *functions.Error
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, functions.ErrInvalidValue, fnErr.Kind)
}

func TestUnknownFunction(t *testing.T) {
	rt := runtime.New()
	reg := functions.NewRegistry()
	_, err := reg.Call(rt, nil, "not_a_real_function", nil)
	require.Error(t, err)
	var fnErr *functions.Error
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, functions.ErrUnknownFunction, fnErr.Kind)
}

func TestInvalidArity(t *testing.T) {
	rt := runtime.New()
	reg := functions.NewRegistry()
	_, err := reg.Call(rt, nil, "abs", []any{rt.Number(1), rt.Number(2)})
	require.Error(t, err)
	var fnErr *functions.Error
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, functions.ErrInvalidArity, fnErr.Kind)
}

func TestInvalidType(t *testing.T) {
	rt := runtime.New()
	reg := functions.NewRegistry()
	_, err := reg.Call(rt, nil, "abs", []any{rt.String("x")})
	require.Error(t, err)
	var fnErr *functions.Error
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, functions.ErrInvalidType, fnErr.Kind)
}

func TestToArrayWrapsNonArray(t *testing.T) {
	rt := runtime.New()
	result := call(t, "to_array", rt.String("x"))
	items, ok := rt.AsArray(result)
	require.True(t, ok)
	assert.Equal(t, []any{rt.String("x")}, items)
}

func TestToNumberInvalidStringIsNull(t *testing.T) {
	rt := runtime.New()
	assert.Equal(t, rt.Null(), call(t, "to_number", rt.String("not a number")))
}

func TestMergeLaterKeysWin(t *testing.T) {
	rt := runtime.New()
	a := rt.ObjectSet(rt.Object(), "x", rt.Number(1))
	b := rt.ObjectSet(rt.Object(), "x", rt.Number(2))
	result := call(t, "merge", a, b)
	obj, _ := rt.AsObject(result)
	v, _ := obj.Get("x")
	assert.Equal(t, rt.Number(2), v)
}

func TestNotNullReturnsFirstNonNull(t *testing.T) {
	rt := runtime.New()
	assert.Equal(t, rt.Number(1), call(t, "not_null", rt.Null(), rt.Null(), rt.Number(1)))
}
