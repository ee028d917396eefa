package functions

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ritamzico/jmespath/internal/runtime"
)

func kinds(ks ...runtime.Kind) []runtime.Kind { return ks }

var anyKind []runtime.Kind

func registerBuiltins(r *Registry) {
	r.Register(Descriptor{Name: "abs", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindNumber)}}}, Call: builtinAbs})
	r.Register(Descriptor{Name: "avg", Signature: Signature{Params: []ParamSpec{{ArrayOf: true, Kinds: kinds(runtime.KindNumber)}}}, Call: builtinAvg})
	r.Register(Descriptor{Name: "ceil", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindNumber)}}}, Call: builtinCeil})
	r.Register(Descriptor{Name: "contains", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindArray, runtime.KindString)}, {Kinds: anyKind}}}, Call: builtinContains})
	r.Register(Descriptor{Name: "ends_with", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindString)}, {Kinds: kinds(runtime.KindString)}}}, Call: builtinEndsWith})
	r.Register(Descriptor{Name: "floor", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindNumber)}}}, Call: builtinFloor})
	r.Register(Descriptor{Name: "join", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindString)}, {ArrayOf: true, Kinds: kinds(runtime.KindString)}}}, Call: builtinJoin})
	r.Register(Descriptor{Name: "keys", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindObject)}}}, Call: builtinKeys})
	r.Register(Descriptor{Name: "length", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindString, runtime.KindArray, runtime.KindObject)}}}, Call: builtinLength})
	r.Register(Descriptor{Name: "map", Signature: Signature{Params: []ParamSpec{{Expression: true}, {Kinds: kinds(runtime.KindArray)}}}, Call: builtinMap})
	r.Register(Descriptor{Name: "max", Signature: Signature{Params: []ParamSpec{{ArrayOf: true, Kinds: kinds(runtime.KindNumber, runtime.KindString)}}}, Call: builtinMax})
	r.Register(Descriptor{Name: "max_by", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindArray)}, {Expression: true}}}, Call: builtinMaxBy})
	r.Register(Descriptor{Name: "merge", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindObject)}}, Variadic: true}, Call: builtinMerge})
	r.Register(Descriptor{Name: "min", Signature: Signature{Params: []ParamSpec{{ArrayOf: true, Kinds: kinds(runtime.KindNumber, runtime.KindString)}}}, Call: builtinMin})
	r.Register(Descriptor{Name: "min_by", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindArray)}, {Expression: true}}}, Call: builtinMinBy})
	r.Register(Descriptor{Name: "not_null", Signature: Signature{Params: []ParamSpec{{Kinds: anyKind}}, Variadic: true}, Call: builtinNotNull})
	r.Register(Descriptor{Name: "reverse", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindArray, runtime.KindString)}}}, Call: builtinReverse})
	r.Register(Descriptor{Name: "sort", Signature: Signature{Params: []ParamSpec{{ArrayOf: true, Kinds: kinds(runtime.KindNumber, runtime.KindString)}}}, Call: builtinSort})
	r.Register(Descriptor{Name: "sort_by", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindArray)}, {Expression: true}}}, Call: builtinSortBy})
	r.Register(Descriptor{Name: "starts_with", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindString)}, {Kinds: kinds(runtime.KindString)}}}, Call: builtinStartsWith})
	r.Register(Descriptor{Name: "sum", Signature: Signature{Params: []ParamSpec{{ArrayOf: true, Kinds: kinds(runtime.KindNumber)}}}, Call: builtinSum})
	r.Register(Descriptor{Name: "to_array", Signature: Signature{Params: []ParamSpec{{Kinds: anyKind}}}, Call: builtinToArray})
	r.Register(Descriptor{Name: "to_string", Signature: Signature{Params: []ParamSpec{{Kinds: anyKind}}}, Call: builtinToString})
	r.Register(Descriptor{Name: "to_number", Signature: Signature{Params: []ParamSpec{{Kinds: anyKind}}}, Call: builtinToNumber})
	r.Register(Descriptor{Name: "type", Signature: Signature{Params: []ParamSpec{{Kinds: anyKind}}}, Call: builtinType})
	r.Register(Descriptor{Name: "values", Signature: Signature{Params: []ParamSpec{{Kinds: kinds(runtime.KindObject)}}}, Call: builtinValues})
}

func builtinAbs(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	f, _ := rt.AsFloat(args[0])
	if f < 0 {
		f = -f
	}
	return rt.Number(f), nil
}

func builtinAvg(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	items, _ := rt.AsArray(args[0])
	if len(items) == 0 {
		return rt.Null(), nil
	}
	var total float64
	for _, item := range items {
		f, _ := rt.AsFloat(item)
		total += f
	}
	return rt.Number(total / float64(len(items))), nil
}

func builtinCeil(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	f, _ := rt.AsFloat(args[0])
	return rt.Number(ceil(f)), nil
}

func builtinFloor(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	f, _ := rt.AsFloat(args[0])
	return rt.Number(floor(f)), nil
}

func ceil(f float64) float64 {
	i := float64(int64(f))
	if f > 0 && f != i {
		return i + 1
	}
	return i
}

func floor(f float64) float64 {
	i := float64(int64(f))
	if f < 0 && f != i {
		return i - 1
	}
	return i
}

func builtinContains(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	needle := args[1]
	if s, ok := rt.AsString(args[0]); ok {
		sub, ok := rt.AsString(needle)
		return rt.Bool(ok && strings.Contains(s, sub)), nil
	}
	items, _ := rt.AsArray(args[0])
	found := lo.ContainsBy(items, func(item any) bool { return rt.Equal(item, needle) })
	return rt.Bool(found), nil
}

func builtinEndsWith(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	s, _ := rt.AsString(args[0])
	suffix, _ := rt.AsString(args[1])
	return rt.Bool(strings.HasSuffix(s, suffix)), nil
}

func builtinStartsWith(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	s, _ := rt.AsString(args[0])
	prefix, _ := rt.AsString(args[1])
	return rt.Bool(strings.HasPrefix(s, prefix)), nil
}

func builtinJoin(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	glue, _ := rt.AsString(args[0])
	items, _ := rt.AsArray(args[1])
	parts := lo.Map(items, func(item any, _ int) string {
		s, _ := rt.AsString(item)
		return s
	})
	return rt.String(strings.Join(parts, glue)), nil
}

func builtinKeys(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	obj, _ := rt.AsObject(args[0])
	keyVals := lo.Map(obj.Keys(), func(k string, _ int) any { return rt.String(k) })
	return rt.Array(keyVals), nil
}

func builtinValues(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	obj, _ := rt.AsObject(args[0])
	var vals []any
	obj.Range(func(_ string, v any) bool {
		vals = append(vals, v)
		return true
	})
	return rt.Array(vals), nil
}

func builtinLength(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	switch rt.Kind(args[0]) {
	case runtime.KindString:
		s, _ := rt.AsString(args[0])
		return rt.Number(float64(runeLen(s))), nil
	case runtime.KindArray:
		items, _ := rt.AsArray(args[0])
		return rt.Number(float64(len(items))), nil
	default:
		obj, _ := rt.AsObject(args[0])
		return rt.Number(float64(obj.Len())), nil
	}
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func builtinMap(rt runtime.Runtime, ev Evaluator, args []any) (any, error) {
	node, _ := rt.AsExprRef(args[0])
	items, _ := rt.AsArray(args[1])
	results := make([]any, len(items))
	for i, item := range items {
		v, err := ev.Evaluate(node, item)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return rt.Array(results), nil
}

func builtinSort(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	items, _ := rt.AsArray(args[0])
	sorted := append([]any(nil), items...)
	var sortErr error
	sort.SliceStable(sorted, func(i, j int) bool {
		less, err := lessValues(rt, sorted[i], sorted[j])
		if err != nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return rt.Array(sorted), nil
}

func lessValues(rt runtime.Runtime, a, b any) (bool, error) {
	if rt.Kind(a) == runtime.KindNumber && rt.Kind(b) == runtime.KindNumber {
		cmp, _ := rt.Compare(a, b)
		return cmp < 0, nil
	}
	as, aok := rt.AsString(a)
	bs, bok := rt.AsString(b)
	if aok && bok {
		return as < bs, nil
	}
	return false, newError("sort", ErrInvalidValue, "array elements must be all numbers or all strings")
}

func builtinMin(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	return extremum(rt, args[0], true)
}

func builtinMax(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	return extremum(rt, args[0], false)
}

func extremum(rt runtime.Runtime, arr any, wantMin bool) (any, error) {
	items, _ := rt.AsArray(arr)
	if len(items) == 0 {
		return rt.Null(), nil
	}
	best := items[0]
	for _, item := range items[1:] {
		less, err := lessValues(rt, item, best)
		if err != nil {
			return nil, err
		}
		if less == wantMin {
			best = item
		}
	}
	return best, nil
}

func builtinSortBy(rt runtime.Runtime, ev Evaluator, args []any) (any, error) {
	return sortByKey(rt, ev, args[0], args[1], false)
}

func builtinMinBy(rt runtime.Runtime, ev Evaluator, args []any) (any, error) {
	return extremumBy(rt, ev, args[0], args[1], true)
}

func builtinMaxBy(rt runtime.Runtime, ev Evaluator, args []any) (any, error) {
	return extremumBy(rt, ev, args[0], args[1], false)
}

func sortByKey(rt runtime.Runtime, ev Evaluator, arr, exprRef any, _ bool) (any, error) {
	node, _ := rt.AsExprRef(exprRef)
	items, _ := rt.AsArray(arr)
	keyed := make([]struct {
		item any
		key  any
	}, len(items))
	for i, item := range items {
		k, err := ev.Evaluate(node, item)
		if err != nil {
			return nil, err
		}
		keyed[i] = struct {
			item any
			key  any
		}{item, k}
	}
	var sortErr error
	sort.SliceStable(keyed, func(i, j int) bool {
		less, err := lessValues(rt, keyed[i].key, keyed[j].key)
		if err != nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	result := lo.Map(keyed, func(k struct {
		item any
		key  any
	}, _ int) any {
		return k.item
	})
	return rt.Array(result), nil
}

func extremumBy(rt runtime.Runtime, ev Evaluator, arr, exprRef any, wantMin bool) (any, error) {
	node, _ := rt.AsExprRef(exprRef)
	items, _ := rt.AsArray(arr)
	if len(items) == 0 {
		return rt.Null(), nil
	}
	bestItem := items[0]
	bestKey, err := ev.Evaluate(node, bestItem)
	if err != nil {
		return nil, err
	}
	for _, item := range items[1:] {
		key, err := ev.Evaluate(node, item)
		if err != nil {
			return nil, err
		}
		less, err := lessValues(rt, key, bestKey)
		if err != nil {
			return nil, err
		}
		if less == wantMin {
			bestItem, bestKey = item, key
		}
	}
	return bestItem, nil
}

func builtinMerge(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	result := rt.Object()
	for _, arg := range args {
		obj, _ := rt.AsObject(arg)
		obj.Range(func(k string, v any) bool {
			result = rt.ObjectSet(result, k, v)
			return true
		})
	}
	return result, nil
}

func builtinNotNull(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	for _, arg := range args {
		if rt.Kind(arg) != runtime.KindNull {
			return arg, nil
		}
	}
	return rt.Null(), nil
}

func builtinReverse(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	if s, ok := rt.AsString(args[0]); ok {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return rt.String(string(runes)), nil
	}
	items, _ := rt.AsArray(args[0])
	return rt.Array(lo.Reverse(append([]any(nil), items...))), nil
}

func builtinToArray(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	if rt.Kind(args[0]) == runtime.KindArray {
		return args[0], nil
	}
	return rt.Array([]any{args[0]}), nil
}

func builtinToString(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	s, err := runtime.CoerceToString(rt, args[0])
	if err != nil {
		return nil, newError("to_string", ErrInvalidValue, "%s", err)
	}
	return rt.String(s), nil
}

func builtinToNumber(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	v, ok := runtime.CoerceToNumber(rt, args[0])
	if !ok {
		return rt.Null(), nil
	}
	return v, nil
}

func builtinType(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	k := rt.Kind(args[0])
	if k == runtime.KindExpRef {
		return rt.String("expref"), nil
	}
	return rt.String(k.String()), nil
}

func builtinSum(rt runtime.Runtime, _ Evaluator, args []any) (any, error) {
	items, _ := rt.AsArray(args[0])
	var total float64
	for _, item := range items {
		f, _ := rt.AsFloat(item)
		total += f
	}
	return rt.Number(total), nil
}
