// Package eval implements the tree-walking evaluator that drives a parsed
// expression against a value supplied through internal/runtime.
package eval

import (
	"github.com/samber/lo"

	"github.com/ritamzico/jmespath/internal/functions"
	"github.com/ritamzico/jmespath/internal/runtime"
	"github.com/ritamzico/jmespath/internal/syntax"
)

// Interpreter evaluates AST nodes against a Runtime's value model. It is
// stateless beyond its Runtime and Registry references and safe to reuse
// (and share across goroutines) once constructed; Evaluate never mutates
// the Interpreter itself.
type Interpreter struct {
	rt       runtime.Runtime
	registry *functions.Registry
}

// New builds an Interpreter over the given Runtime and function Registry.
func New(rt runtime.Runtime, registry *functions.Registry) *Interpreter {
	return &Interpreter{rt: rt, registry: registry}
}

// Evaluate runs node against current and returns the resulting value in
// the Interpreter's Runtime representation.
func (it *Interpreter) Evaluate(node *syntax.Node, current any) (any, error) {
	rt := it.rt
	switch node.Type {
	case syntax.NodeCurrent:
		return current, nil

	case syntax.NodeField:
		if rt.Kind(current) != runtime.KindObject {
			return rt.Null(), nil
		}
		obj, _ := rt.AsObject(current)
		v, ok := obj.Get(node.Name)
		if !ok {
			return rt.Null(), nil
		}
		return v, nil

	case syntax.NodeIndex:
		if rt.Kind(current) != runtime.KindArray {
			return rt.Null(), nil
		}
		items, _ := rt.AsArray(current)
		idx := int(node.Value.(int64))
		if idx < 0 {
			idx += len(items)
		}
		if idx < 0 || idx >= len(items) {
			return rt.Null(), nil
		}
		return items[idx], nil

	case syntax.NodeSlice:
		if rt.Kind(current) != runtime.KindArray {
			return rt.Null(), nil
		}
		items, _ := rt.AsArray(current)
		sliced, err := sliceArray(items, node.Start, node.Stop, node.Step)
		if err != nil {
			return nil, err
		}
		return rt.Array(sliced), nil

	case syntax.NodeFlatten:
		source, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if rt.Kind(source) != runtime.KindArray {
			return rt.Null(), nil
		}
		items, _ := rt.AsArray(source)
		flat := lo.FlatMap(items, func(item any, _ int) []any {
			if rt.Kind(item) == runtime.KindArray {
				sub, _ := rt.AsArray(item)
				return sub
			}
			return []any{item}
		})
		return rt.Array(flat), nil

	case syntax.NodeProjection:
		source, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if rt.Kind(source) != runtime.KindArray {
			return rt.Null(), nil
		}
		items, _ := rt.AsArray(source)
		return it.project(items, node.Children[1])

	case syntax.NodeObjectProjection:
		source, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if rt.Kind(source) != runtime.KindObject {
			return rt.Null(), nil
		}
		obj, _ := rt.AsObject(source)
		return it.project(obj.Values(), node.Children[1])

	case syntax.NodeFilterProjection:
		source, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if rt.Kind(source) != runtime.KindArray {
			return rt.Null(), nil
		}
		items, _ := rt.AsArray(source)
		passed := make([]bool, len(items))
		for i, item := range items {
			cond, err := it.Evaluate(node.Children[2], item)
			if err != nil {
				return nil, err
			}
			passed[i] = rt.Truthy(cond)
		}
		kept := lo.Filter(items, func(_ any, i int) bool { return passed[i] })
		return it.project(kept, node.Children[1])

	case syntax.NodeSubexpression, syntax.NodePipe:
		left, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		return it.Evaluate(node.Children[1], left)

	case syntax.NodeAnd:
		left, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if !rt.Truthy(left) {
			return left, nil
		}
		return it.Evaluate(node.Children[1], current)

	case syntax.NodeOr:
		left, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		if rt.Truthy(left) {
			return left, nil
		}
		return it.Evaluate(node.Children[1], current)

	case syntax.NodeNot:
		v, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		return rt.Bool(!rt.Truthy(v)), nil

	case syntax.NodeComparator:
		a, err := it.Evaluate(node.Children[0], current)
		if err != nil {
			return nil, err
		}
		b, err := it.Evaluate(node.Children[1], current)
		if err != nil {
			return nil, err
		}
		return compare(rt, node.Value.(syntax.TokKind), a, b), nil

	case syntax.NodeMultiSelectList:
		if rt.Kind(current) == runtime.KindNull {
			return rt.Null(), nil
		}
		results := make([]any, len(node.Children))
		for i, child := range node.Children {
			v, err := it.Evaluate(child, current)
			if err != nil {
				return nil, err
			}
			results[i] = v
		}
		return rt.Array(results), nil

	case syntax.NodeMultiSelectHash:
		if rt.Kind(current) == runtime.KindNull {
			return rt.Null(), nil
		}
		obj := rt.Object()
		for _, pair := range node.Value.([]syntax.HashPair) {
			v, err := it.Evaluate(pair.Value, current)
			if err != nil {
				return nil, err
			}
			obj = rt.ObjectSet(obj, pair.Key, v)
		}
		return obj, nil

	case syntax.NodeLiteral:
		decoded, err := runtime.ParseOrderedJSON([]byte(node.Value.(string)))
		if err != nil {
			return nil, newError(ErrInvalidValue, "malformed JSON literal: %s", err)
		}
		return runtime.FromNative(rt, decoded), nil

	case syntax.NodeRawString:
		return rt.String(node.Value.(string)), nil

	case syntax.NodeExpressionRef:
		return rt.ExprRef(node.Children[0]), nil

	case syntax.NodeFunctionCall:
		name := node.Value.(string)
		args := make([]any, len(node.Children))
		for i, child := range node.Children {
			v, err := it.Evaluate(child, current)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return it.registry.Call(rt, it, name, args)

	default:
		return nil, newError(ErrInvalidValue, "unhandled node type %v", node.Type)
	}
}

// project implements the shared skip-null projection rule: rhs is
// evaluated against each element of items, and the non-null results are
// collected in order.
func (it *Interpreter) project(items []any, rhs *syntax.Node) (any, error) {
	rt := it.rt
	values := make([]any, len(items))
	for i, item := range items {
		v, err := it.Evaluate(rhs, item)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	kept := lo.Filter(values, func(v any, _ int) bool { return rt.Kind(v) != runtime.KindNull })
	return rt.Array(kept), nil
}

func compare(rt runtime.Runtime, op syntax.TokKind, a, b any) any {
	switch op {
	case syntax.TokEQ:
		return rt.Bool(rt.Equal(a, b))
	case syntax.TokNE:
		return rt.Bool(!rt.Equal(a, b))
	}
	cmp, ok := rt.Compare(a, b)
	if !ok {
		return rt.Null()
	}
	switch op {
	case syntax.TokLT:
		return rt.Bool(cmp < 0)
	case syntax.TokLTE:
		return rt.Bool(cmp <= 0)
	case syntax.TokGT:
		return rt.Bool(cmp > 0)
	case syntax.TokGTE:
		return rt.Bool(cmp >= 0)
	default:
		return rt.Null()
	}
}

// sliceArray implements the slice algorithm shared by every JMESPath
// implementation: a zero step is an error, a negative step walks the
// array backwards, and start/stop default and clamp differently
// depending on the step's sign.
func sliceArray(items []any, start, stop, step *int64) ([]any, error) {
	length := len(items)
	s := 1
	if step != nil {
		s = int(*step)
	}
	if s == 0 {
		return nil, newError(ErrInvalidValue, "slice step cannot be 0")
	}
	negative := s < 0

	var startIdx, stopIdx int
	if start == nil {
		if negative {
			startIdx = length - 1
		} else {
			startIdx = 0
		}
	} else {
		startIdx = capSliceIndex(length, int(*start), s)
	}
	if stop == nil {
		if negative {
			stopIdx = -1
		} else {
			stopIdx = length
		}
	} else {
		stopIdx = capSliceIndex(length, int(*stop), s)
	}

	var result []any
	if s > 0 {
		for i := startIdx; i < stopIdx; i += s {
			result = append(result, items[i])
		}
	} else {
		for i := startIdx; i > stopIdx; i += s {
			result = append(result, items[i])
		}
	}
	return result, nil
}

func capSliceIndex(length, actual, step int) int {
	if actual < 0 {
		actual += length
		if actual < 0 {
			if step < 0 {
				actual = -1
			} else {
				actual = 0
			}
		}
	} else if actual >= length {
		if step < 0 {
			actual = length - 1
		} else {
			actual = length
		}
	}
	return actual
}
