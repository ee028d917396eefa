package runtime

import (
	"math"

	"github.com/ritamzico/jmespath/internal/syntax"
)

// ExprRef is the default representation of an `&expr` expression
// reference: an unevaluated AST subtree, consumed by higher-order builtins
// such as map and sort_by. It captures no value or scope; the consumer
// supplies the value it is evaluated against.
type ExprRef struct {
	Node *syntax.Node
}

// Default is the built-in Runtime: null is Go nil, booleans are bool,
// numbers are float64, strings are string, arrays are []any, objects are
// *OrderedMap, and expression references are *ExprRef. It is stateless
// and safe for concurrent use by multiple CompiledExpression evaluations.
type Default struct{}

// New returns the default Runtime implementation.
func New() Runtime {
	return Default{}
}

func (Default) Kind(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, int64, int:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case *OrderedMap:
		return KindObject
	case *ExprRef:
		return KindExpRef
	default:
		return KindNull
	}
}

func (Default) Null() any { return nil }

func (Default) Bool(b bool) any { return b }

func (Default) AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func (Default) Number(f float64) any { return f }

func (Default) AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (d Default) AsInt(v any) (int64, bool) {
	f, ok := d.AsFloat(v)
	if !ok {
		return 0, false
	}
	if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int64(f), true
}

func (Default) String(s string) any { return s }

func (Default) AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func (Default) Array(items []any) any {
	if items == nil {
		return []any{}
	}
	return items
}

func (Default) AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func (Default) Object() any { return NewOrderedMap() }

func (Default) ObjectSet(obj any, key string, value any) any {
	m, ok := obj.(*OrderedMap)
	if !ok {
		m = NewOrderedMap()
	}
	m.Set(key, value)
	return m
}

func (Default) AsObject(v any) (ObjectEntries, bool) {
	m, ok := v.(*OrderedMap)
	if !ok {
		return nil, false
	}
	return m, true
}

func (Default) ExprRef(node *syntax.Node) any {
	return &ExprRef{Node: node}
}

func (Default) AsExprRef(v any) (*syntax.Node, bool) {
	ref, ok := v.(*ExprRef)
	if !ok {
		return nil, false
	}
	return ref.Node, true
}

func (d Default) Equal(a, b any) bool {
	return deepEqual(d, a, b)
}

func deepEqual(d Default, a, b any) bool {
	ak, bk := d.Kind(a), d.Kind(b)
	if ak != bk {
		return false
	}
	switch ak {
	case KindNull:
		return true
	case KindBool:
		av, _ := d.AsBool(a)
		bv, _ := d.AsBool(b)
		return av == bv
	case KindNumber:
		av, _ := d.AsFloat(a)
		bv, _ := d.AsFloat(b)
		return av == bv
	case KindString:
		av, _ := d.AsString(a)
		bv, _ := d.AsString(b)
		return av == bv
	case KindArray:
		av, _ := d.AsArray(a)
		bv, _ := d.AsArray(b)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(d, av[i], bv[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ao, _ := d.AsObject(a)
		bo, _ := d.AsObject(b)
		if ao.Len() != bo.Len() {
			return false
		}
		equal := true
		ao.Range(func(key string, value any) bool {
			bv, ok := bo.Get(key)
			if !ok || !deepEqual(d, value, bv) {
				equal = false
				return false
			}
			return true
		})
		return equal
	case KindExpRef:
		return a == b
	default:
		return false
	}
}

func (d Default) Compare(a, b any) (int, bool) {
	if af, aok := d.AsFloat(a); aok {
		bf, bok := d.AsFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if as, aok := d.AsString(a); aok {
		bs, bok := d.AsString(b)
		if !bok {
			return 0, false
		}
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func (d Default) Truthy(v any) bool {
	switch d.Kind(v) {
	case KindNull:
		return false
	case KindBool:
		b, _ := d.AsBool(v)
		return b
	case KindString:
		s, _ := d.AsString(v)
		return s != ""
	case KindArray:
		a, _ := d.AsArray(v)
		return len(a) > 0
	case KindObject:
		o, _ := d.AsObject(v)
		return o.Len() > 0
	default:
		return true
	}
}
