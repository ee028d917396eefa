// Package runtime defines the value model the evaluator operates on. The
// evaluator never touches a concrete Go representation directly; it goes
// through the Runtime interface so a caller can swap in a different value
// representation (for example one backed by a streaming JSON decoder)
// without touching internal/eval or internal/functions.
package runtime

import "github.com/ritamzico/jmespath/internal/syntax"

// Kind discriminates the seven value categories the language operates on.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindExpRef
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindExpRef:
		return "expref"
	default:
		return "unknown"
	}
}

// ObjectEntries exposes an object's fields in a fixed iteration order. The
// default Runtime preserves insertion order; any alternate Runtime must
// honor the same guarantee so functions like keys/values/to_string behave
// identically regardless of which Runtime produced the value.
type ObjectEntries interface {
	Len() int
	Keys() []string
	Values() []any
	Get(key string) (any, bool)
	Range(fn func(key string, value any) bool)
}

// Runtime abstracts every operation the evaluator and builtin functions
// need to perform on values: kind discrimination, construction,
// destructuring, comparison, equality, and truthiness. A value produced
// by one Runtime method is only guaranteed meaningful to other methods of
// the same Runtime instance.
type Runtime interface {
	// Kind reports the category of v.
	Kind(v any) Kind

	// Null returns the runtime's null value.
	Null() any

	// Bool constructs/destructures booleans.
	Bool(b bool) any
	AsBool(v any) (bool, bool)

	// Number constructs/destructures numbers. JMESPath numbers are
	// IEEE-754 doubles at the language level; AsInt additionally reports
	// whether v is exactly representable as an integer.
	Number(f float64) any
	AsFloat(v any) (float64, bool)
	AsInt(v any) (int64, bool)

	// String constructs/destructures strings.
	String(s string) any
	AsString(v any) (string, bool)

	// Array constructs/destructures arrays.
	Array(items []any) any
	AsArray(v any) ([]any, bool)

	// Object constructs an empty object and appends to it in place,
	// returning the same value for chaining; AsObject destructures.
	Object() any
	ObjectSet(obj any, key string, value any) any
	AsObject(v any) (ObjectEntries, bool)

	// ExprRef wraps an unevaluated AST subtree as produced by `&expr`;
	// AsExprRef recovers it for higher-order builtins (map, sort_by, ...).
	ExprRef(node *syntax.Node) any
	AsExprRef(v any) (*syntax.Node, bool)

	// Equal reports deep structural equality per the language's equality
	// rules (numbers compared numerically, objects order-independent).
	Equal(a, b any) bool

	// Compare orders two values for <, <=, >, >=. ok is false unless both
	// values are numbers or both are strings, making the comparison
	// undefined (the evaluator maps that to a null result, not an error).
	Compare(a, b any) (result int, ok bool)

	// Truthy implements the language's truthiness rule: false, null,
	// zero-length string/array/object are falsy; everything else,
	// including the number 0, is truthy.
	Truthy(v any) bool
}
