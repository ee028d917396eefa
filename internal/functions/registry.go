// Package functions implements the builtin function library and the
// signature-checked registry that dispatches calls to it. It depends on
// internal/runtime for the value model but deliberately not on
// internal/eval: higher-order functions like map and sort_by need to
// evaluate an expression reference against a value, so the evaluator is
// injected as the Evaluator interface rather than imported, keeping the
// dependency one-directional (internal/eval imports internal/functions,
// never the reverse).
package functions

import (
	"github.com/ritamzico/jmespath/internal/runtime"
	"github.com/ritamzico/jmespath/internal/syntax"
)

// Evaluator is the capability a builtin needs to run an expression
// reference (the &expr argument to map, sort_by, min_by, max_by) against
// a candidate value. internal/eval's Interpreter implements this.
type Evaluator interface {
	Evaluate(node *syntax.Node, current any) (any, error)
}

// ParamSpec constrains one positional argument of a function Signature.
type ParamSpec struct {
	// Kinds lists the acceptable runtime.Kind values; nil/empty means any
	// kind is accepted.
	Kinds []runtime.Kind
	// ArrayOf, when true, requires the argument to be an array whose
	// elements each satisfy Kinds (nil Kinds means elements of any kind).
	ArrayOf bool
	// Expression, when true, requires the argument to be an expression
	// reference (the result of &expr), bypassing Kinds entirely.
	Expression bool
}

// Signature describes a function's arity and per-argument constraints.
// When Variadic is true, the last ParamSpec matches every argument from
// its position onward (zero or more), so the minimum arity is
// len(Params)-1.
type Signature struct {
	Params   []ParamSpec
	Variadic bool
}

func (s Signature) minArity() int {
	if s.Variadic {
		return len(s.Params) - 1
	}
	return len(s.Params)
}

// paramAt returns the ParamSpec governing argument index i.
func (s Signature) paramAt(i int) ParamSpec {
	if s.Variadic && i >= len(s.Params)-1 {
		return s.Params[len(s.Params)-1]
	}
	return s.Params[i]
}

// Fn is a builtin's implementation: args have already been evaluated and
// checked against Signature by the time Fn runs.
type Fn func(rt runtime.Runtime, ev Evaluator, args []any) (any, error)

// Descriptor is one registered builtin.
type Descriptor struct {
	Name      string
	Signature Signature
	Call      Fn
}

// Registry is a name-to-Descriptor lookup table. The zero value is not
// usable; construct one with NewRegistry or NewEmptyRegistry.
type Registry struct {
	entries map[string]Descriptor
}

// NewEmptyRegistry returns a Registry with no functions registered, for
// callers that want to build a custom function set from scratch.
func NewEmptyRegistry() *Registry {
	return &Registry{entries: make(map[string]Descriptor)}
}

// NewRegistry returns a Registry pre-populated with the standard builtin
// library (see builtins.go).
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	registerBuiltins(r)
	return r
}

// Register adds or replaces a Descriptor under its own Name.
func (r *Registry) Register(d Descriptor) {
	r.entries[d.Name] = d
}

// Lookup returns the Descriptor registered for name, if any.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.entries[name]
	return d, ok
}

// Call validates args against the named function's Signature and, if
// they conform, invokes it.
func (r *Registry) Call(rt runtime.Runtime, ev Evaluator, name string, args []any) (any, error) {
	d, ok := r.entries[name]
	if !ok {
		return nil, newError(name, ErrUnknownFunction, "unknown function")
	}
	sig := d.Signature
	if len(args) < sig.minArity() || (!sig.Variadic && len(args) > len(sig.Params)) {
		return nil, newError(name, ErrInvalidArity, "expected %d argument(s), got %d", sig.minArity(), len(args))
	}
	for i, arg := range args {
		spec := sig.paramAt(i)
		if err := checkParam(rt, name, i, spec, arg); err != nil {
			return nil, err
		}
	}
	return d.Call(rt, ev, args)
}

func checkParam(rt runtime.Runtime, fn string, index int, spec ParamSpec, arg any) error {
	if spec.Expression {
		if rt.Kind(arg) != runtime.KindExpRef {
			return newError(fn, ErrInvalidType, "argument %d must be an expression reference", index+1)
		}
		return nil
	}
	if spec.ArrayOf {
		items, ok := rt.AsArray(arg)
		if !ok {
			return newError(fn, ErrInvalidType, "argument %d must be an array", index+1)
		}
		if len(spec.Kinds) == 0 {
			return nil
		}
		for _, item := range items {
			if !kindAllowed(rt.Kind(item), spec.Kinds) {
				return newError(fn, ErrInvalidType, "argument %d must be an array of %v", index+1, spec.Kinds)
			}
		}
		return nil
	}
	if len(spec.Kinds) == 0 {
		return nil
	}
	if !kindAllowed(rt.Kind(arg), spec.Kinds) {
		return newError(fn, ErrInvalidType, "argument %d must be one of %v, got %s", index+1, spec.Kinds, rt.Kind(arg))
	}
	return nil
}

func kindAllowed(k runtime.Kind, allowed []runtime.Kind) bool {
	for _, a := range allowed {
		if a == k {
			return true
		}
	}
	return false
}
