// Package jmespath compiles and evaluates JMESPath query expressions
// against JSON-like data. A query is compiled once into a
// *CompiledExpression and can then be evaluated repeatedly, concurrently,
// against different input values.
package jmespath

import (
	"github.com/ritamzico/jmespath/internal/eval"
	"github.com/ritamzico/jmespath/internal/functions"
	"github.com/ritamzico/jmespath/internal/runtime"
	"github.com/ritamzico/jmespath/internal/syntax"
)

// Re-exported so callers can name these types without importing an
// internal package directly.
type (
	Runtime  = runtime.Runtime
	Kind     = runtime.Kind
	Registry = functions.Registry
)

const (
	KindNull   = runtime.KindNull
	KindBool   = runtime.KindBool
	KindNumber = runtime.KindNumber
	KindString = runtime.KindString
	KindArray  = runtime.KindArray
	KindObject = runtime.KindObject
	KindExpRef = runtime.KindExpRef
)

var (
	defaultRuntime  = runtime.New()
	defaultRegistry = functions.NewRegistry()
)

// DefaultRuntime returns the library's built-in value model: null as Go
// nil, numbers as float64, objects as an insertion-ordered map.
func DefaultRuntime() Runtime { return defaultRuntime }

// NewRegistry returns a function registry pre-populated with the
// standard builtin library, ready to Register additional functions onto.
func NewRegistry() *Registry { return functions.NewRegistry() }

// SyntaxError is returned by Compile and Search for malformed expression text.
type SyntaxError = syntax.SyntaxError

// CompiledExpression is a parsed JMESPath query. It holds no reference to
// any particular input value, so the same CompiledExpression may be
// evaluated concurrently by multiple goroutines against different data,
// as long as each call supplies its own Runtime and Registry (the
// defaults are themselves stateless and safe to share).
type CompiledExpression struct {
	source string
	ast    *syntax.Node
}

// Compile parses expression into a CompiledExpression.
func Compile(expression string) (*CompiledExpression, error) {
	node, err := syntax.NewParser().Parse(expression)
	if err != nil {
		return nil, err
	}
	return &CompiledExpression{source: expression, ast: node}, nil
}

// MustCompile is like Compile but panics on error, for use with
// expressions known at compile time (e.g. package-level vars).
func MustCompile(expression string) *CompiledExpression {
	c, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the original expression text.
func (c *CompiledExpression) String() string { return c.source }

// Evaluate runs the compiled expression against value, which must already
// be expressed in rt's value representation (see ParseJSON). A nil rt
// uses DefaultRuntime; a nil reg uses the standard builtin function
// library.
func (c *CompiledExpression) Evaluate(rt Runtime, reg *Registry, value any) (any, error) {
	if rt == nil {
		rt = defaultRuntime
	}
	if reg == nil {
		reg = defaultRegistry
	}
	return eval.New(rt, reg).Evaluate(c.ast, value)
}

// ParseJSON decodes a JSON document into the default Runtime's value
// representation, preserving object key order, ready to hand to
// CompiledExpression.Evaluate.
func ParseJSON(data []byte) (any, error) {
	native, err := runtime.ParseOrderedJSON(data)
	if err != nil {
		return nil, err
	}
	return runtime.FromNative(defaultRuntime, native), nil
}

// Search compiles expression and evaluates it against data in one step.
// data is plain Go data as produced by encoding/json.Unmarshal into
// interface{} (map[string]interface{}, []interface{}, float64, string,
// bool, nil); the result is converted back to the same plain
// representation, so Search is a drop-in replacement for a direct
// encoding/json round trip guarded by a query.
func Search(expression string, data any) (any, error) {
	c, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	value := runtime.FromNative(defaultRuntime, data)
	result, err := c.Evaluate(defaultRuntime, defaultRegistry, value)
	if err != nil {
		return nil, err
	}
	return runtime.ToNative(defaultRuntime, result), nil
}
