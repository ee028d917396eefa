package functions

import "fmt"

// ErrorKind classifies a function-call failure the way spec.md's error
// taxonomy does: unknown function name, wrong argument count, an argument
// of the wrong kind, or an argument of the right kind but an invalid
// value (e.g. sort on an array of mixed types).
type ErrorKind string

const (
	ErrUnknownFunction ErrorKind = "unknown-function"
	ErrInvalidArity    ErrorKind = "invalid-arity"
	ErrInvalidType     ErrorKind = "invalid-type"
	ErrInvalidValue    ErrorKind = "invalid-value"
)

// Error reports a function-call failure, naming the offending function so
// a caller can surface "argument 2 to sort_by" style messages.
type Error struct {
	Function string
	Kind     ErrorKind
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Function, e.Kind, e.Message)
}

func newError(function string, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Function: function, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
