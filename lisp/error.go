package lisp

import (
	"fmt"

	"github.com/toolness/ascheme/parser/token"
)

// ErrorKind discriminates the error conditions the core can surface.
type ErrorKind uint8

// Possible ErrorKind values.
const (
	UnboundVariable ErrorKind = iota
	TypeError
	ArityMismatch
	SyntaxError
	ReaderError
	AssertionFailed
	CannotCollectHere

	// OutOfMemory classifies a failed allocation. No constructor produces
	// it: the heap's own arena grows via append, and a Go process that
	// actually exhausts memory there fails with an unrecoverable runtime
	// fatal error rather than a value this package could catch and wrap,
	// so this kind exists for completeness of the classification rather
	// than as a reachable code path.
	OutOfMemory
)

var errorKindStrings = [...]string{
	UnboundVariable:   "unbound variable",
	TypeError:         "type error",
	ArityMismatch:     "arity mismatch",
	SyntaxError:       "syntax error",
	ReaderError:       "reader error",
	AssertionFailed:   "assertion failed",
	CannotCollectHere: "cannot collect here",
	OutOfMemory:       "out of memory",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return "error"
	}
	return errorKindStrings[k]
}

// Error is the core's single error type. Every error kind is a value of
// this type rather than a distinct Go type: the discriminant lives in a
// field (Kind), not in the type system, which keeps callers from needing a
// type switch over several near-identical error structs.
type Error struct {
	Kind ErrorKind
	Msg  string

	// Pos is set when the error originated in parsed source text.
	Pos *token.Location

	// Expr, when non-nil, is the offending runtime expression.
	Expr  *Value
	Stack *CallStack

	// Incomplete marks a ReaderError caused by running out of input in the
	// middle of a datum (an unclosed list, a dangling quote), rather than a
	// genuine syntax error. A REPL checks this to decide whether to prompt
	// for another line instead of reporting a failure.
	Incomplete bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newError(kind ErrorKind, format string, v ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, v...)}
}

// NewReaderError builds a ReaderError-kind *Error carrying source position.
// It is exported so the parser package, which cannot import the rest of
// lisp's unexported error helpers without creating an import cycle, has one
// narrow constructor for the errors it raises.
func NewReaderError(pos *token.Location, format string, v ...any) *Error {
	e := newError(ReaderError, format, v...)
	e.Pos = pos
	return e
}

// NewIncompleteReaderError builds a ReaderError-kind *Error marked
// Incomplete, for the parser package to raise when it runs out of input
// mid-datum rather than encountering a genuine syntax error.
func NewIncompleteReaderError(pos *token.Location, format string, v ...any) *Error {
	e := NewReaderError(pos, format, v...)
	e.Incomplete = true
	return e
}

// IsIncomplete reports whether err is a ReaderError caused by the input
// ending mid-datum.
func IsIncomplete(err *Error) bool {
	return err != nil && err.Incomplete
}

func errUnbound(name string) *Error {
	return newError(UnboundVariable, "unbound variable: %s", name)
}

func errType(expected, got string) *Error {
	return newError(TypeError, "expected %s, got %s", expected, got)
}

func errArity(expected string, got int) *Error {
	return newError(ArityMismatch, "expected %s argument(s), got %d", expected, got)
}

func errSyntax(format string, v ...any) *Error {
	return newError(SyntaxError, format, v...)
}

// NewAssertionError builds an AssertionFailed-kind *Error. It is exported so
// the primitives package can report failures from its assert and test-*
// procedures without reaching into lisp's unexported error constructors.
func NewAssertionError(msg string) *Error {
	return newError(AssertionFailed, "%s", msg)
}

// NewTypeError builds a TypeError-kind *Error, exported for the same reason
// as NewAssertionError.
func NewTypeError(format string, v ...any) *Error {
	return newError(TypeError, format, v...)
}

// NewArityError builds an ArityMismatch-kind *Error, exported for the same
// reason as NewAssertionError.
func NewArityError(expected string, got int) *Error {
	return errArity(expected, got)
}

func errCannotCollectHere() *Error {
	return newError(CannotCollectHere, "gc invoked while the evaluator call stack is non-empty")
}

// WithExpr attaches the offending expression to e and returns e, for
// callers building up context as an error unwinds.
func (e *Error) WithExpr(v Value) *Error {
	e.Expr = &v
	return e
}

// WithStack attaches a snapshot of the call stack active when e was raised.
func (e *Error) WithStack(s *CallStack) *Error {
	e.Stack = s
	return e
}
