// Package diagnostic formats a *lisp.Error for a human reading a terminal:
// its kind and message, the source location when the error came from the
// reader, and the call trail captured at the point of failure.
package diagnostic

import (
	"bytes"
	"fmt"
	"io"

	"github.com/toolness/ascheme/lisp"
)

// Format renders err the way WriteTo does, returning the result as a string.
func Format(err *lisp.Error) string {
	var buf bytes.Buffer
	WriteTo(&buf, err)
	return buf.String()
}

// WriteTo writes err's message, source position (if any), and call trail
// (if any) to w. The trail never lists elided tail frames: a chain of tail
// calls of any length runs in one CallFrame, per the evaluator's own
// trampoline (lisp/eval.go), so a long tail-recursive loop that fails still
// prints a short trail.
func WriteTo(w io.Writer, err *lisp.Error) (int, error) {
	if err == nil {
		return fmt.Fprintln(w, "(no error)")
	}
	n, werr := fmt.Fprintf(w, "%s: %s\n", err.Kind, err.Msg)
	if werr != nil {
		return n, werr
	}
	if err.Pos != nil {
		m, e := fmt.Fprintf(w, "  at %s\n", err.Pos)
		n += m
		if e != nil {
			return n, e
		}
	}
	if err.Expr != nil {
		m, e := fmt.Fprintf(w, "  in: %s\n", exprSummary(*err.Expr))
		n += m
		if e != nil {
			return n, e
		}
	}
	if err.Stack != nil {
		m, e := fmt.Fprint(w, err.Stack.String())
		n += m
		if e != nil {
			return n, e
		}
	}
	return n, nil
}

// exprSummary describes v without touching the heap: an Error only carries
// a bare Value, never the heap it was allocated on, so a pair or procedure
// can only be named by its tag rather than fully printed.
func exprSummary(v lisp.Value) string {
	switch v.Tag {
	case lisp.TagSymbol:
		return lisp.SymbolName(v.Sym)
	case lisp.TagNumber, lisp.TagBool, lisp.TagString, lisp.TagNil, lisp.TagUnspecified:
		return lisp.Repr(nil, v)
	default:
		return "#<" + v.Tag.String() + ">"
	}
}
