// Package lisp implements the value model, the environment, and the
// trampolining evaluator described by the core: the tightly coupled trio
// that shares one heap and one symbol table per interpreter instance.
package lisp

import (
	"github.com/toolness/ascheme/heap"
)

// ValueTag is the tag of the runtime value union.
type ValueTag uint8

// Possible ValueTag values. BoundProcedure is internal only and nothing in
// this module constructs it: the evaluator's trampoline (see eval.go)
// carries a pending tail call in its own step struct instead.
const (
	TagNumber ValueTag = iota
	TagBool
	TagString
	TagSymbol
	TagNil
	TagPair
	TagProcedure
	TagUnspecified
	TagBoundProcedure
)

var tagStrings = [...]string{
	TagNumber:         "number",
	TagBool:           "boolean",
	TagString:         "string",
	TagSymbol:         "symbol",
	TagNil:            "()",
	TagPair:           "pair",
	TagProcedure:      "procedure",
	TagUnspecified:    "unspecified",
	TagBoundProcedure: "<bound-procedure>",
}

func (t ValueTag) String() string {
	if int(t) >= len(tagStrings) {
		return "invalid"
	}
	return tagStrings[t]
}

// Value is a tagged lisp runtime value. Values are small and are passed by
// copy throughout the evaluator; Pair and Procedure values carry a heap
// Handle rather than a pointer, so copying a Value never copies the cell it
// names.
type Value struct {
	Tag ValueTag

	Num    float64
	Bool   bool
	Str    string // immutable; Go's own string semantics make identity unobservable
	Sym    SymbolID
	Handle heap.Handle // valid when Tag is TagPair or TagProcedure

	// BoundProcedure fields: a pending tail call, packaging the already-
	// evaluated operator (by handle, since it is always a TagProcedure
	// value) and operands, plus the environment the call should run in.
	BoundArgs []Value
	BoundEnv  *Env
}

// Number returns the Value for the IEEE-754 double x.
func Number(x float64) Value { return Value{Tag: TagNumber, Num: x} }

// Bool returns the Value for the boolean b.
func Bool(b bool) Value { return Value{Tag: TagBool, Bool: b} }

// String returns the Value for the immutable text s.
func String(s string) Value { return Value{Tag: TagString, Str: s} }

// Sym returns the Value for the interned symbol sym.
func Sym(sym SymbolID) Value { return Value{Tag: TagSymbol, Sym: sym} }

// Nil is the empty list.
var Nil = Value{Tag: TagNil}

// Unspecified is the distinguished "no useful value" returned by
// side-effecting forms.
var Unspecified = Value{Tag: TagUnspecified}

// IsTruthy reports whether v counts as true in a conditional. Per R5RS only
// #f is false; every other value, including Nil, 0, and "", is true.
func (v Value) IsTruthy() bool {
	return !(v.Tag == TagBool && !v.Bool)
}

// IsNil reports whether v is the empty list.
func (v Value) IsNil() bool { return v.Tag == TagNil }

// IsPair reports whether v references a pair cell.
func (v Value) IsPair() bool { return v.Tag == TagPair }

// Eq implements eq?: identity for symbols, pairs, procedures, and strings
// (compared by content, since Go strings have no separate identity),
// numeric equality for numbers, and always-true for Nil vs Nil.
func Eq(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagNumber:
		return a.Num == b.Num
	case TagBool:
		return a.Bool == b.Bool
	case TagString:
		return a.Str == b.Str
	case TagSymbol:
		return a.Sym == b.Sym
	case TagNil:
		return true
	case TagPair, TagProcedure:
		return a.Handle == b.Handle
	case TagUnspecified:
		return true
	default:
		return false
	}
}

