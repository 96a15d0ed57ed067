package lisp

import (
	"fmt"

	"github.com/toolness/ascheme/heap"
)

// Native is the Go function signature of a primitive procedure. The
// registration surface (Env.DefinePrimitive) is how a standard library
// living outside this package installs Natives into a top-level Env.
type Native func(env *Env, args []Value) (Value, *Error)

// NewPrimitive allocates a procedure cell wrapping fn and returns a Value
// referencing it.
func NewPrimitive(h *heap.Heap, name string, fn Native) Value {
	handle := h.AllocProcedure(heap.ProcedureData{
		Name:   name,
		Native: fn,
	})
	return Value{Tag: TagProcedure, Handle: handle}
}

// NewCompound allocates a compound procedure cell -- formals, an optional
// rest-formal, a non-empty body, and the environment captured at the point
// lambda was evaluated -- and returns a Value referencing it.
func NewCompound(h *heap.Heap, formals []SymbolID, rest SymbolID, hasRest bool, body []Value, env *Env) Value {
	data := heap.ProcedureData{
		IsCompound: true,
		HasRest:    hasRest,
		Env:        env,
	}
	data.Formals = make([]uint32, len(formals))
	for i, s := range formals {
		data.Formals[i] = uint32(s)
	}
	data.Rest = uint32(rest)
	data.Body = make([]heap.RawValue, len(body))
	for i, v := range body {
		data.Body[i] = toRaw(v)
	}
	handle := h.AllocProcedure(data)
	return Value{Tag: TagProcedure, Handle: handle}
}

// procedureInfo is the lisp-level view of a procedure cell, with native
// code and heap-encoded expressions converted back into Values.
type procedureInfo struct {
	Name       string
	IsCompound bool
	Formals    []SymbolID
	HasRest    bool
	Rest       SymbolID
	Body       []Value
	Env        *Env
	Native     Native
}

// arity returns a human-readable description of the procedure's expected
// argument count, in the same "at least n" / "exactly n" form that
// Env.Extend puts in ArityMismatch messages.
func (p procedureInfo) arity() string {
	if p.HasRest {
		return fmt.Sprintf("at least %d", len(p.Formals))
	}
	return fmt.Sprintf("exactly %d", len(p.Formals))
}

// derefProcedure loads the procedure cell named by v.
func derefProcedure(h *heap.Heap, v Value) (procedureInfo, bool) {
	if v.Tag != TagProcedure {
		return procedureInfo{}, false
	}
	data, ok := h.GetProcedure(v.Handle)
	if !ok {
		return procedureInfo{}, false
	}
	info := procedureInfo{
		Name:       data.Name,
		IsCompound: data.IsCompound,
		HasRest:    data.HasRest,
		Rest:       SymbolID(data.Rest),
	}
	if data.IsCompound {
		info.Formals = make([]SymbolID, len(data.Formals))
		for i, s := range data.Formals {
			info.Formals[i] = SymbolID(s)
		}
		info.Body = make([]Value, len(data.Body))
		for i, r := range data.Body {
			info.Body[i] = fromRaw(r)
		}
		if env, ok := data.Env.(*Env); ok {
			info.Env = env
		}
	} else if fn, ok := data.Native.(Native); ok {
		info.Native = fn
	}
	return info, true
}
