package lisp

import "github.com/toolness/ascheme/heap"

// Cons allocates a new pair cell holding (car, cdr) on h and returns a Value
// referencing it.
func Cons(h *heap.Heap, car, cdr Value) Value {
	handle := h.AllocPair(toRaw(car), toRaw(cdr))
	return Value{Tag: TagPair, Handle: handle}
}

// DerefPair returns the car and cdr of the pair named by v's handle. ok is
// false if v is not a pair or names a stale (freed) handle.
func DerefPair(h *heap.Heap, v Value) (car, cdr Value, ok bool) {
	if v.Tag != TagPair {
		return Value{}, Value{}, false
	}
	first, second, ok := h.GetPair(v.Handle)
	if !ok {
		return Value{}, Value{}, false
	}
	return fromRaw(first), fromRaw(second), true
}

// SetCar destructively replaces the car of the pair named by v.
func SetCar(h *heap.Heap, v, newCar Value) error {
	return h.SetPairFirst(v.Handle, toRaw(newCar))
}

// SetCdr destructively replaces the cdr of the pair named by v.
func SetCdr(h *heap.Heap, v, newCdr Value) error {
	return h.SetPairSecond(v.Handle, toRaw(newCdr))
}

// List builds a proper list out of vs.
func List(h *heap.Heap, vs ...Value) Value {
	result := Nil
	for i := len(vs) - 1; i >= 0; i-- {
		result = Cons(h, vs[i], result)
	}
	return result
}

// ListToSlice walks a proper or dotted list v and returns its elements. If
// the list is dotted, tail is the final non-Nil cdr; otherwise tail is Nil.
func ListToSlice(h *heap.Heap, v Value) (elems []Value, tail Value) {
	for v.IsPair() {
		car, cdr, ok := DerefPair(h, v)
		if !ok {
			break
		}
		elems = append(elems, car)
		v = cdr
	}
	return elems, v
}

// toRaw converts a lisp Value to the heap package's generic RawValue
// encoding. The two types have identical shapes by construction, so that
// heap need not import lisp; this is the only place that needs to know
// that.
func toRaw(v Value) heap.RawValue {
	return heap.RawValue{
		Kind:   heap.Kind(v.Tag),
		Num:    v.Num,
		Bool:   v.Bool,
		Str:    v.Str,
		Sym:    uint32(v.Sym),
		Handle: v.Handle,
	}
}

func fromRaw(r heap.RawValue) Value {
	return Value{
		Tag:    ValueTag(r.Kind),
		Num:    r.Num,
		Bool:   r.Bool,
		Str:    r.Str,
		Sym:    SymbolID(r.Sym),
		Handle: r.Handle,
	}
}
