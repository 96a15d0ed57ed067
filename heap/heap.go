// Package heap implements the garbage-collected arena that backs pair cells
// and compound procedures. It is a leaf package: it knows nothing about the
// lisp value model, special forms, or the evaluator built on top of it.
package heap

import "fmt"

// Handle is a stable reference to a heap-allocated cell. The zero Handle
// never refers to a live cell; it is the representation of "no handle".
// Handles are indices, not pointers, so the arena never relocates objects:
// a Handle remains valid until the cell it names is freed by a collection.
type Handle uint32

// Kind tags the payload stored in a RawValue.
type Kind uint8

// Possible Kind values. These mirror lisp.ValueTag exactly; the heap package
// keeps its own copy so that it does not need to import the lisp package
// (which imports heap), which would create an import cycle.
const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindSymbol
	KindNil
	KindPair
	KindProcedure
	KindUnspecified
)

// RawValue is the heap's-eye view of a lisp value: a pair cell's two slots,
// and a compound procedure's body expressions, are sequences of RawValue.
type RawValue struct {
	Kind   Kind
	Num    float64
	Bool   bool
	Str    string
	Sym    uint32
	Handle Handle // meaningful when Kind is KindPair or KindProcedure
}

// EnvMarker lets a captured environment participate in mark-and-sweep
// without the heap package needing to know the environment's concrete type.
// lisp.Env implements EnvMarker.
type EnvMarker interface {
	// MarkRoots is called during the mark phase for every compound
	// procedure's captured environment. It must mark every heap handle
	// reachable from the environment's bindings (and, transitively, from
	// its parent chain) by calling h.MarkHandle on each one.
	MarkRoots(h *Heap)
}

// ProcedureData describes a procedure cell, whether a primitive or a
// compound procedure. Exactly one of Native (for primitives) or Formals/Body
// (for compound procedures) is populated; IsCompound discriminates them.
type ProcedureData struct {
	Name       string
	IsCompound bool

	// Compound procedure fields.
	Formals []uint32 // ordered formal parameter symbol ids
	HasRest bool
	Rest    uint32 // rest-formal symbol id, valid when HasRest
	Body    []RawValue
	Env     EnvMarker

	// Primitive procedure field. Opaque to the heap package; only the lisp
	// package knows how to type-assert it back into a callable function.
	Native any
}

type pairCell struct {
	first, second RawValue
	marked        bool
	occupied      bool
}

type procCell struct {
	data     ProcedureData
	marked   bool
	occupied bool
}

// Heap is a growable arena of pair cells and procedure cells. Allocation
// always succeeds (panicking only if the process is truly out of memory,
// which Go itself would already have reported) and never triggers a
// collection; collection happens only when Collect is called explicitly.
type Heap struct {
	pairs     []pairCell
	procs     []procCell
	freePairs []Handle
	freeProcs []Handle
}

// New returns an empty Heap.
func New() *Heap {
	return &Heap{}
}

// AllocPair allocates a new pair cell holding (first, second) and returns
// its handle.
func (h *Heap) AllocPair(first, second RawValue) Handle {
	if n := len(h.freePairs); n > 0 {
		handle := h.freePairs[n-1]
		h.freePairs = h.freePairs[:n-1]
		idx := pairIndex(handle)
		h.pairs[idx] = pairCell{first: first, second: second, occupied: true}
		return handle
	}
	h.pairs = append(h.pairs, pairCell{first: first, second: second, occupied: true})
	return pairHandle(len(h.pairs) - 1)
}

// AllocProcedure allocates a new procedure cell and returns its handle.
func (h *Heap) AllocProcedure(data ProcedureData) Handle {
	if n := len(h.freeProcs); n > 0 {
		handle := h.freeProcs[n-1]
		h.freeProcs = h.freeProcs[:n-1]
		idx := procIndex(handle)
		h.procs[idx] = procCell{data: data, occupied: true}
		return handle
	}
	h.procs = append(h.procs, procCell{data: data, occupied: true})
	return procHandle(len(h.procs) - 1)
}

// GetPair returns the two slots of the pair cell named by handle. ok is
// false if handle does not name a live pair cell.
func (h *Heap) GetPair(handle Handle) (first, second RawValue, ok bool) {
	idx := pairIndex(handle)
	if idx < 0 || idx >= len(h.pairs) || !h.pairs[idx].occupied {
		return RawValue{}, RawValue{}, false
	}
	c := h.pairs[idx]
	return c.first, c.second, true
}

// SetPairFirst destructively updates the first slot of the pair cell named
// by handle (set-car!).
func (h *Heap) SetPairFirst(handle Handle, v RawValue) error {
	idx := pairIndex(handle)
	if idx < 0 || idx >= len(h.pairs) || !h.pairs[idx].occupied {
		return fmt.Errorf("heap: stale pair handle %d", handle)
	}
	h.pairs[idx].first = v
	return nil
}

// SetPairSecond destructively updates the second slot of the pair cell named
// by handle (set-cdr!).
func (h *Heap) SetPairSecond(handle Handle, v RawValue) error {
	idx := pairIndex(handle)
	if idx < 0 || idx >= len(h.pairs) || !h.pairs[idx].occupied {
		return fmt.Errorf("heap: stale pair handle %d", handle)
	}
	h.pairs[idx].second = v
	return nil
}

// GetProcedure returns the ProcedureData stored in the procedure cell named
// by handle. ok is false if handle does not name a live procedure cell.
func (h *Heap) GetProcedure(handle Handle) (data ProcedureData, ok bool) {
	idx := procIndex(handle)
	if idx < 0 || idx >= len(h.procs) || !h.procs[idx].occupied {
		return ProcedureData{}, false
	}
	return h.procs[idx].data, true
}

// SetProcedureData overwrites the ProcedureData stored in the procedure cell
// named by handle, used to back-patch a compound procedure's name once
// define learns it (define evaluates the lambda before it knows the name
// being bound).
func (h *Heap) SetProcedureData(handle Handle, data ProcedureData) {
	idx := procIndex(handle)
	if idx < 0 || idx >= len(h.procs) || !h.procs[idx].occupied {
		return
	}
	h.procs[idx].data = data
}

// Stats reports the number of occupied slots and the total arena capacity,
// across both pair and procedure cells, for the stats primitive.
func (h *Heap) Stats() (occupied, capacity int) {
	capacity = len(h.pairs) + len(h.procs)
	for i := range h.pairs {
		if h.pairs[i].occupied {
			occupied++
		}
	}
	for i := range h.procs {
		if h.procs[i].occupied {
			occupied++
		}
	}
	return occupied, capacity
}

// handles for pair cells and procedure cells share one numbering space so
// that a Handle alone (together with its RawValue.Kind) unambiguously names
// a cell. Pair handles are odd, procedure handles are even; both are
// 1-based so the zero Handle is never valid.
func pairHandle(idx int) Handle     { return Handle(idx)*2 + 1 }
func procHandle(idx int) Handle     { return Handle(idx)*2 + 2 }
func pairIndex(handle Handle) int {
	if handle == 0 || handle%2 == 0 {
		return -1
	}
	return int((handle - 1) / 2)
}
func procIndex(handle Handle) int {
	if handle == 0 || handle%2 != 0 {
		return -1
	}
	return int((handle - 2) / 2)
}
