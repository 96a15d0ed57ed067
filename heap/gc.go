package heap

// Collect performs a mark-and-sweep collection. roots are the RawValues
// directly reachable from outside the heap (the top-level environment's
// bindings, the current evaluator environment, and any intermediate values
// live during the collection request); rootEnv additionally marks an active
// environment chain when non-nil. Every unmarked occupied cell is freed and
// its handle is returned to the appropriate free list for reuse.
//
// Collect does not itself decide whether collection is safe to run (i.e.
// whether the evaluator's call stack is empty) -- that is the caller's
// responsibility, enforced by lisp.Env.GC, because the heap package has no
// notion of an evaluator call stack.
func (h *Heap) Collect(roots []RawValue, rootEnv EnvMarker) {
	h.clearMarks()

	for i := range roots {
		h.mark(roots[i])
	}
	if rootEnv != nil {
		rootEnv.MarkRoots(h)
	}

	h.sweep()
}

func (h *Heap) clearMarks() {
	for i := range h.pairs {
		h.pairs[i].marked = false
	}
	for i := range h.procs {
		h.procs[i].marked = false
	}
}

// mark traces the transitive closure of v, stopping at any cell already
// marked this cycle so that cyclic structure (e.g. a pair that is its own
// cdr) terminates instead of recursing forever.
func (h *Heap) mark(v RawValue) {
	switch v.Kind {
	case KindPair:
		h.markPair(v.Handle)
	case KindProcedure:
		h.markProcedure(v.Handle)
	}
}

// MarkHandle marks the cell named by handle, inferring whether it is a pair
// or procedure cell from its handle numbering. It is exported for use by
// EnvMarker implementations (lisp.Env) which hold raw handles in their
// bindings but do not know the heap's internal cell layout.
func (h *Heap) MarkHandle(handle Handle) {
	if idx := pairIndex(handle); idx >= 0 && idx < len(h.pairs) {
		h.markPair(handle)
		return
	}
	if idx := procIndex(handle); idx >= 0 && idx < len(h.procs) {
		h.markProcedure(handle)
	}
}

func (h *Heap) markPair(handle Handle) {
	idx := pairIndex(handle)
	if idx < 0 || idx >= len(h.pairs) {
		return
	}
	c := &h.pairs[idx]
	if !c.occupied || c.marked {
		return
	}
	c.marked = true
	h.mark(c.first)
	h.mark(c.second)
}

func (h *Heap) markProcedure(handle Handle) {
	idx := procIndex(handle)
	if idx < 0 || idx >= len(h.procs) {
		return
	}
	c := &h.procs[idx]
	if !c.occupied || c.marked {
		return
	}
	c.marked = true
	if !c.data.IsCompound {
		return
	}
	for _, expr := range c.data.Body {
		h.mark(expr)
	}
	if c.data.Env != nil {
		c.data.Env.MarkRoots(h)
	}
}

func (h *Heap) sweep() {
	for idx := range h.pairs {
		c := &h.pairs[idx]
		if c.occupied && !c.marked {
			*c = pairCell{}
			h.freePairs = append(h.freePairs, pairHandle(idx))
		}
	}
	for idx := range h.procs {
		c := &h.procs[idx]
		if c.occupied && !c.marked {
			*c = procCell{}
			h.freeProcs = append(h.freeProcs, procHandle(idx))
		}
	}
}
