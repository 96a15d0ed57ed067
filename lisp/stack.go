package lisp

import (
	"bytes"
	"fmt"
)

// CallStack is the evaluator's call stack: one CallFrame per Eval
// invocation currently in progress. Tail positions never start a new Eval
// call -- the trampoline in eval.go loops in place instead of recursing --
// so CallStack.Frames stays bounded by non-tail call depth alone, which is
// exactly the property Env.GC relies on to detect when it is unsafe to
// collect.
type CallStack struct {
	Frames []CallFrame
}

// CallFrame is one frame of a CallStack.
type CallFrame struct {
	Name string

	// InProcedure is set once this frame's trampoline loop has tail-called
	// into a compound procedure's body. A frame starts outside any
	// procedure (evaluating a user's top-level form, or a non-tail
	// subexpression of one); the first tail call into a lambda's body
	// marks it, and every further tail call within the same frame leaves
	// it marked, since tail position only ever descends deeper into
	// procedure bodies, never back out of one.
	InProcedure bool
}

// Push adds a new frame for a procedure named name.
func (s *CallStack) Push(name string) {
	s.Frames = append(s.Frames, CallFrame{Name: name})
}

// Pop removes the top frame. It panics if the stack is empty, since Push
// and Pop are always used in matching pairs around a single application.
func (s *CallStack) Pop() {
	if len(s.Frames) == 0 {
		panic("lisp: pop called on an empty call stack")
	}
	s.Frames = s.Frames[:len(s.Frames)-1]
}

// Empty reports whether the stack has no in-progress Eval calls at all.
func (s *CallStack) Empty() bool {
	return s == nil || len(s.Frames) == 0
}

// Depth returns the number of in-progress Eval calls.
func (s *CallStack) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// SetTopName renames the top frame in place, the way a tail call reuses its
// caller's frame identity across a trampolined chain instead of pushing a
// new one.
func (s *CallStack) SetTopName(name string) {
	if len(s.Frames) == 0 {
		return
	}
	s.Frames[len(s.Frames)-1].Name = name
}

// SetTopInProcedure marks the top frame as now executing inside a compound
// procedure's body, via a tail call that Eval's own loop is about to follow.
func (s *CallStack) SetTopInProcedure() {
	if len(s.Frames) == 0 {
		return
	}
	s.Frames[len(s.Frames)-1].InProcedure = true
}

// TopInProcedure reports whether the top frame is currently executing inside
// a compound procedure's body, including by way of a tail call.
func (s *CallStack) TopInProcedure() bool {
	if len(s.Frames) == 0 {
		return false
	}
	return s.Frames[len(s.Frames)-1].InProcedure
}

// Copy returns an independent snapshot of s, for attaching to an Error as
// it unwinds past the point of failure.
func (s *CallStack) Copy() *CallStack {
	if s == nil {
		return nil
	}
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{Frames: frames}
}

// String renders the stack entrypoint-last, as a plain string so that
// callers (in particular the diagnostic package) control where it is
// written.
func (s *CallStack) String() string {
	if s.Empty() {
		return "(empty call stack)"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "call trail (tail calls elided), %d frame(s) -- entrypoint last:\n", len(s.Frames))
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "  height %d: %s\n", i, s.Frames[i].Name)
	}
	return buf.String()
}
