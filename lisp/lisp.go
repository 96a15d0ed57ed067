package lisp

// NewInterpreter returns a fresh top-level Env with its own heap, call
// stack, and no bindings. It is the entry point an embedder or the repl/cmd
// packages use to start an interpreter instance; every nested Env in that
// instance (via NewEnv) shares its heap and call stack.
func NewInterpreter() *Env {
	return NewEnv(nil)
}

// DefinePrimitive binds name, in env's own frame, to a primitive procedure
// wrapping fn. This is the registration surface the primitives package uses
// to install the standard library into a freshly built interpreter.
func (env *Env) DefinePrimitive(name string, fn Native) {
	env.Define(Intern(name), NewPrimitive(env.Heap, name, fn))
}

// Repr renders v using env's heap, a convenience wrapper around the
// package-level Repr function for callers that already have an Env handy.
func (env *Env) Repr(v Value) string {
	return Repr(env.Heap, v)
}

// Load evaluates each of exprs in turn against env, in order, returning the
// value of the last one. It is the shape a file runner or REPL uses once a
// reader has produced a slice of top-level forms; it stops and returns the
// first error encountered.
func Load(env *Env, exprs []Value) (Value, *Error) {
	result := Unspecified
	for _, expr := range exprs {
		v, err := Eval(env, expr)
		if err != nil {
			return Value{}, err
		}
		result = v
	}
	return result, nil
}
