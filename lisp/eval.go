package lisp

import "github.com/toolness/ascheme/heap"

// Symbols for the special forms, interned once at package init so dispatch
// compares SymbolID values instead of re-interning a string on every call.
var (
	symQuote   = Intern("quote")
	symIf      = Intern("if")
	symDefine  = Intern("define")
	symSetBang = Intern("set!")
	symLambda  = Intern("lambda")
	symBegin   = Intern("begin")
	symCond    = Intern("cond")
	symAnd     = Intern("and")
	symOr      = Intern("or")
	symElse    = Intern("else")
)

// step is the result of evaluating one special form or application: either a
// final value (done), or the next (env, expr) pair for Eval's loop to
// continue with in tail position.
type step struct {
	done   bool
	result Value
	env    *Env
	expr   Value
}

// attachStack records the call stack active at the moment err first
// unwound out of an Eval frame, so a reporter can later show the trail
// that led to the failure. Only the innermost attachment sticks: err may
// pass through several enclosing Eval calls on its way to the top, and
// the deepest one is the most useful trail.
func attachStack(err *Error, env *Env) *Error {
	if err.Stack != nil {
		return err
	}
	return err.WithStack(env.Stack.Copy())
}

func finalStep(v Value) step { return step{done: true, result: v} }
func tailStep(env *Env, expr Value) step { return step{env: env, expr: expr} }

// Eval evaluates expr in env and returns its value. Eval is the trampoline:
// every tail position (the branch of if, the last body expression of begin
// or of a compound procedure, the chosen clause of cond, the last operand of
// and/or) is resolved by looping in place rather than recursing, so a chain
// of tail calls of any length runs in one Go stack frame. Only non-tail
// subexpressions (operator and operand positions, a test expression, every
// body expression but the last) recurse into Eval, and each such recursive
// call pushes exactly one CallStack frame for its duration -- the mechanism
// Env.GC's CannotCollectHere check relies on, together with CallFrame's
// InProcedure flag for the case where a tail call enters a procedure body
// without pushing a new frame at all.
func Eval(env *Env, expr Value) (Value, *Error) {
	env.Stack.Push(frameLabel(env.Heap, expr))
	defer env.Stack.Pop()

	for {
		switch expr.Tag {
		case TagSymbol:
			v, err := env.Lookup(expr.Sym)
			if err != nil {
				return Value{}, attachStack(err, env)
			}
			return v, nil
		case TagPair:
			s, err := evalPair(env, expr)
			if err != nil {
				return Value{}, attachStack(err, env)
			}
			if s.done {
				return s.result, nil
			}
			env, expr = s.env, s.expr
			env.Stack.SetTopName(frameLabel(env.Heap, expr))
		default:
			// Numbers, booleans, strings, (), procedures and
			// #<unspecified> are all self-evaluating.
			return expr, nil
		}
	}
}

// frameLabel produces a short, best-effort name for a CallStack frame: the
// operator or keyword symbol of a combination, or a generic label for
// anything else.
func frameLabel(h *heap.Heap, expr Value) string {
	if expr.Tag != TagPair {
		return "expr"
	}
	if car, _, ok := DerefPair(h, expr); ok && car.Tag == TagSymbol {
		return SymbolName(car.Sym)
	}
	return "(...)"
}

func evalPair(env *Env, expr Value) (step, *Error) {
	h := env.Heap
	car, _, ok := DerefPair(h, expr)
	if !ok {
		return step{}, errType("pair", "stale pair").WithExpr(expr)
	}
	if car.Tag == TagSymbol {
		switch car.Sym {
		case symQuote:
			return evalQuote(h, expr)
		case symIf:
			return evalIf(env, expr)
		case symDefine:
			return evalDefine(env, expr)
		case symSetBang:
			return evalSet(env, expr)
		case symLambda:
			return evalLambda(env, expr)
		case symBegin:
			elems, tail, err := listBody(h, expr)
			if err != nil {
				return step{}, err
			}
			_ = tail
			return evalBody(env, elems)
		case symCond:
			return evalCond(env, expr)
		case symAnd:
			elems, _, err := listBody(h, expr)
			if err != nil {
				return step{}, err
			}
			return evalAnd(env, elems)
		case symOr:
			elems, _, err := listBody(h, expr)
			if err != nil {
				return step{}, err
			}
			return evalOr(env, elems)
		}
	}
	return evalApplication(env, expr)
}

// listBody returns the operands of a combination (everything after its
// operator or keyword). It fails with SyntaxError if the combination is not
// a proper list.
func listBody(h *heap.Heap, expr Value) (elems []Value, ok bool, err *Error) {
	all, tail := ListToSlice(h, expr)
	if !tail.IsNil() {
		return nil, false, errSyntax("combination must be a proper list")
	}
	return all[1:], true, nil
}

func evalQuote(h *heap.Heap, expr Value) (step, *Error) {
	elems, _, err := listBody(h, expr)
	if err != nil {
		return step{}, err
	}
	if len(elems) != 1 {
		return step{}, errArity("exactly 1", len(elems))
	}
	return finalStep(elems[0]), nil
}

func evalIf(env *Env, expr Value) (step, *Error) {
	elems, _, err := listBody(env.Heap, expr)
	if err != nil {
		return step{}, err
	}
	if len(elems) != 2 && len(elems) != 3 {
		return step{}, errArity("2 or 3", len(elems))
	}
	test, testErr := Eval(env, elems[0])
	if testErr != nil {
		return step{}, testErr
	}
	if test.IsTruthy() {
		return tailStep(env, elems[1]), nil
	}
	if len(elems) == 3 {
		return tailStep(env, elems[2]), nil
	}
	return finalStep(Unspecified), nil
}

// evalDefine implements both shapes of define: (define name val) and the
// procedure-definition sugar (define (name . formals) body...), which
// desugars to binding name to a lambda built from formals and body.
func evalDefine(env *Env, expr Value) (step, *Error) {
	h := env.Heap
	elems, _, err := listBody(h, expr)
	if err != nil {
		return step{}, err
	}
	if len(elems) == 0 {
		return step{}, errSyntax("define requires a target")
	}
	switch elems[0].Tag {
	case TagSymbol:
		if len(elems) != 2 {
			return step{}, errArity("exactly 2", len(elems))
		}
		v, err := Eval(env, elems[1])
		if err != nil {
			return step{}, err
		}
		env.Define(elems[0].Sym, v)
		return finalStep(Unspecified), nil
	case TagPair:
		head, rest, ok := DerefPair(h, elems[0])
		if !ok || head.Tag != TagSymbol {
			return step{}, errSyntax("define's procedure target must name a symbol")
		}
		if len(elems) < 2 {
			return step{}, errSyntax("define's procedure body must not be empty")
		}
		formals, restSym, hasRest, ferr := parseFormals(h, rest)
		if ferr != nil {
			return step{}, ferr
		}
		proc := NewCompound(h, formals, restSym, hasRest, elems[1:], env)
		setProcedureName(h, proc, SymbolName(head.Sym))
		env.Define(head.Sym, proc)
		return finalStep(Unspecified), nil
	default:
		return step{}, errType("symbol or pair", elems[0].Tag.String()).WithExpr(elems[0])
	}
}

func evalSet(env *Env, expr Value) (step, *Error) {
	elems, _, err := listBody(env.Heap, expr)
	if err != nil {
		return step{}, err
	}
	if len(elems) != 2 || elems[0].Tag != TagSymbol {
		return step{}, errSyntax("set! requires (set! symbol expr)")
	}
	v, verr := Eval(env, elems[1])
	if verr != nil {
		return step{}, verr
	}
	if serr := env.Set(elems[0].Sym, v); serr != nil {
		return step{}, serr
	}
	return finalStep(Unspecified), nil
}

func evalLambda(env *Env, expr Value) (step, *Error) {
	h := env.Heap
	elems, _, err := listBody(h, expr)
	if err != nil {
		return step{}, err
	}
	if len(elems) < 2 {
		return step{}, errSyntax("lambda requires a formals list and a non-empty body")
	}
	formals, restSym, hasRest, ferr := parseFormals(h, elems[0])
	if ferr != nil {
		return step{}, ferr
	}
	proc := NewCompound(h, formals, restSym, hasRest, elems[1:], env)
	return finalStep(proc), nil
}

// parseFormals parses a lambda or define formals list, which may be a
// proper list (sym...), a single symbol (all arguments collected into one
// rest list), or a dotted list (sym... . rest).
func parseFormals(h *heap.Heap, formalsExpr Value) (formals []SymbolID, rest SymbolID, hasRest bool, err *Error) {
	if formalsExpr.Tag == TagSymbol {
		return nil, formalsExpr.Sym, true, nil
	}
	elems, tail := ListToSlice(h, formalsExpr)
	for _, e := range elems {
		if e.Tag != TagSymbol {
			return nil, 0, false, errSyntax("formal parameters must be symbols")
		}
		formals = append(formals, e.Sym)
	}
	switch {
	case tail.IsNil():
		return formals, 0, false, nil
	case tail.Tag == TagSymbol:
		return formals, tail.Sym, true, nil
	default:
		return nil, 0, false, errSyntax("malformed formals list")
	}
}

// evalBody evaluates every expression but the last for effect, then hands
// the last expression back as a tail position. An empty body (only possible
// for begin, since lambda and define both require a non-empty body) yields
// #<unspecified>.
func evalBody(env *Env, elems []Value) (step, *Error) {
	if len(elems) == 0 {
		return finalStep(Unspecified), nil
	}
	for _, e := range elems[:len(elems)-1] {
		if _, err := Eval(env, e); err != nil {
			return step{}, err
		}
	}
	return tailStep(env, elems[len(elems)-1]), nil
}

// evalCond evaluates a cond form: each clause is (test expr...) or
// (else expr...); the first clause whose test is truthy (else always is)
// has its body evaluated with the body's last expression in tail position.
// A clause with no body expressions yields the test's own value, per R5RS.
func evalCond(env *Env, expr Value) (step, *Error) {
	h := env.Heap
	clauses, _, err := listBody(h, expr)
	if err != nil {
		return step{}, err
	}
	for _, clause := range clauses {
		parts, tail := ListToSlice(h, clause)
		if !tail.IsNil() || len(parts) == 0 {
			return step{}, errSyntax("malformed cond clause")
		}
		isElse := parts[0].Tag == TagSymbol && parts[0].Sym == symElse
		var test Value
		if isElse {
			test = Bool(true)
		} else {
			v, terr := Eval(env, parts[0])
			if terr != nil {
				return step{}, terr
			}
			test = v
		}
		if !test.IsTruthy() {
			continue
		}
		if len(parts) == 1 {
			return finalStep(test), nil
		}
		return evalBody(env, parts[1:])
	}
	return finalStep(Unspecified), nil
}

// evalAnd evaluates operands left to right; any falsy value short-circuits
// with that value, and the last operand is evaluated in tail position. No
// operands yields #t.
func evalAnd(env *Env, elems []Value) (step, *Error) {
	if len(elems) == 0 {
		return finalStep(Bool(true)), nil
	}
	for _, e := range elems[:len(elems)-1] {
		v, err := Eval(env, e)
		if err != nil {
			return step{}, err
		}
		if !v.IsTruthy() {
			return finalStep(v), nil
		}
	}
	return tailStep(env, elems[len(elems)-1]), nil
}

// evalOr evaluates operands left to right; any truthy value short-circuits
// with that value, and the last operand is evaluated in tail position. No
// operands yields #f.
func evalOr(env *Env, elems []Value) (step, *Error) {
	if len(elems) == 0 {
		return finalStep(Bool(false)), nil
	}
	for _, e := range elems[:len(elems)-1] {
		v, err := Eval(env, e)
		if err != nil {
			return step{}, err
		}
		if v.IsTruthy() {
			return finalStep(v), nil
		}
	}
	return tailStep(env, elems[len(elems)-1]), nil
}

// evalApplication evaluates a procedure application: operator and operands
// are evaluated left to right (each a non-tail recursive Eval call), and the
// call itself is resolved in tail position -- for a compound procedure, by
// handing the extended environment and body back to Eval's loop; for a
// primitive, by calling it directly.
func evalApplication(env *Env, expr Value) (step, *Error) {
	h := env.Heap
	elems, tail := ListToSlice(h, expr)
	if !tail.IsNil() {
		return step{}, errSyntax("combination must be a proper list")
	}
	if len(elems) == 0 {
		return step{}, errSyntax("cannot apply the empty combination ()")
	}
	operator, err := Eval(env, elems[0])
	if err != nil {
		return step{}, err
	}
	args := make([]Value, len(elems)-1)
	for i, operand := range elems[1:] {
		v, aerr := Eval(env, operand)
		if aerr != nil {
			return step{}, aerr
		}
		args[i] = v
	}
	return applyStep(env, operator, args)
}

// applyStep resolves the application of operator to args, the point where a
// compound procedure's call becomes a loop continuation (a true tail call)
// rather than a nested Go call.
func applyStep(env *Env, operator Value, args []Value) (step, *Error) {
	h := env.Heap
	info, ok := derefProcedure(h, operator)
	if !ok {
		return step{}, errType("procedure", operator.Tag.String()).WithExpr(operator)
	}
	if info.IsCompound {
		childEnv, extErr := info.Env.Extend(info.Formals, info.Rest, info.HasRest, args)
		if extErr != nil {
			return step{}, extErr
		}
		env.Stack.SetTopInProcedure()
		return evalBody(childEnv, info.Body)
	}
	result, nerr := info.Native(env, args)
	if nerr != nil {
		return step{}, nerr
	}
	return finalStep(result), nil
}

// Apply calls operator with args and runs it to completion, including
// resolving any tail calls the compound procedure's body makes along the
// way. It is the entry point used by primitives (apply, and any
// higher-order primitive) that must invoke an arbitrary procedure value
// rather than a syntactic combination.
func Apply(env *Env, operator Value, args []Value) (Value, *Error) {
	env.Stack.Push("apply")
	defer env.Stack.Pop()
	s, err := applyStep(env, operator, args)
	if err != nil {
		return Value{}, err
	}
	if s.done {
		return s.result, nil
	}
	return Eval(s.env, s.expr)
}

func setProcedureName(h *heap.Heap, proc Value, name string) {
	data, ok := h.GetProcedure(proc.Handle)
	if !ok {
		return
	}
	data.Name = name
	h.SetProcedureData(proc.Handle, data)
}
