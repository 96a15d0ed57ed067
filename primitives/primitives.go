// Package primitives installs the standard library of primitive
// procedures -- arithmetic, predicates, pair/list operations, I/O, and
// runtime introspection -- into a lisp.Env. One small Go function per
// primitive, wrapped and bound by name.
package primitives

import (
	"fmt"

	"github.com/toolness/ascheme/lisp"
)

// Install binds every primitive procedure into env's own frame. Callers
// build a fresh top-level Env with lisp.NewInterpreter and then call
// Install once before evaluating any user code.
func Install(env *lisp.Env) {
	installArithmetic(env)
	installPredicates(env)
	installPairs(env)
	installIO(env)
	installRuntime(env)
	installTesting(env)
}

func installArithmetic(env *lisp.Env) {
	env.DefinePrimitive("+", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		sum := 0.0
		for _, a := range args {
			n, err := number(a)
			if err != nil {
				return lisp.Value{}, err
			}
			sum += n
		}
		return lisp.Number(sum), nil
	})
	env.DefinePrimitive("*", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		product := 1.0
		for _, a := range args {
			n, err := number(a)
			if err != nil {
				return lisp.Value{}, err
			}
			product *= n
		}
		return lisp.Number(product), nil
	})
	env.DefinePrimitive("-", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		nums, err := numbers(args)
		if err != nil {
			return lisp.Value{}, err
		}
		if len(nums) == 0 {
			return lisp.Value{}, arityAtLeast("-", 1, 0)
		}
		if len(nums) == 1 {
			return lisp.Number(-nums[0]), nil
		}
		result := nums[0]
		for _, n := range nums[1:] {
			result -= n
		}
		return lisp.Number(result), nil
	})
	env.DefinePrimitive("/", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		nums, err := numbers(args)
		if err != nil {
			return lisp.Value{}, err
		}
		if len(nums) == 0 {
			return lisp.Value{}, arityAtLeast("/", 1, 0)
		}
		if len(nums) == 1 {
			if nums[0] == 0 {
				return lisp.Value{}, typeErrorf("division by zero")
			}
			return lisp.Number(1 / nums[0]), nil
		}
		result := nums[0]
		for _, n := range nums[1:] {
			if n == 0 {
				return lisp.Value{}, typeErrorf("division by zero")
			}
			result /= n
		}
		return lisp.Number(result), nil
	})
	env.DefinePrimitive("remainder", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		nums, err := numbersExactly("remainder", args, 2)
		if err != nil {
			return lisp.Value{}, err
		}
		if nums[1] == 0 {
			return lisp.Value{}, typeErrorf("division by zero")
		}
		a, b := int64(nums[0]), int64(nums[1])
		return lisp.Number(float64(a % b)), nil
	})
	env.DefinePrimitive("=", numericComparison("=", func(a, b float64) bool { return a == b }))
	env.DefinePrimitive("<", numericComparison("<", func(a, b float64) bool { return a < b }))
	env.DefinePrimitive(">", numericComparison(">", func(a, b float64) bool { return a > b }))
	env.DefinePrimitive("<=", numericComparison("<=", func(a, b float64) bool { return a <= b }))
	env.DefinePrimitive(">=", numericComparison(">=", func(a, b float64) bool { return a >= b }))
}

func numericComparison(name string, cmp func(a, b float64) bool) lisp.Native {
	return func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		nums, err := numbers(args)
		if err != nil {
			return lisp.Value{}, err
		}
		if len(nums) < 2 {
			return lisp.Value{}, arityAtLeast(name, 2, len(nums))
		}
		for i := 1; i < len(nums); i++ {
			if !cmp(nums[i-1], nums[i]) {
				return lisp.Bool(false), nil
			}
		}
		return lisp.Bool(true), nil
	}
}

func installPredicates(env *lisp.Env) {
	env.DefinePrimitive("eq?", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("eq?", args, 2); err != nil {
			return lisp.Value{}, err
		}
		return lisp.Bool(lisp.Eq(args[0], args[1])), nil
	})
	env.DefinePrimitive("pair?", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("pair?", args, 1); err != nil {
			return lisp.Value{}, err
		}
		return lisp.Bool(args[0].IsPair()), nil
	})
	env.DefinePrimitive("null?", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("null?", args, 1); err != nil {
			return lisp.Value{}, err
		}
		return lisp.Bool(args[0].IsNil()), nil
	})
	env.DefinePrimitive("not", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("not", args, 1); err != nil {
			return lisp.Value{}, err
		}
		return lisp.Bool(!args[0].IsTruthy()), nil
	})
	env.DefinePrimitive("procedure?", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("procedure?", args, 1); err != nil {
			return lisp.Value{}, err
		}
		return lisp.Bool(args[0].Tag == lisp.TagProcedure), nil
	})
}

func installPairs(env *lisp.Env) {
	env.DefinePrimitive("cons", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("cons", args, 2); err != nil {
			return lisp.Value{}, err
		}
		return lisp.Cons(env.Heap, args[0], args[1]), nil
	})
	env.DefinePrimitive("car", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("car", args, 1); err != nil {
			return lisp.Value{}, err
		}
		car, _, ok := lisp.DerefPair(env.Heap, args[0])
		if !ok {
			return lisp.Value{}, typeErrorf("car: not a pair")
		}
		return car, nil
	})
	env.DefinePrimitive("cdr", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("cdr", args, 1); err != nil {
			return lisp.Value{}, err
		}
		_, cdr, ok := lisp.DerefPair(env.Heap, args[0])
		if !ok {
			return lisp.Value{}, typeErrorf("cdr: not a pair")
		}
		return cdr, nil
	})
	env.DefinePrimitive("set-car!", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("set-car!", args, 2); err != nil {
			return lisp.Value{}, err
		}
		if !args[0].IsPair() {
			return lisp.Value{}, typeErrorf("set-car!: not a pair")
		}
		if err := lisp.SetCar(env.Heap, args[0], args[1]); err != nil {
			return lisp.Value{}, typeErrorf("set-car!: %s", err)
		}
		return lisp.Unspecified, nil
	})
	env.DefinePrimitive("set-cdr!", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("set-cdr!", args, 2); err != nil {
			return lisp.Value{}, err
		}
		if !args[0].IsPair() {
			return lisp.Value{}, typeErrorf("set-cdr!: not a pair")
		}
		if err := lisp.SetCdr(env.Heap, args[0], args[1]); err != nil {
			return lisp.Value{}, typeErrorf("set-cdr!: %s", err)
		}
		return lisp.Unspecified, nil
	})
	env.DefinePrimitive("list", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		return lisp.List(env.Heap, args...), nil
	})
	env.DefinePrimitive("length", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("length", args, 1); err != nil {
			return lisp.Value{}, err
		}
		elems, tail := lisp.ListToSlice(env.Heap, args[0])
		if !tail.IsNil() {
			return lisp.Value{}, typeErrorf("length: improper list")
		}
		return lisp.Number(float64(len(elems))), nil
	})
	env.DefinePrimitive("apply", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := arityAtLeastCheck("apply", args, 2); err != nil {
			return lisp.Value{}, err
		}
		last := args[len(args)-1]
		elems, tail := lisp.ListToSlice(env.Heap, last)
		if !tail.IsNil() {
			return lisp.Value{}, typeErrorf("apply: last argument must be a proper list")
		}
		callArgs := append(append([]lisp.Value{}, args[1:len(args)-1]...), elems...)
		return lisp.Apply(env, args[0], callArgs)
	})
}

func installIO(env *lisp.Env) {
	env.DefinePrimitive("display", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("display", args, 1); err != nil {
			return lisp.Value{}, err
		}
		fmt.Print(env.Repr(args[0]))
		return lisp.Unspecified, nil
	})
	env.DefinePrimitive("newline", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("newline", args, 0); err != nil {
			return lisp.Value{}, err
		}
		fmt.Println()
		return lisp.Unspecified, nil
	})
}

func installRuntime(env *lisp.Env) {
	env.DefinePrimitive("gc", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("gc", args, 0); err != nil {
			return lisp.Value{}, err
		}
		if err := env.GC(); err != nil {
			return lisp.Value{}, err
		}
		return lisp.Unspecified, nil
	})
	env.DefinePrimitive("stats", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("stats", args, 0); err != nil {
			return lisp.Value{}, err
		}
		occupied, capacity := env.Stats()
		return lisp.List(env.Heap, lisp.Number(float64(occupied)), lisp.Number(float64(capacity))), nil
	})
	env.DefinePrimitive("assert", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("assert", args, 1); err != nil {
			return lisp.Value{}, err
		}
		if !args[0].IsTruthy() {
			return lisp.Value{}, lisp.NewAssertionError(env.Repr(args[0]))
		}
		return lisp.Unspecified, nil
	})
}

func installTesting(env *lisp.Env) {
	env.DefinePrimitive("test-eq", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("test-eq", args, 2); err != nil {
			return lisp.Value{}, err
		}
		if !lisp.Eq(args[0], args[1]) {
			return lisp.Value{}, lisp.NewAssertionError(fmt.Sprintf("%s is not eq? to %s", env.Repr(args[0]), env.Repr(args[1])))
		}
		return lisp.Unspecified, nil
	})
	env.DefinePrimitive("test-repr", func(env *lisp.Env, args []lisp.Value) (lisp.Value, *lisp.Error) {
		if err := exactly("test-repr", args, 2); err != nil {
			return lisp.Value{}, err
		}
		s, err := str(args[1])
		if err != nil {
			return lisp.Value{}, err
		}
		got := env.Repr(args[0])
		if got != s {
			return lisp.Value{}, lisp.NewAssertionError(fmt.Sprintf("expected repr %q, got %q", s, got))
		}
		return lisp.Unspecified, nil
	})
}
