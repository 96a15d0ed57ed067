package primitives

import (
	"fmt"
	"strconv"

	"github.com/toolness/ascheme/lisp"
)

func number(v lisp.Value) (float64, *lisp.Error) {
	if v.Tag != lisp.TagNumber {
		return 0, lisp.NewTypeError("expected number, got %s", v.Tag)
	}
	return v.Num, nil
}

func numbers(args []lisp.Value) ([]float64, *lisp.Error) {
	out := make([]float64, len(args))
	for i, a := range args {
		n, err := number(a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func numbersExactly(name string, args []lisp.Value, n int) ([]float64, *lisp.Error) {
	if err := exactly(name, args, n); err != nil {
		return nil, err
	}
	return numbers(args)
}

func str(v lisp.Value) (string, *lisp.Error) {
	if v.Tag != lisp.TagString {
		return "", lisp.NewTypeError("expected string, got %s", v.Tag)
	}
	return v.Str, nil
}

func exactly(name string, args []lisp.Value, n int) *lisp.Error {
	if len(args) != n {
		return lisp.NewArityError(strconv.Itoa(n), len(args))
	}
	return nil
}

func arityAtLeastCheck(name string, args []lisp.Value, n int) *lisp.Error {
	if len(args) < n {
		return arityAtLeast(name, n, len(args))
	}
	return nil
}

func arityAtLeast(name string, want, got int) *lisp.Error {
	return lisp.NewArityError(fmt.Sprintf("at least %d", want), got)
}

func typeErrorf(format string, v ...interface{}) *lisp.Error {
	return lisp.NewTypeError(format, v...)
}
