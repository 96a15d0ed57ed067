package primitives_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolness/ascheme/lisp"
	"github.com/toolness/ascheme/parser"
	"github.com/toolness/ascheme/primitives"
)

func eval(t *testing.T, env *lisp.Env, src string) lisp.Value {
	t.Helper()
	expr, ok, err := parser.ParseOne(env.Heap, "<test>", []byte(src))
	require.Nil(t, err)
	require.True(t, ok, "incomplete expression: %s", src)
	v, evalErr := lisp.Eval(env, expr)
	require.Nil(t, evalErr, "eval error for %q: %v", src, evalErr)
	return v
}

func newEnv() *lisp.Env {
	env := lisp.NewInterpreter()
	primitives.Install(env)
	return env
}

func TestArithmetic(t *testing.T) {
	env := newEnv()
	assert.Equal(t, lisp.Number(6), eval(t, env, "(+ 1 2 3)"))
	assert.Equal(t, lisp.Number(6), eval(t, env, "(* 1 2 3)"))
	assert.Equal(t, lisp.Number(-1), eval(t, env, "(- 1 2)"))
	assert.Equal(t, lisp.Number(-5), eval(t, env, "(- 5)"))
	assert.Equal(t, lisp.Number(2), eval(t, env, "(/ 10 5)"))
	assert.Equal(t, lisp.Number(1), eval(t, env, "(remainder 10 3)"))
}

func TestDivisionByZero(t *testing.T) {
	env := newEnv()
	expr, ok, perr := parser.ParseOne(env.Heap, "<test>", []byte("(/ 1 0)"))
	require.Nil(t, perr)
	require.True(t, ok)
	_, err := lisp.Eval(env, expr)
	require.NotNil(t, err)
	assert.Equal(t, lisp.TypeError, err.Kind)
}

func TestComparisons(t *testing.T) {
	env := newEnv()
	assert.Equal(t, lisp.Bool(true), eval(t, env, "(< 1 2 3)"))
	assert.Equal(t, lisp.Bool(false), eval(t, env, "(< 1 3 2)"))
	assert.Equal(t, lisp.Bool(true), eval(t, env, "(= 1 1 1)"))
	assert.Equal(t, lisp.Bool(true), eval(t, env, "(>= 3 3 2)"))
}

func TestPredicates(t *testing.T) {
	env := newEnv()
	assert.Equal(t, lisp.Bool(true), eval(t, env, "(pair? (cons 1 2))"))
	assert.Equal(t, lisp.Bool(false), eval(t, env, "(pair? 1)"))
	assert.Equal(t, lisp.Bool(true), eval(t, env, "(null? '())"))
	assert.Equal(t, lisp.Bool(true), eval(t, env, "(not #f)"))
	assert.Equal(t, lisp.Bool(true), eval(t, env, "(eq? 'a 'a)"))
}

func TestPairsAndLists(t *testing.T) {
	env := newEnv()
	assert.Equal(t, lisp.Number(1), eval(t, env, "(car (cons 1 2))"))
	assert.Equal(t, lisp.Number(2), eval(t, env, "(cdr (cons 1 2))"))
	assert.Equal(t, lisp.Number(3), eval(t, env, "(length (list 1 2 3))"))
}

func TestSetCarSetCdr(t *testing.T) {
	env := newEnv()
	eval(t, env, "(define p (cons 1 2))")
	eval(t, env, "(set-car! p 10)")
	eval(t, env, "(set-cdr! p 20)")
	assert.Equal(t, lisp.Number(10), eval(t, env, "(car p)"))
	assert.Equal(t, lisp.Number(20), eval(t, env, "(cdr p)"))
}

func TestSetCarOnNonPairIsTypeError(t *testing.T) {
	env := newEnv()
	expr, ok, perr := parser.ParseOne(env.Heap, "<test>", []byte("(set-car! 1 2)"))
	require.Nil(t, perr)
	require.True(t, ok)
	_, err := lisp.Eval(env, expr)
	require.NotNil(t, err)
	assert.Equal(t, lisp.TypeError, err.Kind)
}

func TestApply(t *testing.T) {
	env := newEnv()
	assert.Equal(t, lisp.Number(6), eval(t, env, "(apply + (list 1 2 3))"))
	assert.Equal(t, lisp.Number(6), eval(t, env, "(apply + 1 (list 2 3))"))
}

func TestRuntimeIntrospection(t *testing.T) {
	env := newEnv()
	eval(t, env, "(cons 1 2)")
	v := eval(t, env, "(stats)")
	assert.True(t, v.IsPair())
	eval(t, env, "(gc)")
}

func TestAssertAndTestHelpers(t *testing.T) {
	env := newEnv()
	eval(t, env, "(assert #t)")
	eval(t, env, "(test-eq 'a 'a)")
	eval(t, env, `(test-repr 1 "1")`)
}

func TestGCInsideProcedureIsRefused(t *testing.T) {
	env := newEnv()
	eval(t, env, "(define (f) (gc))")
	expr, ok, perr := parser.ParseOne(env.Heap, "<test>", []byte("(f)"))
	require.Nil(t, perr)
	require.True(t, ok)
	_, err := lisp.Eval(env, expr)
	require.NotNil(t, err)
	assert.Equal(t, lisp.CannotCollectHere, err.Kind)
}

func TestAssertFailureIsAssertionError(t *testing.T) {
	env := newEnv()
	expr, ok, perr := parser.ParseOne(env.Heap, "<test>", []byte("(assert #f)"))
	require.Nil(t, perr)
	require.True(t, ok)
	_, err := lisp.Eval(env, expr)
	require.NotNil(t, err)
	assert.Equal(t, lisp.AssertionFailed, err.Kind)
}
