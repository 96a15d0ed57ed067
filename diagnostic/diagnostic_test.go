package diagnostic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolness/ascheme/diagnostic"
	"github.com/toolness/ascheme/lisp"
	"github.com/toolness/ascheme/parser"
	"github.com/toolness/ascheme/primitives"
)

func TestFormatUnboundVariable(t *testing.T) {
	env := lisp.NewInterpreter()
	primitives.Install(env)
	expr, ok, perr := parser.ParseOne(env.Heap, "<test>", []byte("nope"))
	require.Nil(t, perr)
	require.True(t, ok)
	_, err := lisp.Eval(env, expr)
	require.NotNil(t, err)

	out := diagnostic.Format(err)
	assert.Contains(t, out, "unbound variable")
	assert.Contains(t, out, "nope")
	assert.Contains(t, out, "call trail")
}

func TestFormatReaderErrorIncludesPosition(t *testing.T) {
	env := lisp.NewInterpreter()
	_, perr := parser.Read(env.Heap, "<test>", strings.NewReader(")"))
	require.NotNil(t, perr)

	out := diagnostic.Format(perr)
	assert.Contains(t, out, "reader error")
	assert.Contains(t, out, "at <test>")
}

func TestFormatNilError(t *testing.T) {
	out := diagnostic.Format(nil)
	assert.Equal(t, "(no error)\n", out)
}

func TestFormatElidesTailFrames(t *testing.T) {
	env := lisp.NewInterpreter()
	primitives.Install(env)
	expr, ok, perr := parser.ParseOne(env.Heap, "<test>", []byte(`
		(define (loop n) (if (= n 0) (car 1) (loop (- n 1))))`))
	require.Nil(t, perr)
	require.True(t, ok)
	_, evalErr := lisp.Eval(env, expr)
	require.Nil(t, evalErr)

	expr, ok, perr = parser.ParseOne(env.Heap, "<test>", []byte("(loop 1000)"))
	require.Nil(t, perr)
	require.True(t, ok)
	_, err := lisp.Eval(env, expr)
	require.NotNil(t, err)

	out := diagnostic.Format(err)
	assert.Contains(t, out, "tail calls elided")
}
