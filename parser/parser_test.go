package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolness/ascheme/heap"
	"github.com/toolness/ascheme/lisp"
	"github.com/toolness/ascheme/parser"
)

func parseAll(t *testing.T, src string) []lisp.Value {
	t.Helper()
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader(src))
	require.Nil(t, err)
	return exprs
}

func TestParseAtoms(t *testing.T) {
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader(`42 3.5 #t #f "hi" sym`))
	require.Nil(t, err)
	require.Len(t, exprs, 6)
	assert.Equal(t, lisp.Number(42), exprs[0])
	assert.Equal(t, lisp.Number(3.5), exprs[1])
	assert.Equal(t, lisp.Bool(true), exprs[2])
	assert.Equal(t, lisp.Bool(false), exprs[3])
	assert.Equal(t, lisp.String("hi"), exprs[4])
	assert.Equal(t, lisp.SymbolValue("sym"), exprs[5])
}

func TestParseProperList(t *testing.T) {
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader("(1 2 3)"))
	require.Nil(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, "(1 2 3)", lisp.Repr(h, exprs[0]))
}

func TestParseDottedPair(t *testing.T) {
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader("(1 . 2)"))
	require.Nil(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, "(1 . 2)", lisp.Repr(h, exprs[0]))
}

func TestParseNestedList(t *testing.T) {
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader("(1 (2 3) 4)"))
	require.Nil(t, err)
	assert.Equal(t, "(1 (2 3) 4)", lisp.Repr(h, exprs[0]))
}

func TestParseEmptyList(t *testing.T) {
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader("()"))
	require.Nil(t, err)
	require.Len(t, exprs, 1)
	assert.True(t, exprs[0].IsNil())
}

func TestQuoteSugar(t *testing.T) {
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader("'x '(1 2)"))
	require.Nil(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, "(quote x)", lisp.Repr(h, exprs[0]))
	assert.Equal(t, "(quote (1 2))", lisp.Repr(h, exprs[1]))
}

func TestUnclosedListIsIncomplete(t *testing.T) {
	h := heap.New()
	_, err := parser.Read(h, "<test>", strings.NewReader("(1 2"))
	require.NotNil(t, err)
	assert.True(t, lisp.IsIncomplete(err))
}

func TestUnexpectedCloseParenIsError(t *testing.T) {
	h := heap.New()
	_, err := parser.Read(h, "<test>", strings.NewReader(")"))
	require.NotNil(t, err)
	assert.False(t, lisp.IsIncomplete(err))
	assert.Equal(t, lisp.ReaderError, err.Kind)
}

func TestParseOneIncompleteAtWhitespaceOnly(t *testing.T) {
	h := heap.New()
	expr, ok, err := parser.ParseOne(h, "<test>", []byte("   "))
	require.Nil(t, err)
	assert.False(t, ok)
	assert.Equal(t, lisp.Value{}, expr)
}

func TestParseOneIncompleteMidDatum(t *testing.T) {
	h := heap.New()
	_, ok, err := parser.ParseOne(h, "<test>", []byte("(+ 1 2"))
	assert.False(t, ok)
	assert.Nil(t, err)
}

func TestParseOneComplete(t *testing.T) {
	h := heap.New()
	expr, ok, err := parser.ParseOne(h, "<test>", []byte("(+ 1 2)"))
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, "(+ 1 2)", lisp.Repr(h, expr))
}

func TestParseProgramMultipleExpressions(t *testing.T) {
	exprs := parseAll(t, "(define x 1) (define y 2) (+ x y)")
	require.Len(t, exprs, 3)
}

func TestSymbolInterning(t *testing.T) {
	h := heap.New()
	exprs, err := parser.Read(h, "<test>", strings.NewReader("foo foo"))
	require.Nil(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, exprs[0].Sym, exprs[1].Sym)
}
