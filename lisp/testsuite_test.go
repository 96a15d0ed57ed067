package lisp_test

import (
	"testing"

	"github.com/toolness/ascheme/lisp"
	"github.com/toolness/ascheme/parser"
)

// TestSequence is a sequence of expr/expected-repr pairs evaluated in order
// against one fresh Env, the way a REPL transcript would run them.
type TestSequence []struct {
	Expr   string
	Result string
}

// TestSuite is a set of named TestSequences, each run against its own Env
// so that earlier sequences' definitions can never leak into later ones.
type TestSuite []struct {
	Name string
	TestSequence
}

// runTestSuite evaluates every sequence in tests, comparing each
// expression's printed result against its expected text. Grounded on the
// teacher's elpstest.RunTestSuite (elpstest/lisptest.go), reworked around
// this package's Env/Eval/parser API rather than lisp.LEnv/parser.ParseLVal.
func runTestSuite(t *testing.T, tests TestSuite) {
	t.Helper()
	for _, test := range tests {
		env := newEnv()
		for j, step := range test.TestSequence {
			expr, ok, perr := parser.ParseOne(env.Heap, "<testsuite>", []byte(step.Expr))
			if perr != nil {
				t.Errorf("%s: step %d: parse error: %v", test.Name, j, perr)
				continue
			}
			if !ok {
				t.Errorf("%s: step %d: incomplete expression %q", test.Name, j, step.Expr)
				continue
			}
			v, err := lisp.Eval(env, expr)
			var result string
			if err != nil {
				result = err.Msg
			} else {
				result = env.Repr(v)
			}
			if result != step.Result {
				t.Errorf("%s: step %d: %s => %q, want %q", test.Name, j, step.Expr, result, step.Result)
			}
		}
	}
}

func TestEvalSuite(t *testing.T) {
	runTestSuite(t, TestSuite{
		{"self-evaluating", TestSequence{
			{"3", "3"},
			{"#t", "#t"},
			{"#f", "#f"},
			{`"a string"`, `"a string"`},
		}},
		{"quoting", TestSequence{
			{"'3", "3"},
			{"''3", "(quote 3)"},
			{"'a", "a"},
			{"()", "()"},
		}},
		{"unbound symbol", TestSequence{
			{"a", "unbound variable: a"},
		}},
		{"lists", TestSequence{
			{"'(1 2 3)", "(1 2 3)"},
			{"(cons 1 (cons 2 (cons 3 ())))", "(1 2 3)"},
			{"(list 1 2 3)", "(1 2 3)"},
			{"(car (list 1 2 3))", "1"},
			{"(cdr (list 1 2 3))", "(2 3)"},
			{"(length (list 1 2 3))", "3"},
		}},
		{"lambda", TestSequence{
			{"(lambda (x) x)", "#<procedure>"},
			{"((lambda (x) x) 1)", "1"},
			{"((lambda () (+ 1 1)))", "2"},
			{"((lambda (x y) (+ x y)) 1 2)", "3"},
		}},
		{"define", TestSequence{
			{"(define (fn0) (+ 1 1))", "#<unspecified>"},
			{"(define (fn1 n) (+ n 1))", "#<unspecified>"},
			{"(fn0)", "2"},
			{"(fn1 1)", "2"},
		}},
		{"cond and logic", TestSequence{
			{"(cond (#f 1) (#t 2))", "2"},
			{"(and 1 2 3)", "3"},
			{"(or #f #f 5)", "5"},
		}},
		{"errors", TestSequence{
			{"(car 1)", "car: not a pair"},
			{"(f 1 2)", "unbound variable: f"},
		}},
	})
}
