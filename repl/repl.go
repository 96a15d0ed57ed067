// Package repl implements an interactive read-eval-print loop over
// github.com/chzyer/readline, reading one top-level form at a time and
// printing its value. Incomplete-input detection is built around
// parser.ParseOne's explicit ok/err result.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/toolness/ascheme/diagnostic"
	"github.com/toolness/ascheme/lisp"
	"github.com/toolness/ascheme/parser"
	"github.com/toolness/ascheme/primitives"
)

// RunRepl runs the interactive loop, printing prompt before each top-level
// read and contPrompt (prompt's width in spaces) while a datum spans more
// than one line.
func RunRepl(prompt string) {
	env := lisp.NewInterpreter()
	primitives.Install(env)

	rl, err := readline.New(prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len(prompt))

	var buf []byte
	for {
		var line []byte
		line, err = rl.ReadSlice()
		if err != nil && err != readline.ErrInterrupt {
			break
		}
		if err == readline.ErrInterrupt {
			line = nil
			buf = nil
			rl.SetPrompt(prompt)
			continue
		}
		if len(buf) != 0 {
			buf = append(buf, '\n')
			line = append(buf, line...)
			buf = nil
			rl.SetPrompt(prompt)
		}
		if len(line) == 0 {
			continue
		}

		expr, ok, perr := parser.ParseOne(env.Heap, "<repl>", line)
		if perr != nil {
			errln(diagnostic.Format(perr))
			continue
		}
		if !ok {
			buf = line
			rl.SetPrompt(contPrompt)
			continue
		}

		v, evalErr := lisp.Eval(env, expr)
		if evalErr != nil {
			errln(diagnostic.Format(evalErr))
			continue
		}
		if v.Tag != lisp.TagUnspecified {
			fmt.Println(env.Repr(v))
		}
	}
	if err != io.EOF {
		errln(err)
		return
	}
	errln("done")
}

func errln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}
