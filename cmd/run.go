package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolness/ascheme/diagnostic"
	"github.com/toolness/ascheme/lisp"
	"github.com/toolness/ascheme/parser"
	"github.com/toolness/ascheme/primitives"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run lisp code",
	Long:  `Run lisp code provided supplied via the command line or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		sources, err := runReadSources(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		env := lisp.NewInterpreter()
		primitives.Install(env)
		for i, src := range sources {
			name := args[i]
			if runExpression {
				name = "<expression>"
			}
			exprs, perr := parser.Read(env.Heap, name, strings.NewReader(src))
			if perr != nil {
				fmt.Fprintln(os.Stderr, diagnostic.Format(perr))
				os.Exit(1)
			}
			for _, expr := range exprs {
				v, evalErr := lisp.Eval(env, expr)
				if evalErr != nil {
					fmt.Fprintln(os.Stderr, diagnostic.Format(evalErr))
					os.Exit(1)
				}
				if runPrint {
					fmt.Println(env.Repr(v))
				}
			}
		}
	},
}

func runReadSources(args []string) ([]string, error) {
	sources := make([]string, len(args))
	if runExpression {
		copy(sources, args)
		return sources, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources[i] = string(b)
	}
	return sources, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
