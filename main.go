// Command ascheme is an R5RS-derived Scheme interpreter: a REPL by
// default, or a one-shot file/expression runner via the run subcommand.
package main

import "github.com/toolness/ascheme/cmd"

func main() {
	cmd.Execute()
}
