// Package cmd implements the ascheme command-line entry points with
// github.com/spf13/cobra: a root command that starts the REPL when given
// no subcommand, a repl subcommand for the same behavior spelled out
// explicitly, and a run subcommand for evaluating files or expressions
// supplied on the command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ascheme",
	Short: "ascheme is an R5RS-derived Scheme interpreter",
	Long: `ascheme reads and evaluates Scheme source. With no subcommand it
starts an interactive REPL; "run" evaluates one or more files (or, with
-e, inline expressions) instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		replCmd.Run(cmd, args)
	},
}

// Execute runs the root command, exiting the process with a non-zero
// status if it returns an error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
