package cmd

import (
	"github.com/spf13/cobra"

	"github.com/toolness/ascheme/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL",
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl("ascheme> ")
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
