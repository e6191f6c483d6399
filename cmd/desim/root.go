package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the CLI. Grounded on akita's own
// akita/cmd/root.go and inference-sim's cmd/root.go, both a bare Cobra root
// with subcommands attached via init().
var rootCmd = &cobra.Command{
	Use:   "desim",
	Short: "Run discrete-event simulation scenarios",
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
