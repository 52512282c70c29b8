package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fsmdemo",
		Short: "fsmdemo runs the sample hierarchical state machines",
		Long: `fsmdemo builds one of the sample machines, starts it, dispatches its
scripted events and reports the result. Machine diagnostics go to stderr.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Minimum slog level printed to stderr")
	rootCmd.PersistentFlags().String("fsm-level", "debug", "Minimum machine diagnostics level (debug, info, notice, warning, error, fatal, none)")

	rootCmd.AddCommand(newRunCmd(), newDiagramCmd(), newListCmd(), newServeCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
