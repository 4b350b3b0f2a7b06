package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the montepi command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "montepi",
		Short:   "Estimate PI by Monte Carlo sampling with different concurrency strategies",
		Version: version,
		Long: `montepi estimates PI by drawing random integer points in a square and
counting how many fall inside the quarter circle. The same workload runs
serially, on a fixed worker pool and as a structured parallel loop so the
concurrency models can be compared.`,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newStrategiesCmd())
	return cmd
}

// Execute runs the root command.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}
