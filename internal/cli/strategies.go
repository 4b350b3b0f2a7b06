package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available execution strategies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, t := range strategy.GetSupportedStrategies() {
				desc := strategy.GetStrategyDescription(t)
				fmt.Fprintf(out, "%s (%s)\n", desc.Type, desc.Name)
				fmt.Fprintf(out, "  %s\n", desc.Description)
				for _, note := range desc.Notes {
					fmt.Fprintf(out, "  - %s\n", note)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Available parallelism: %d logical CPUs\n", strategy.AvailableParallelism())
		},
	}
}
