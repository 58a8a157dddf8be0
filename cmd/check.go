package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canscope/canscope/pkg/compat"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <feature>...",
	Short: "Check named features against one or more browser targets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, _ := cmd.Flags().GetStringSlice("targets")
		asJSON, _ := cmd.Flags().GetBool("json")
		if len(targets) == 0 {
			return fmt.Errorf("at least one --targets entry is required")
		}

		agg, _, cleanup := newAggregator(cmd)
		defer cleanup()

		reports := agg.CheckTargets(context.Background(), args, targets)
		summary := compat.Summarize(reports)

		if asJSON {
			return printJSON(summary)
		}
		for _, r := range reports {
			if r.Err != nil {
				fmt.Printf("\n%s: error: %v\n", r.Target, r.Err)
				continue
			}
			printDecisions(r)
		}
		printSummary(summary)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringSliceP("targets", "t", nil, "Target tokens to check against (e.g. chrome-57, webview-baseline)")
	checkCmd.Flags().Bool("json", false, "Emit the summary as JSON")
	rootCmd.AddCommand(checkCmd)
}
