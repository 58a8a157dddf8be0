package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canscope/canscope/pkg/compat"
	"github.com/canscope/canscope/pkg/scanner"
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest [feature]...",
	Short: "Get prioritized remediation suggestions for unsupported features",
	Long: `Checks the given features (or the features detected in --dir) against the
targets and prints remediation advice: alternatives, polyfill packages and
vendor-prefix guidance, ordered by priority.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, _ := cmd.Flags().GetStringSlice("targets")
		dir, _ := cmd.Flags().GetString("dir")
		asJSON, _ := cmd.Flags().GetBool("json")
		if len(targets) == 0 {
			return fmt.Errorf("at least one --targets entry is required")
		}

		features := args
		if len(features) == 0 {
			if dir == "" {
				return fmt.Errorf("provide feature names or --dir to scan")
			}
			result, err := scanner.ScanTree(dir, scanner.Options{MaxDepth: -1})
			if err != nil {
				return err
			}
			features = result.Features()
		}

		agg, _, cleanup := newAggregator(cmd)
		defer cleanup()

		summary := compat.Summarize(agg.CheckTargets(context.Background(), features, targets))
		advice := compat.Recommend(summary)

		if asJSON {
			return printJSON(advice)
		}

		fmt.Printf("Overall: %d%% (%s)\n\n", summary.OverallScore, advice.Level)
		if len(advice.Items) == 0 {
			fmt.Println("Nothing to fix: every checked feature is usable on every target.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PRIORITY\tFEATURE\tEVERYWHERE\tPOLYFILL\tSUGGESTION\t")
		for _, item := range advice.Items {
			everywhere := ""
			if item.Everywhere {
				everywhere = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				strings.ToUpper(item.Priority), item.Feature, everywhere, item.Polyfill, item.Suggestion)
		}
		w.Flush()
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringSliceP("targets", "t", nil, "Target tokens to check against")
	suggestCmd.Flags().StringP("dir", "d", "", "Scan this directory instead of naming features")
	suggestCmd.Flags().Bool("json", false, "Emit advice as JSON")
	rootCmd.AddCommand(suggestCmd)
}
