package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canscope/canscope/pkg/config"
	"github.com/canscope/canscope/pkg/knowledge"
)

// buildconfigCmd represents the buildconfig command
var buildconfigCmd = &cobra.Command{
	Use:   "buildconfig",
	Short: "Generate build-tool configuration for the resolved targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, _ := cmd.Flags().GetString("tool")
		targets, _ := cmd.Flags().GetStringSlice("targets")

		store := newStore(cmd)
		if len(targets) == 0 {
			targets = []string{store.Load().DefaultBaseline}
		}

		resolved := make([]config.BrowserVersion, 0, len(targets))
		for _, t := range targets {
			resolved = append(resolved, store.ResolveTarget(t))
		}

		out, err := knowledge.BuildTemplate(tool, resolved)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	buildconfigCmd.Flags().String("tool", "browserslist", fmt.Sprintf("Build tool to generate for %v", knowledge.BuildTools()))
	buildconfigCmd.Flags().StringSliceP("targets", "t", nil, "Target tokens (default: the configured baseline)")
	rootCmd.AddCommand(buildconfigCmd)
}
