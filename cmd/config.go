package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/canscope/canscope/pkg/config"
)

// configCmd is the parent of the config view/mutation subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or mutate the project compatibility configuration",
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the effective (merged) configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		cfg := newStore(cmd).Load()
		if asJSON {
			return printJSON(cfg)
		}

		fmt.Printf("Default baseline: %s\n\nTargets:\n", cfg.DefaultBaseline)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		names := make([]string, 0, len(cfg.Targets))
		for name := range cfg.Targets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			bv := cfg.Targets[name]
			fmt.Fprintf(w, "  %s\t%s %s\t\n", name, bv.Browser, bv.Version)
		}
		w.Flush()

		if len(cfg.Polyfills) > 0 {
			fmt.Printf("\nPolyfilled features: %s\n", strings.Join(cfg.Polyfills, ", "))
		}
		if len(cfg.Overrides) > 0 {
			fmt.Println("\nOverrides:")
			for feature, status := range cfg.Overrides {
				fmt.Printf("  %s: %s\n", feature, status)
			}
		}
		if len(cfg.BrowserFallbacks) > 0 {
			fmt.Println("\nFallback versions:")
			for browser, versions := range cfg.BrowserFallbacks {
				fmt.Printf("  %s: %s\n", browser, strings.Join(versions, ", "))
			}
		}
		return nil
	},
}

var configSetBaselineCmd = &cobra.Command{
	Use:   "set-baseline <target>",
	Short: "Set the default baseline target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newStore(cmd).Mutate(config.Patch{DefaultBaseline: args[0]})
		return err
	},
}

var configAddPolyfillCmd = &cobra.Command{
	Use:   "add-polyfill <feature>...",
	Short: "Declare features as polyfilled",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remove, _ := cmd.Flags().GetBool("remove")
		patch := config.Patch{AddPolyfills: args}
		if remove {
			patch = config.Patch{RemovePolyfills: args}
		}
		_, err := newStore(cmd).Mutate(patch)
		return err
	},
}

var configSetOverrideCmd = &cobra.Command{
	Use:   "set-override <feature> <supported|unsupported>",
	Short: "Force a support status for a feature",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newStore(cmd).Mutate(config.Patch{
			SetOverrides: map[string]string{args[0]: args[1]},
		})
		return err
	},
}

var configClearOverrideCmd = &cobra.Command{
	Use:   "clear-override <feature>...",
	Short: "Remove forced support statuses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newStore(cmd).Mutate(config.Patch{ClearOverrides: args})
		return err
	},
}

var configSetFallbacksCmd = &cobra.Command{
	Use:   "set-fallbacks <browser> <version>...",
	Short: "Set the ordered fallback version list for a browser",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newStore(cmd).Mutate(config.Patch{
			SetFallbacks: map[string][]string{args[0]: args[1:]},
		})
		return err
	},
}

var configAddTargetCmd = &cobra.Command{
	Use:   "add-target <name> <browser> <version>",
	Short: "Add a named custom target",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := newStore(cmd).Mutate(config.Patch{
			AddTargets: map[string]config.BrowserVersion{
				args[0]: {Browser: args[1], Version: args[2]},
			},
		})
		return err
	},
}

func init() {
	configViewCmd.Flags().Bool("json", false, "Emit the effective config as JSON")
	configAddPolyfillCmd.Flags().Bool("remove", false, "Remove instead of add")
	configCmd.AddCommand(configViewCmd, configSetBaselineCmd, configAddPolyfillCmd,
		configSetOverrideCmd, configClearOverrideCmd, configSetFallbacksCmd, configAddTargetCmd)
	rootCmd.AddCommand(configCmd)
}
