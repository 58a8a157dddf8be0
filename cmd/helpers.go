package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/canscope/canscope/internal/utils"
	"github.com/canscope/canscope/pkg/caniuse"
	"github.com/canscope/canscope/pkg/compat"
	"github.com/canscope/canscope/pkg/config"
	"github.com/canscope/canscope/pkg/resolver"
)

func newStore(cmd *cobra.Command) *config.Store {
	path, _ := cmd.Flags().GetString("project-config")
	return config.NewStore(path)
}

// newAggregator wires store, data client and resolver from tool settings.
// The returned cleanup closes the sqlite cache if one was opened.
func newAggregator(cmd *cobra.Command) (*compat.Aggregator, *config.Store, func()) {
	store := newStore(cmd)

	var opts []caniuse.Option
	if u := viper.GetString("datasource.url"); u != "" {
		opts = append(opts, caniuse.WithBaseURL(u))
	}
	if ttl := viper.GetDuration("cache.ttl"); ttl > 0 {
		opts = append(opts, caniuse.WithTTL(ttl))
	}
	cleanup := func() {}
	if path := viper.GetString("cache.dbpath"); path != "" {
		db, err := caniuse.OpenDB(path)
		if err != nil {
			utils.Log.Warnf("Could not open feature cache %s: %v (continuing without it)", path, err)
		} else {
			opts = append(opts, caniuse.WithDB(db))
			cleanup = func() { _ = db.Close() }
		}
	}

	client := caniuse.NewClient(opts...)
	agg := compat.New(store, resolver.New(store, client), viper.GetInt("check.concurrency"))
	return agg, store, cleanup
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(s compat.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TARGET\tBROWSER\tSCORE\tUNSUPPORTED\t")
	for _, r := range s.Reports {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\terror: %v\t\n", r.Target, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s %s\t%d%%\t%d\t\n", r.Target, r.Resolved.Browser, r.Resolved.Version, r.Score, len(r.Unsupported))
	}
	w.Flush()

	fmt.Printf("\nOverall score: %d%%\n", s.OverallScore)
	if len(s.CommonUnsupported) > 0 {
		fmt.Println("Unsupported on every target:")
		for _, f := range s.CommonUnsupported {
			fmt.Println("  - " + f)
		}
	}
}

func printDecisions(r compat.TargetReport) {
	fmt.Printf("\n%s (%s %s) — %d%%\n", r.Target, r.Resolved.Browser, r.Resolved.Version, r.Score)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tSUPPORTED\tKIND\tPROVENANCE\tNOTES\t")
	for _, d := range r.Decisions {
		supported := "no"
		if d.Supported {
			supported = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", d.Feature, supported, d.Kind, d.Provenance, d.Description)
	}
	w.Flush()
}
