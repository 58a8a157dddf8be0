// Package compat batches per-feature support decisions across targets and
// reduces them into compatibility scores, cross-target unsupported sets, and
// prioritized recommendations.
package compat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/canscope/canscope/pkg/config"
	"github.com/canscope/canscope/pkg/resolver"
)

const defaultConcurrency = 5

// TargetReport is the outcome of checking a feature list against one target.
// The Decisions slice preserves the input feature order regardless of
// completion order. Err is set only for target-level failures; per-feature
// failures live inside their Decision.
type TargetReport struct {
	Target      string
	Resolved    config.BrowserVersion
	Decisions   []resolver.Decision
	Supported   []string
	Unsupported []string
	Errored     []string
	Polyfilled  []string
	Overridden  []string
	Score       int
	Err         error
}

// Summary aggregates reports across targets.
type Summary struct {
	PerTargetScore      map[string]int
	OverallScore        int
	UnsupportedByTarget map[string][]string
	CommonUnsupported   []string
	Reports             []TargetReport
}

// Aggregator fans feature resolutions out over a bounded worker pool.
type Aggregator struct {
	store       *config.Store
	resolver    *resolver.Resolver
	concurrency int
}

func New(store *config.Store, res *resolver.Resolver, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Aggregator{store: store, resolver: res, concurrency: concurrency}
}

// CheckFeaturesForTarget resolves every feature against one target token.
// Resolutions are independent and issued concurrently; results are
// reassembled in input order and partitioned by decision kind.
func (a *Aggregator) CheckFeaturesForTarget(ctx context.Context, features []string, target string) TargetReport {
	report := TargetReport{
		Target:   target,
		Resolved: a.store.ResolveTarget(target),
	}

	report.Decisions = make([]resolver.Decision, len(features))

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(a.concurrency)
	for w := 0; w < a.concurrency; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Writing by index keeps input order intact.
				report.Decisions[i] = a.resolver.Resolve(ctx, features[i], report.Resolved)
			}
		}()
	}
	for i := range features {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, d := range report.Decisions {
		if d.Supported {
			report.Supported = append(report.Supported, d.Feature)
		} else {
			report.Unsupported = append(report.Unsupported, d.Feature)
		}
		switch d.Kind {
		case resolver.KindError:
			report.Errored = append(report.Errored, d.Feature)
		case resolver.KindPolyfilled:
			report.Polyfilled = append(report.Polyfilled, d.Feature)
		case resolver.KindOverride, resolver.KindOverrideDisabled:
			report.Overridden = append(report.Overridden, d.Feature)
		}
	}

	report.Score = Score(len(report.Supported), len(features))
	return report
}

// CheckTargets checks the same feature list against several targets. Targets
// are independent: a failure on one is recorded in its report and never
// aborts the others.
func (a *Aggregator) CheckTargets(ctx context.Context, features []string, targets []string) []TargetReport {
	reports := make([]TargetReport, len(targets))
	for i, target := range targets {
		if target == "" {
			reports[i] = TargetReport{Target: target, Err: fmt.Errorf("empty target token")}
			continue
		}
		if err := ctx.Err(); err != nil {
			reports[i] = TargetReport{Target: target, Err: err}
			continue
		}
		reports[i] = a.CheckFeaturesForTarget(ctx, features, target)
	}
	return reports
}

// Score is the per-target compatibility percentage. A zero-feature check is
// vacuously fully compliant.
func Score(supported, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(supported) / float64(total) * 100))
}

// Summarize reduces per-target reports into one summary.
//
// The overall score is supported-count-weighted and additionally divided by
// the target count:
//
//	round(sumSupported / (sumTotal * targetCount) * 100)
//
// This is not a plain average of per-target percentages and under-reports as
// targets are added even when all of them pass. Existing consumers depend on
// the exact value, so it is reproduced as-is; see DESIGN.md.
func Summarize(reports []TargetReport) Summary {
	s := Summary{
		PerTargetScore:      map[string]int{},
		UnsupportedByTarget: map[string][]string{},
		Reports:             reports,
	}

	unsupportedCount := map[string]int{}
	sumSupported, sumTotal, targetCount := 0, 0, 0

	for _, r := range reports {
		if r.Err != nil {
			continue
		}
		targetCount++
		s.PerTargetScore[r.Target] = r.Score
		s.UnsupportedByTarget[r.Target] = r.Unsupported
		sumSupported += len(r.Supported)
		sumTotal += len(r.Decisions)
		for _, f := range r.Unsupported {
			unsupportedCount[f]++
		}
	}

	if targetCount == 0 || sumTotal == 0 {
		s.OverallScore = 100
	} else {
		s.OverallScore = int(math.Round(float64(sumSupported) / float64(sumTotal*targetCount) * 100))
	}

	// Common means unsupported in every target, not just anywhere.
	for f, n := range unsupportedCount {
		if n == targetCount {
			s.CommonUnsupported = append(s.CommonUnsupported, f)
		}
	}
	sort.Strings(s.CommonUnsupported)

	return s
}
