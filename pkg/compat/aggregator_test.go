package compat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/canscope/canscope/pkg/caniuse"
	"github.com/canscope/canscope/pkg/config"
	"github.com/canscope/canscope/pkg/resolver"
)

func newFixtureAggregator(t *testing.T, configJSON string, payloads map[string]string) (*Aggregator, *config.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".canscope.json")
	if err := os.WriteFile(path, []byte(configJSON), 0644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}
	store := config.NewStore(path)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if payload, ok := payloads[r.URL.Path]; ok {
			w.Write([]byte(payload))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	client := caniuse.NewClient(caniuse.WithBaseURL(srv.URL))
	return New(store, resolver.New(store, client), 4), store
}

func TestScore(t *testing.T) {
	cases := []struct {
		supported, total, want int
	}{
		{0, 0, 100},  // vacuous full compliance
		{5, 5, 100},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tc := range cases {
		if got := Score(tc.supported, tc.total); got != tc.want {
			t.Fatalf("Score(%d, %d) = %d, want %d", tc.supported, tc.total, got, tc.want)
		}
	}
}

func TestCheckFeaturesForTargetPartitions(t *testing.T) {
	agg, _ := newFixtureAggregator(t, `{
		"polyfills": ["fetch"],
		"overrides": {"proxy": "unsupported"}
	}`, map[string]string{
		"/css-grid.json": `{"stats": {"chrome": {"57": "y"}}}`,
		"/fetch.json":    `{"stats": {"chrome": {"57": "n"}}}`,
		"/flexbox.json":  `{"stats": {"chrome": {"57": "n"}}}`,
	})

	features := []string{"css-grid", "fetch", "flexbox", "proxy", "broken-feature"}
	report := agg.CheckFeaturesForTarget(context.Background(), features, "chrome-57")

	for i, d := range report.Decisions {
		if d.Feature != features[i] {
			t.Fatalf("order not preserved at %d: got %s", i, d.Feature)
		}
	}

	assertSet := func(name string, got []string, want ...string) {
		if len(got) != len(want) {
			t.Fatalf("%s: got %v want %v", name, got, want)
		}
		have := map[string]bool{}
		for _, f := range got {
			have[f] = true
		}
		for _, f := range want {
			if !have[f] {
				t.Fatalf("%s: got %v want %v", name, got, want)
			}
		}
	}
	assertSet("supported", report.Supported, "css-grid", "fetch")
	assertSet("unsupported", report.Unsupported, "flexbox", "proxy", "broken-feature")
	assertSet("polyfilled", report.Polyfilled, "fetch")
	assertSet("overridden", report.Overridden, "proxy")
	assertSet("errored", report.Errored, "broken-feature")

	if report.Score != 40 {
		t.Fatalf("score: got %d want 40", report.Score)
	}
}

func TestCheckFeaturesForTargetOrderUnderConcurrency(t *testing.T) {
	payloads := map[string]string{}
	var features []string
	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("feature-%02d", i)
		features = append(features, id)
		payloads["/"+id+".json"] = `{"stats": {"chrome": {"57": "y"}}}`
	}
	agg, _ := newFixtureAggregator(t, `{}`, payloads)

	report := agg.CheckFeaturesForTarget(context.Background(), features, "chrome-57")
	for i, d := range report.Decisions {
		if d.Feature != features[i] {
			t.Fatalf("decision %d out of order: %s", i, d.Feature)
		}
	}
	if report.Score != 100 {
		t.Fatalf("score: got %d", report.Score)
	}
}

func TestCheckTargetsIsolatesFailures(t *testing.T) {
	agg, _ := newFixtureAggregator(t, `{}`, map[string]string{
		"/fetch.json": `{"stats": {"chrome": {"57": "y"}}}`,
	})

	reports := agg.CheckTargets(context.Background(), []string{"fetch"}, []string{"", "chrome-57"})
	if reports[0].Err == nil {
		t.Fatal("empty token should produce a per-target error entry")
	}
	if reports[1].Err != nil || reports[1].Score != 100 {
		t.Fatalf("second target must be unaffected: %+v", reports[1])
	}
}

func TestSummarizeOverallScoreNormalization(t *testing.T) {
	// Two targets, both fully supported on 2 features. A plain average would
	// be 100; the shipped normalization divides by target count as well:
	// round(4 / (4 * 2) * 100) = 50.
	reports := []TargetReport{
		{Target: "a", Supported: []string{"f1", "f2"}, Decisions: make([]resolver.Decision, 2), Score: 100},
		{Target: "b", Supported: []string{"f1", "f2"}, Decisions: make([]resolver.Decision, 2), Score: 100},
	}
	s := Summarize(reports)
	if s.OverallScore != 50 {
		t.Fatalf("overall normalization changed: got %d want 50", s.OverallScore)
	}
	if s.PerTargetScore["a"] != 100 || s.PerTargetScore["b"] != 100 {
		t.Fatalf("per-target scores: %v", s.PerTargetScore)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.OverallScore != 100 {
		t.Fatalf("empty summary must be vacuously compliant, got %d", s.OverallScore)
	}
}

func TestSummarizeCommonUnsupportedIntersection(t *testing.T) {
	mk := func(target string, unsupported ...string) TargetReport {
		return TargetReport{
			Target:      target,
			Unsupported: unsupported,
			Decisions:   make([]resolver.Decision, 3),
		}
	}

	// X unsupported in both a and b.
	s := Summarize([]TargetReport{
		mk("a", "x", "y"),
		mk("b", "x"),
	})
	if len(s.CommonUnsupported) != 1 || s.CommonUnsupported[0] != "x" {
		t.Fatalf("expected common unsupported [x], got %v", s.CommonUnsupported)
	}

	// A third target where X is supported removes it from the intersection.
	s = Summarize([]TargetReport{
		mk("a", "x", "y"),
		mk("b", "x"),
		mk("c"),
	})
	if len(s.CommonUnsupported) != 0 {
		t.Fatalf("expected empty intersection, got %v", s.CommonUnsupported)
	}
}

func TestSummarizeSkipsErroredTargets(t *testing.T) {
	s := Summarize([]TargetReport{
		{Target: "bad", Err: fmt.Errorf("boom")},
		{Target: "good", Supported: []string{"f"}, Decisions: make([]resolver.Decision, 1), Score: 100},
	})
	if _, ok := s.PerTargetScore["bad"]; ok {
		t.Fatal("errored target must not contribute a score")
	}
	if s.OverallScore != 100 {
		t.Fatalf("single healthy target: got %d", s.OverallScore)
	}
}
