package compat

import (
	"testing"

	"github.com/canscope/canscope/pkg/resolver"
)

func summaryWith(score int, unsupported ...string) Summary {
	return Summary{
		OverallScore: score,
		Reports: []TargetReport{
			{Target: "a", Unsupported: unsupported, Decisions: make([]resolver.Decision, len(unsupported))},
		},
		CommonUnsupported: unsupported,
	}
}

func TestRecommendLevels(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{69, "critical"},
		{70, "warning"},
		{89, "warning"},
		{90, "ok"},
		{100, "ok"},
	}
	for _, tc := range cases {
		if got := Recommend(summaryWith(tc.score)).Level; got != tc.want {
			t.Fatalf("score %d: got level %q want %q", tc.score, got, tc.want)
		}
	}
}

func TestRecommendPriorityOrdering(t *testing.T) {
	// css-containment ranks low, css-sticky medium, css-grid high.
	advice := Recommend(summaryWith(50, "css-containment", "css-sticky", "css-grid"))

	if len(advice.Items) != 3 {
		t.Fatalf("expected 3 items, got %+v", advice.Items)
	}
	order := []string{"css-grid", "css-sticky", "css-containment"}
	for i, want := range order {
		if advice.Items[i].Feature != want {
			t.Fatalf("item %d: got %s, want %s", i, advice.Items[i].Feature, want)
		}
	}
	if advice.Items[0].Priority != "high" {
		t.Fatalf("css-grid priority: %s", advice.Items[0].Priority)
	}
}

func TestRecommendCarriesRemediation(t *testing.T) {
	advice := Recommend(summaryWith(50, "fetch"))
	item := advice.Items[0]
	if item.Polyfill != "whatwg-fetch" {
		t.Fatalf("polyfill package: %q", item.Polyfill)
	}
	if item.Suggestion == "" {
		t.Fatal("expected an alternative suggestion for fetch")
	}
	if !item.Everywhere {
		t.Fatal("feature in CommonUnsupported must be flagged Everywhere")
	}
	if len(item.DocLinks) == 0 || item.DocLinks[0] != "https://caniuse.com/fetch" {
		t.Fatalf("doc links: %v", item.DocLinks)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	s := summaryWith(42, "css-sticky", "object-fit", "flexbox-gap")
	a, b := Recommend(s), Recommend(s)
	if len(a.Items) != len(b.Items) {
		t.Fatal("non-deterministic item count")
	}
	for i := range a.Items {
		if a.Items[i].Feature != b.Items[i].Feature {
			t.Fatal("non-deterministic ordering")
		}
	}
}

func TestRecommendNothingToFix(t *testing.T) {
	advice := Recommend(summaryWith(100))
	if advice.Level != "ok" || len(advice.Items) != 0 {
		t.Fatalf("clean summary should produce no items: %+v", advice)
	}
}
