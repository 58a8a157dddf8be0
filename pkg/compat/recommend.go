package compat

import (
	"sort"

	"github.com/canscope/canscope/pkg/knowledge"
)

// Severity thresholds on the overall score.
const (
	criticalBelow = 70
	warningBelow  = 90
)

// Advice is the remediation view of a summary.
type Advice struct {
	Level string // "critical", "warning" or "ok"
	Items []Recommendation
}

// Recommendation is one actionable item for an unsupported feature.
type Recommendation struct {
	Priority    string
	Feature     string
	Everywhere  bool // unsupported on every checked target
	Suggestion  string
	Polyfill    string
	Prefix      string
	DocLinks    []string
}

var priorityRank = map[string]int{"high": 0, "medium": 1, "low": 2}

// Recommend derives prioritized remediation advice from a summary. It is a
// pure function of the summary: same input, same output, no side effects.
func Recommend(s Summary) Advice {
	advice := Advice{Level: levelFor(s.OverallScore)}

	common := map[string]bool{}
	for _, f := range s.CommonUnsupported {
		common[f] = true
	}

	seen := map[string]bool{}
	var features []string
	for _, r := range s.Reports {
		if r.Err != nil {
			continue
		}
		for _, f := range r.Unsupported {
			if !seen[f] {
				seen[f] = true
				features = append(features, f)
			}
		}
	}

	sort.Slice(features, func(i, j int) bool {
		pi, pj := priorityRank[knowledge.Priority(features[i])], priorityRank[knowledge.Priority(features[j])]
		if pi != pj {
			return pi < pj
		}
		return features[i] < features[j]
	})

	for _, f := range features {
		rec := Recommendation{
			Priority:   knowledge.Priority(f),
			Feature:    f,
			Everywhere: common[f],
			DocLinks:   []string{"https://caniuse.com/" + f},
		}
		if alt, ok := knowledge.Alternative(f); ok {
			rec.Suggestion = alt
		}
		if pkg, ok := knowledge.PolyfillPackage(f); ok {
			rec.Polyfill = pkg
		}
		if pre, ok := knowledge.Prefix(f); ok {
			rec.Prefix = pre
		}
		advice.Items = append(advice.Items, rec)
	}

	return advice
}

func levelFor(score int) string {
	switch {
	case score < criticalBelow:
		return "critical"
	case score < warningBelow:
		return "warning"
	default:
		return "ok"
	}
}
