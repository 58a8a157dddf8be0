package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genLayer() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "safari-12", "edge-18", "chrome-90"),
		gen.SliceOf(gen.OneConstOf("fetch", "promises", "css-grid", "flexbox")),
		gen.MapOf(gen.Identifier(), gen.OneConstOf(OverrideSupported, OverrideUnsupported)),
	).Map(func(values []interface{}) layer {
		return layer{
			DefaultBaseline: values[0].(string),
			Polyfills:       values[1].([]string),
			Overrides:       values[2].(map[string]string),
		}
	})
}

func TestMergeScalarReplaceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("last non-empty baseline wins", prop.ForAll(
		func(a, b layer) bool {
			cfg := mergeLayers(defaultLayer(), a, b)
			switch {
			case b.DefaultBaseline != "":
				return cfg.DefaultBaseline == b.DefaultBaseline
			case a.DefaultBaseline != "":
				return cfg.DefaultBaseline == a.DefaultBaseline
			default:
				return cfg.DefaultBaseline == DefaultBaselineTarget
			}
		},
		genLayer(), genLayer(),
	))

	properties.TestingRun(t)
}

func TestMergeListUnionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("polyfill union has no duplicates", prop.ForAll(
		func(a, b layer) bool {
			cfg := mergeLayers(defaultLayer(), a, b)
			seen := map[string]bool{}
			for _, f := range cfg.Polyfills {
				if seen[f] {
					return false
				}
				seen[f] = true
			}
			return true
		},
		genLayer(), genLayer(),
	))

	properties.Property("every layer's polyfills survive the merge", prop.ForAll(
		func(a, b layer) bool {
			cfg := mergeLayers(defaultLayer(), a, b)
			have := map[string]bool{}
			for _, f := range cfg.Polyfills {
				have[f] = true
			}
			for _, f := range append(a.Polyfills, b.Polyfills...) {
				if !have[f] {
					return false
				}
			}
			return true
		},
		genLayer(), genLayer(),
	))

	properties.TestingRun(t)
}

func TestMergeMapUnionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("later layer wins per override key, earlier keys kept", prop.ForAll(
		func(a, b layer) bool {
			cfg := mergeLayers(defaultLayer(), a, b)
			for k, v := range b.Overrides {
				if cfg.Overrides[k] != v {
					return false
				}
			}
			for k, v := range a.Overrides {
				if _, shadowed := b.Overrides[k]; shadowed {
					continue
				}
				if cfg.Overrides[k] != v {
					return false
				}
			}
			return true
		},
		genLayer(), genLayer(),
	))

	properties.Property("builtin targets survive any layers", prop.ForAll(
		func(a, b layer) bool {
			cfg := mergeLayers(defaultLayer(), a, b)
			for name := range builtinTargets {
				if _, ok := cfg.Targets[name]; !ok {
					return false
				}
			}
			return true
		},
		genLayer(), genLayer(),
	))

	properties.TestingRun(t)
}

func TestMergeFallbackListOrder(t *testing.T) {
	a := layer{BrowserFallbacks: map[string][]string{"chrome": {"57", "40"}}}
	b := layer{BrowserFallbacks: map[string][]string{"chrome": {"40", "37"}}}

	cfg := mergeLayers(defaultLayer(), a, b)
	got := cfg.BrowserFallbacks["chrome"]
	want := []string{"57", "40", "37"}
	if len(got) != len(want) {
		t.Fatalf("fallback union: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fallback order: got %v want %v", got, want)
		}
	}
}
