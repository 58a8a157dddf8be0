package config

// layer is one source of configuration. Layers are merged in order, later
// layers taking precedence: defaults < persisted file < environment.
//
// Merge strategy per field type:
//   - scalars (DefaultBaseline): later non-empty value replaces
//   - lists (Polyfills, per-browser fallback lists): union, earlier order
//     preserved, duplicates dropped
//   - maps (CustomTargets, Overrides): union of keys, later layer wins per key
type layer struct {
	DefaultBaseline  string                    `json:"defaultBaseline,omitempty"`
	CustomTargets    map[string]BrowserVersion `json:"customTargets,omitempty"`
	Polyfills        []string                  `json:"polyfills,omitempty"`
	Overrides        map[string]string         `json:"overrides,omitempty"`
	BrowserFallbacks map[string][]string       `json:"browserFallbacks,omitempty"`
}

func defaultLayer() layer {
	return layer{
		DefaultBaseline: DefaultBaselineTarget,
	}
}

// mergeLayers folds the given layers into one EffectiveConfig. The built-in
// target table is always seeded first, so built-in targets survive whatever
// the file or environment says.
func mergeLayers(layers ...layer) *EffectiveConfig {
	cfg := &EffectiveConfig{
		Targets:          BuiltinTargets(),
		Overrides:        map[string]string{},
		BrowserFallbacks: map[string][]string{},
	}

	for _, l := range layers {
		if l.DefaultBaseline != "" {
			cfg.DefaultBaseline = l.DefaultBaseline
		}
		for name, bv := range l.CustomTargets {
			cfg.Targets[name] = bv
		}
		cfg.Polyfills = unionStrings(cfg.Polyfills, l.Polyfills)
		for feature, status := range l.Overrides {
			cfg.Overrides[feature] = status
		}
		for browser, versions := range l.BrowserFallbacks {
			cfg.BrowserFallbacks[browser] = unionStrings(cfg.BrowserFallbacks[browser], versions)
		}
	}

	return cfg
}

// unionStrings appends the items of b not already in a, preserving order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	out := a
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
