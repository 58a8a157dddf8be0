// Package config resolves the effective compatibility configuration from
// three layered sources (built-in defaults, a project-local JSON file, and
// environment variables) and turns human-readable target tokens into
// browser/version pairs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/canscope/canscope/internal/utils"
)

// DefaultConfigFile is the project-relative path of the persisted config.
const DefaultConfigFile = ".canscope.json"

// Environment variable names recognized on top of the persisted file.
const (
	EnvBaseline  = "CANSCOPE_BASELINE"
	EnvPolyfills = "CANSCOPE_POLYFILLS"
	EnvOverrides = "CANSCOPE_OVERRIDES"
)

// Override statuses a user may force for a feature.
const (
	OverrideSupported   = "supported"
	OverrideUnsupported = "unsupported"
)

// EffectiveConfig is the merged result of all configuration layers.
type EffectiveConfig struct {
	DefaultBaseline  string
	Targets          map[string]BrowserVersion
	Polyfills        []string
	Overrides        map[string]string
	BrowserFallbacks map[string][]string
}

// Store owns the persisted config file and a lazily-loaded cache of the
// merged EffectiveConfig. Reads are cheap after the first Load; Mutate
// persists the file layer and invalidates the cache.
//
// Concurrent reads are safe. Concurrent Mutate calls from multiple processes
// are serialized with a file lock; within one process callers must not
// mutate from several goroutines at once.
type Store struct {
	path string

	mu     sync.Mutex
	cached *EffectiveConfig
}

// NewStore creates a store over the given config path. An empty path uses
// DefaultConfigFile in the current directory.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultConfigFile
	}
	return &Store{path: path}
}

// Path returns the persisted config file location.
func (s *Store) Path() string { return s.path }

// Load returns the effective configuration, merging defaults, the persisted
// file and environment overrides. The result is cached until Mutate
// invalidates it. Load never fails: a missing or malformed file degrades to
// defaults with a logged warning.
func (s *Store) Load() *EffectiveConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		s.cached = mergeLayers(defaultLayer(), s.fileLayer(), envLayer())
	}
	return s.cached
}

// invalidate drops the cached config so the next Load re-merges.
func (s *Store) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// fileLayer reads the persisted JSON config. Absence is not an error;
// malformed content is logged and treated as empty.
func (s *Store) fileLayer() layer {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			utils.Log.Warnf("Could not read config file %s: %v (using defaults)", s.path, err)
		}
		return layer{}
	}
	var l layer
	if err := json.Unmarshal(raw, &l); err != nil {
		utils.Log.Warnf("Malformed config file %s: %v (using defaults)", s.path, err)
		return layer{}
	}
	return l
}

// envLayer builds the highest-precedence layer from environment variables.
func envLayer() layer {
	var l layer

	l.DefaultBaseline = strings.TrimSpace(os.Getenv(EnvBaseline))

	if raw := os.Getenv(EnvPolyfills); raw != "" {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			l.Polyfills = list
		} else {
			for _, item := range strings.Split(raw, ",") {
				if item = strings.TrimSpace(item); item != "" {
					l.Polyfills = append(l.Polyfills, item)
				}
			}
		}
	}

	if raw := os.Getenv(EnvOverrides); raw != "" {
		var m map[string]string
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			utils.Log.Warnf("Ignoring %s: not a JSON object: %v", EnvOverrides, err)
		} else {
			l.Overrides = m
		}
	}

	return l
}

// ResolveTarget turns a target token into a browser/version pair. It never
// fails: (1) named targets win, (2) "<browser>-<version>" tokens are split on
// the first hyphen and used verbatim, (3) the configured default baseline is
// resolved, (4) a fixed chrome/37 pair is the final fallback.
func (s *Store) ResolveTarget(token string) BrowserVersion {
	cfg := s.Load()
	if bv, ok := resolveOnce(cfg, token); ok {
		return bv
	}
	if bv, ok := resolveOnce(cfg, cfg.DefaultBaseline); ok {
		return bv
	}
	return hardFallback
}

func resolveOnce(cfg *EffectiveConfig, token string) (BrowserVersion, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return BrowserVersion{}, false
	}
	if bv, ok := cfg.Targets[token]; ok {
		return bv, true
	}
	// Pattern form: browser-version, split on the first hyphen. The pair is
	// used verbatim even if the browser is unknown; the matrix lookup will
	// simply find no data for it.
	if i := strings.Index(token, "-"); i > 0 && i < len(token)-1 {
		return BrowserVersion{Browser: token[:i], Version: token[i+1:]}, true
	}
	return BrowserVersion{}, false
}

// FallbackVersions returns the configured fallback version list for a
// browser, in configured order.
func (s *Store) FallbackVersions(browser string) []string {
	return s.Load().BrowserFallbacks[browser]
}

// IsPolyfilled reports whether a feature is declared polyfilled.
func (s *Store) IsPolyfilled(feature string) bool {
	for _, f := range s.Load().Polyfills {
		if f == feature {
			return true
		}
	}
	return false
}

// Override returns the forced support status for a feature, if any.
func (s *Store) Override(feature string) (string, bool) {
	v, ok := s.Load().Overrides[feature]
	return v, ok
}

// Patch describes a mutation of the persisted config layer. Zero-valued
// fields are left untouched.
type Patch struct {
	DefaultBaseline string
	AddTargets      map[string]BrowserVersion
	AddPolyfills    []string
	RemovePolyfills []string
	SetOverrides    map[string]string
	ClearOverrides  []string
	SetFallbacks    map[string][]string
}

func (p Patch) empty() bool {
	return p.DefaultBaseline == "" &&
		len(p.AddTargets) == 0 &&
		len(p.AddPolyfills) == 0 &&
		len(p.RemovePolyfills) == 0 &&
		len(p.SetOverrides) == 0 &&
		len(p.ClearOverrides) == 0 &&
		len(p.SetFallbacks) == 0
}

// Mutate applies a patch to the persisted file layer, writes it back, and
// returns the freshly reloaded effective config. Unlike Load, usage errors
// here are hard errors: an empty patch or an invalid override status
// indicates a caller mistake, not environmental flakiness.
func (s *Store) Mutate(patch Patch) (*EffectiveConfig, error) {
	if patch.empty() {
		return nil, fmt.Errorf("config mutation requires at least one change")
	}
	for feature, status := range patch.SetOverrides {
		if status != OverrideSupported && status != OverrideUnsupported {
			return nil, fmt.Errorf("invalid override status %q for feature %q (want %q or %q)",
				status, feature, OverrideSupported, OverrideUnsupported)
		}
	}

	lock := utils.NewConfigLock(s.path)
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	l := s.fileLayer()
	applyPatch(&l, patch)

	raw, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.path, append(raw, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("persisting config: %w", err)
	}

	s.invalidate()
	return s.Load(), nil
}

func applyPatch(l *layer, patch Patch) {
	if patch.DefaultBaseline != "" {
		l.DefaultBaseline = patch.DefaultBaseline
	}
	if len(patch.AddTargets) > 0 {
		if l.CustomTargets == nil {
			l.CustomTargets = map[string]BrowserVersion{}
		}
		for name, bv := range patch.AddTargets {
			l.CustomTargets[name] = bv
		}
	}
	l.Polyfills = unionStrings(l.Polyfills, patch.AddPolyfills)
	if len(patch.RemovePolyfills) > 0 {
		drop := make(map[string]bool, len(patch.RemovePolyfills))
		for _, f := range patch.RemovePolyfills {
			drop[f] = true
		}
		kept := l.Polyfills[:0]
		for _, f := range l.Polyfills {
			if !drop[f] {
				kept = append(kept, f)
			}
		}
		l.Polyfills = kept
	}
	if len(patch.SetOverrides) > 0 {
		if l.Overrides == nil {
			l.Overrides = map[string]string{}
		}
		for feature, status := range patch.SetOverrides {
			l.Overrides[feature] = status
		}
	}
	for _, feature := range patch.ClearOverrides {
		delete(l.Overrides, feature)
	}
	if len(patch.SetFallbacks) > 0 {
		if l.BrowserFallbacks == nil {
			l.BrowserFallbacks = map[string][]string{}
		}
		for browser, versions := range patch.SetFallbacks {
			l.BrowserFallbacks[browser] = versions
		}
	}
}
