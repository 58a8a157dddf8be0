// Package resolver composes configuration (overrides, polyfills, fallback
// versions) with fetched support matrices into a single support decision per
// feature/target pair.
package resolver

import (
	"context"
	"fmt"

	"github.com/canscope/canscope/pkg/caniuse"
	"github.com/canscope/canscope/pkg/config"
)

// Kind classifies a decision.
type Kind string

const (
	KindFull             Kind = "full"
	KindPartial          Kind = "partial"
	KindNone             Kind = "none"
	KindDisabled         Kind = "disabled"
	KindPolyfillRequired Kind = "polyfill-required"
	KindUnknown          Kind = "unknown"
	KindOverride         Kind = "override"
	KindOverrideDisabled Kind = "override-disabled"
	KindPolyfilled       Kind = "polyfilled"
	KindError            Kind = "error"
)

// Provenance records which rule produced the decision. Exactly one wins, in
// priority order override > polyfill > data > error.
type Provenance string

const (
	FromOverride Provenance = "config-override"
	FromData     Provenance = "caniuse-data"
	FromPolyfill Provenance = "polyfill"
	FromError    Provenance = "error"
)

// Decision is the outcome of resolving one feature against one target.
// Original holds the pre-upgrade decision when a polyfill reclassified an
// unsupported feature as supported.
type Decision struct {
	Feature     string
	Browser     string
	Version     string
	Supported   bool
	Kind        Kind
	Description string
	Provenance  Provenance
	Original    *Decision
}

// codeStatus maps normalized support codes onto decision shapes.
var codeStatus = map[string]struct {
	kind      Kind
	supported bool
	desc      string
}{
	caniuse.CodeFull:     {KindFull, true, "fully supported"},
	caniuse.CodePartial:  {KindPartial, true, "partially supported; verify the subfeatures you rely on"},
	caniuse.CodeNone:     {KindNone, false, "not supported"},
	caniuse.CodeDisabled: {KindDisabled, false, "disabled by default; requires a user-enabled flag"},
	caniuse.CodePolyfill: {KindPolyfillRequired, false, "not supported natively; a polyfill is required"},
	caniuse.CodeUnknown:  {KindUnknown, false, "support status unknown"},
}

// Resolver produces support decisions. It never returns an error: every
// failure mode is folded into the returned Decision.
type Resolver struct {
	store  *config.Store
	client *caniuse.Client
}

func New(store *config.Store, client *caniuse.Client) *Resolver {
	return &Resolver{store: store, client: client}
}

// Resolve decides whether a feature is usable on the given target.
// Precedence: config override, then polyfill upgrade, then raw support data,
// then error capture.
func (r *Resolver) Resolve(ctx context.Context, feature string, target config.BrowserVersion) Decision {
	// Overrides short-circuit everything, including data fetch.
	if status, ok := r.store.Override(feature); ok {
		if status == config.OverrideSupported {
			return Decision{
				Feature: feature, Browser: target.Browser, Version: target.Version,
				Supported:   true,
				Kind:        KindOverride,
				Description: "forced supported by configuration override",
				Provenance:  FromOverride,
			}
		}
		return Decision{
			Feature: feature, Browser: target.Browser, Version: target.Version,
			Supported:   false,
			Kind:        KindOverrideDisabled,
			Description: "forced unsupported by configuration override",
			Provenance:  FromOverride,
		}
	}

	dec := r.rawDecision(ctx, feature, target)

	// Declared polyfills upgrade any unsupported outcome, keeping the raw
	// decision attached for transparency.
	if !dec.Supported && r.store.IsPolyfilled(feature) {
		original := dec
		return Decision{
			Feature: feature, Browser: target.Browser, Version: target.Version,
			Supported:   true,
			Kind:        KindPolyfilled,
			Description: "unsupported natively, but a polyfill is configured",
			Provenance:  FromPolyfill,
			Original:    &original,
		}
	}

	return dec
}

func (r *Resolver) rawDecision(ctx context.Context, feature string, target config.BrowserVersion) Decision {
	feat, err := r.client.Feature(ctx, feature)
	if err != nil {
		return Decision{
			Feature: feature, Browser: target.Browser, Version: target.Version,
			Supported:   false,
			Kind:        KindError,
			Description: fmt.Sprintf("could not retrieve support data: %v", err),
			Provenance:  FromError,
		}
	}

	code, ok := caniuse.VersionSupportCode(feat.Matrix, target.Browser, target.Version, r.store.FallbackVersions(target.Browser))
	if !ok {
		return Decision{
			Feature: feature, Browser: target.Browser, Version: target.Version,
			Supported:   false,
			Kind:        KindUnknown,
			Description: fmt.Sprintf("no support data for %s %s", target.Browser, target.Version),
			Provenance:  FromData,
		}
	}

	status, mapped := codeStatus[code]
	if !mapped {
		status = codeStatus[caniuse.CodeUnknown]
	}
	return Decision{
		Feature: feature, Browser: target.Browser, Version: target.Version,
		Supported:   status.supported,
		Kind:        status.kind,
		Description: status.desc,
		Provenance:  FromData,
	}
}
