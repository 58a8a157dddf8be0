package scanner

import "regexp"

// Rule associates a feature id (matching the support-data ids) with the
// regular expressions that betray its use in source text. A file counts as
// using the feature as soon as any one pattern matches.
type Rule struct {
	Feature  string
	Patterns []*regexp.Regexp
}

func rx(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// scriptRules is the detection bank for script-like files (.js .jsx .ts .tsx).
var scriptRules = []Rule{
	{"fetch", rx(`\bfetch\s*\(`)},
	{"promises", rx(`\bnew\s+Promise\b`, `\bPromise\.(all|allSettled|race|resolve|reject)\b`)},
	{"async-functions", rx(`\basync\s+function\b`, `\basync\s*\(`, `\bawait\s`)},
	{"arrow-functions", rx(`=>`)},
	{"es6-module", rx(`(?m)^\s*import\s[^;]*from\s+['"]`, `(?m)^\s*export\s+(default|const|let|var|function|class)\b`)},
	{"proxy", rx(`\bnew\s+Proxy\s*\(`)},
	{"intersectionobserver", rx(`\bnew\s+IntersectionObserver\b`)},
	{"resizeobserver", rx(`\bnew\s+ResizeObserver\b`)},
	{"websockets", rx(`\bnew\s+WebSocket\s*\(`)},
	{"serviceworkers", rx(`navigator\.serviceWorker`)},
	{"namevalue-storage", rx(`\b(localStorage|sessionStorage)\s*[.\[]`)},
	{"abortcontroller", rx(`\bnew\s+AbortController\b`, `\bAbortSignal\b`)},
	{"urlsearchparams", rx(`\bnew\s+URLSearchParams\b`)},
	{"custom-elementsv1", rx(`customElements\.define\s*\(`)},
	{"shadowdomv1", rx(`\.attachShadow\s*\(`)},
	{"bigint", rx(`\bBigInt\s*\(`, `\b\d+n\b`)},
	{"webgl", rx(`getContext\s*\(\s*['"]webgl`)},
}

// styleRules is the detection bank for style-like files (.css .scss .sass .less).
var styleRules = []Rule{
	{"css-grid", rx(`display\s*:\s*(inline-)?grid\b`, `\bgrid-template`)},
	{"flexbox", rx(`display\s*:\s*(inline-)?flex\b`, `\bflex-direction\s*:`)},
	{"css-variables", rx(`--[A-Za-z][\w-]*\s*:`, `\bvar\(\s*--`)},
	{"css-sticky", rx(`position\s*:\s*sticky\b`)},
	{"object-fit", rx(`\bobject-fit\s*:`)},
	{"css-masks", rx(`(?:-webkit-)?mask(?:-image)?\s*:`)},
	{"css-snappoints", rx(`\bscroll-snap-`)},
	{"border-radius", rx(`\bborder-radius\s*:`)},
	{"transforms2d", rx(`\btransform\s*:`)},
	{"css-transitions", rx(`\btransition(?:-property|-duration)?\s*:`)},
	{"css-animation", rx(`\banimation(?:-name)?\s*:`, `@keyframes\b`)},
	{"calc", rx(`\bcalc\(`)},
	{"css-supports-api", rx(`@supports\b`)},
	{"css-appearance", rx(`\bappearance\s*:`)},
	{"css-containment", rx(`\bcontain\s*:`)},
	{"flexbox-gap", rx(`\bgap\s*:`)},
	{"aspect-ratio", rx(`\baspect-ratio\s*:`)},
}
