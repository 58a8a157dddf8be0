package caniuse

import (
	"sort"
	"strings"

	"github.com/canscope/canscope/internal/utils"
)

// SupportMatrix maps browser id -> version string -> one-character support
// code. Sourced externally; sparse for most browser/version combinations.
type SupportMatrix map[string]map[string]string

// Support codes as they appear in the data source.
const (
	CodeFull     = "y"
	CodePartial  = "a"
	CodeNone     = "n"
	CodePolyfill = "p"
	CodeUnknown  = "u"
	CodeDisabled = "d"
)

// NormalizeCode reduces a raw support cell to its one-character code. Cells
// may carry flag suffixes ("a x" for prefixed, "n d" for behind a flag, or
// note markers like "y #2"); the leading letter is the support class.
func NormalizeCode(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return raw[:1]
}

// VersionSupportCode resolves the support code for a browser/version pair
// out of a sparse matrix. The resolution order is fixed:
//
//  1. exact version key
//  2. each configured fallback version, in order
//  3. the greatest numeric version <= the target (skipped entirely when the
//     target version itself is non-numeric)
//  4. the lowest numeric version present for the browser
//
// Preferring data for older compatible versions over no data at all is
// deliberate: support is usually monotonic with version. Returns false when
// nothing matches; callers treat that as no support data.
func VersionSupportCode(m SupportMatrix, browser, version string, fallbacks []string) (string, bool) {
	versions := m[browser]
	if len(versions) == 0 {
		return "", false
	}

	if code, ok := versions[version]; ok {
		return NormalizeCode(code), true
	}

	for _, fb := range fallbacks {
		if code, ok := versions[fb]; ok {
			utils.Log.Debugf("No %s %s data, using fallback version %s", browser, version, fb)
			return NormalizeCode(code), true
		}
	}

	target, ok := utils.VersionNumber(version)
	if !ok {
		// Non-numeric target ("latest"): the closest-version heuristic has
		// no ordering to work with, so it is skipped.
		return "", false
	}

	type numbered struct {
		key string
		num float64
	}
	var candidates []numbered
	for key := range versions {
		if n, ok := utils.VersionNumber(key); ok {
			candidates = append(candidates, numbered{key: key, num: n})
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].num < candidates[j].num })

	best := ""
	for _, c := range candidates {
		if c.num <= target {
			best = c.key
		} else {
			break
		}
	}
	if best == "" {
		// Nothing at or below the target: the lowest known version is still
		// better than reporting nothing.
		best = candidates[0].key
	}

	utils.Log.Debugf("No %s %s data, using closest version %s", browser, version, best)
	return NormalizeCode(versions[best]), true
}
