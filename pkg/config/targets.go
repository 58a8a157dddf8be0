package config

// BrowserVersion pairs a browser identifier with a version string. The
// version is kept as a string because support data uses non-numeric versions
// ("latest", "TP") and ranged versions ("10.0-10.2") alongside plain numbers.
type BrowserVersion struct {
	Browser string `json:"browser"`
	Version string `json:"version"`
}

// DefaultBaselineTarget is the target assumed when nothing else is
// configured. It tracks the oldest Android System WebView still in the wild.
const DefaultBaselineTarget = "webview-baseline"

// hardFallback is the absolute last resort of target resolution; it
// guarantees ResolveTarget always produces a usable pair.
var hardFallback = BrowserVersion{Browser: "chrome", Version: "37"}

// builtinTargets is the immutable table of named targets that ship with the
// tool. Custom targets from config are merged on top of these; the builtins
// themselves are always present.
var builtinTargets = map[string]BrowserVersion{
	"webview-baseline": {Browser: "chrome", Version: "37"},
	"chrome-latest":    {Browser: "chrome", Version: "latest"},
	"firefox-latest":   {Browser: "firefox", Version: "latest"},
	"safari-12":        {Browser: "safari", Version: "12"},
	"edge-18":          {Browser: "edge", Version: "18"},
	"ios-safari-10":    {Browser: "ios_saf", Version: "10.0-10.2"},
	"samsung-4":        {Browser: "samsung", Version: "4"},
}

// BuiltinTargets returns a copy of the built-in target table.
func BuiltinTargets() map[string]BrowserVersion {
	out := make(map[string]BrowserVersion, len(builtinTargets))
	for k, v := range builtinTargets {
		out[k] = v
	}
	return out
}
