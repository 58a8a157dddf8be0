// Package knowledge holds the static remediation tables: alternatives,
// polyfill packages, vendor prefixes, priority ranking, and build-tool
// config templates. All tables are immutable keyed data; accessors only.
package knowledge

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/canscope/canscope/pkg/config"
)

var alternatives = map[string]string{
	"css-grid":             "provide a flexbox-based row/column layout fallback behind @supports",
	"flexbox":              "fall back to inline-block or table-cell layout for legacy engines",
	"flexbox-gap":          "use margins on flex children where gap is unavailable",
	"css-variables":        "compile custom properties away with a preprocessor for static themes",
	"css-sticky":           "emulate with position:fixed plus a scroll listener, or accept static positioning",
	"object-fit":           "use a background-image with background-size:cover on a wrapper element",
	"css-snappoints":       "degrade to free scrolling; snapping is an enhancement",
	"aspect-ratio":         "use the padding-top percentage trick on a wrapper",
	"css-containment":      "omit; contain is a performance hint, not a layout requirement",
	"fetch":                "use XMLHttpRequest or ship a fetch polyfill",
	"es6-module":           "bundle to a single script with a build step",
	"async-functions":      "transpile to generators/promises with a build step",
	"arrow-functions":      "transpile to function expressions with a build step",
	"bigint":               "use a userland big-integer library where exact width matters",
	"proxy":                "not polyfillable; redesign around explicit accessors",
	"shadowdomv1":          "scope styles by convention (BEM) instead of shadow roots",
	"custom-elementsv1":    "ship the webcomponents polyfill bundle",
	"intersectionobserver": "fall back to scroll/resize listeners with throttling",
	"resizeobserver":       "fall back to window resize listeners",
	"websockets":           "fall back to long polling",
	"serviceworkers":       "degrade gracefully; offline support is an enhancement",
}

var polyfillPackages = map[string]string{
	"fetch":                "whatwg-fetch",
	"promises":             "promise-polyfill",
	"intersectionobserver": "intersection-observer",
	"resizeobserver":       "resize-observer-polyfill",
	"abortcontroller":      "abortcontroller-polyfill",
	"urlsearchparams":      "url-search-params-polyfill",
	"custom-elementsv1":    "@webcomponents/custom-elements",
	"shadowdomv1":          "@webcomponents/shadydom",
	"namevalue-storage":    "localstorage-polyfill",
	"css-variables":        "css-vars-ponyfill",
	"object-fit":           "object-fit-images",
	"css-sticky":           "stickyfill",
	"css-snappoints":       "css-scroll-snap-polyfill",
}

var prefixes = map[string]string{
	"flexbox":        "-webkit-, -ms- (old syntax variants differ; let autoprefixer handle it)",
	"css-masks":      "-webkit-",
	"css-snappoints": "-ms- (legacy points syntax)",
	"transforms2d":   "-webkit-, -ms-",
	"css-sticky":     "-webkit- (older Safari)",
	"css-appearance": "-webkit-, -moz-",
	"calc":           "-webkit-, -moz- (very old engines only)",
}

// priority ranks how disruptive an unsupported feature usually is. Features
// not listed rank low.
var priority = map[string]string{
	"css-grid":          "high",
	"flexbox":           "high",
	"fetch":             "high",
	"promises":          "high",
	"es6-module":        "high",
	"async-functions":   "high",
	"arrow-functions":   "high",
	"websockets":        "high",
	"css-variables":     "medium",
	"css-sticky":        "medium",
	"object-fit":        "medium",
	"flexbox-gap":       "medium",
	"namevalue-storage": "medium",
	"urlsearchparams":   "medium",
	"abortcontroller":   "medium",
	"custom-elementsv1": "medium",
	"shadowdomv1":       "medium",
}

// Alternative returns the suggested fallback approach for a feature.
func Alternative(feature string) (string, bool) {
	s, ok := alternatives[feature]
	return s, ok
}

// PolyfillPackage returns the npm package that polyfills a feature.
func PolyfillPackage(feature string) (string, bool) {
	s, ok := polyfillPackages[feature]
	return s, ok
}

// Prefix returns vendor-prefix guidance for a feature.
func Prefix(feature string) (string, bool) {
	s, ok := prefixes[feature]
	return s, ok
}

// Priority returns the remediation priority bucket for a feature:
// "high", "medium" or "low".
func Priority(feature string) string {
	if p, ok := priority[feature]; ok {
		return p
	}
	return "low"
}

var buildTemplates = map[string]*template.Template{
	"browserslist": template.Must(template.New("browserslist").Parse(
		`{{range .}}{{.Browser}} >= {{.Version}}
{{end}}`)),
	"babel": template.Must(template.New("babel").Parse(
		`{
  "presets": [
    ["@babel/preset-env", {
      "targets": {
{{- range $i, $t := .}}{{if $i}},{{end}}
        "{{$t.Browser}}": "{{$t.Version}}"
{{- end}}
      },
      "useBuiltIns": "usage",
      "corejs": 3
    }]
  ]
}
`)),
	"postcss": template.Must(template.New("postcss").Parse(
		`module.exports = {
  plugins: [
    require("autoprefixer")({
      overrideBrowserslist: [
{{- range $i, $t := .}}{{if $i}},{{end}}
        "{{$t.Browser}} >= {{$t.Version}}"
{{- end}}
      ]
    })
  ]
};
`)),
}

// BuildTools lists the supported build-config template names.
func BuildTools() []string {
	return []string{"babel", "browserslist", "postcss"}
}

// BuildTemplate renders the named build-tool configuration for the resolved
// targets. Non-numeric versions ("latest") are rendered as-is; the consuming
// tool decides what to do with them.
func BuildTemplate(tool string, targets []config.BrowserVersion) (string, error) {
	tpl, ok := buildTemplates[tool]
	if !ok {
		return "", fmt.Errorf("unknown build tool %q (supported: %v)", tool, BuildTools())
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, targets); err != nil {
		return "", err
	}
	return buf.String(), nil
}
