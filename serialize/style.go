package serialize

import (
	"maps"
	"slices"
	"strings"

	"mjed/css"
)

// Keys (and their dash-suffixed variants) folded into style attribute of
// table tags.
var foldedPrefixes = []string{
	"border", "color", "background", "font", "line-height", "letter-spacing",
	"padding", "text-align", "text-decoration", "text-transform",
}

func isFolded(key string) bool {
	for _, p := range foldedPrefixes {
		if key == p || strings.HasPrefix(key, p+"-") {
			return true
		}
	}
	return false
}

// foldStyle returns copy of attrs where style-bearing keys are moved into
// single style attribute. Explicit style is kept verbatim in front, folded
// declarations follow sorted by key.
func foldStyle(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	var decls []css.Declaration
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		v := attrs[k]
		switch {
		case k == "style":
		case isFolded(k):
			if v != "" {
				decls = append(decls, css.Declaration{Name: k, Value: v})
			}
		default:
			out[k] = v
		}
	}
	parts := make([]string, 0, 2)
	if explicit := strings.TrimRight(strings.TrimSpace(attrs["style"]), "; "); explicit != "" {
		parts = append(parts, explicit)
	}
	if folded := css.FormatDeclarations(decls); folded != "" {
		parts = append(parts, folded)
	}
	if len(parts) > 0 {
		out["style"] = strings.Join(parts, ";")
	}
	return out
}
