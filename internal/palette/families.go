// Package palette builds the ordered color sequences the emitter layer
// cycles through: family tables of named hues, a sequence builder that
// orients segments for minimum adjacent hue distance, the four recognized
// cycle modes, and per-brand palette configuration overrides (spec.md
// §4.7/§6).
package palette

import "github.com/cybre/reactive-light-engine/internal/colormath"

// Family is a named group of twelve related hues.
type Family string

const (
	FamilyRed   Family = "red"
	FamilyGreen Family = "green"
	FamilyBlue  Family = "blue"
)

// FamilyAliases maps the friendlier names a caller (CLI flag, env var) may
// use onto the concrete Family key.
var FamilyAliases = map[string]Family{
	"warm":    FamilyRed,
	"hot":     FamilyRed,
	"natural": FamilyGreen,
	"earthy":  FamilyGreen,
	"cool":    FamilyBlue,
	"cold":    FamilyBlue,
}

// ResolveFamily resolves a family name or alias, returning ok=false for
// anything unrecognized.
func ResolveFamily(name string) (Family, bool) {
	switch Family(name) {
	case FamilyRed, FamilyGreen, FamilyBlue:
		return Family(name), true
	}
	if f, ok := FamilyAliases[name]; ok {
		return f, true
	}
	return "", false
}

func hsv(h, s, v float64) colormath.HSV { return colormath.HSV{H: h, S: s, V: v} }

// Families is the static table of twelve named hues per family, ordered
// the way the reference swatches list them (not pre-sorted for
// contrast — the sequence builder's segment orientation handles that).
var Families = map[Family][]colormath.HSV{
	FamilyRed: {
		hsv(0, 0.95, 1.0),    // red
		hsv(8, 0.9, 1.0),     // scarlet
		hsv(348, 0.85, 0.95), // crimson
		hsv(355, 0.7, 1.0),   // rose
		hsv(14, 0.95, 0.9),   // vermillion
		hsv(345, 0.6, 1.0),   // salmon-pink
		hsv(18, 1.0, 0.85),   // rust
		hsv(330, 0.8, 0.95),  // magenta-red
		hsv(5, 1.0, 1.0),     // fire-engine
		hsv(352, 0.9, 0.8),   // maroon
		hsv(12, 0.75, 1.0),   // coral
		hsv(340, 0.95, 0.9),  // ruby
	},
	FamilyGreen: {
		hsv(120, 0.9, 0.9),  // green
		hsv(100, 0.8, 0.95), // chartreuse-green
		hsv(140, 0.85, 0.85), // emerald
		hsv(90, 0.7, 1.0),   // lime
		hsv(150, 0.75, 0.8), // jade
		hsv(110, 0.95, 0.75), // forest
		hsv(160, 0.6, 0.95), // mint
		hsv(80, 0.9, 0.85),  // olive-lime
		hsv(130, 0.65, 1.0), // spring-green
		hsv(95, 1.0, 0.7),   // moss
		hsv(145, 0.9, 0.95), // sea-green
		hsv(105, 0.55, 0.9), // sage
	},
	FamilyBlue: {
		hsv(220, 0.9, 0.95),  // blue
		hsv(200, 0.85, 1.0),  // azure
		hsv(240, 0.8, 0.9),   // indigo-blue
		hsv(190, 0.95, 0.85), // cyan-blue
		hsv(260, 0.7, 0.95),  // violet-blue
		hsv(210, 1.0, 0.8),   // sapphire
		hsv(230, 0.6, 1.0),   // periwinkle
		hsv(180, 0.9, 0.9),   // teal
		hsv(250, 0.85, 0.85), // royal
		hsv(205, 0.75, 0.95), // cerulean
		hsv(245, 0.95, 0.75), // cobalt
		hsv(195, 0.65, 1.0),  // sky
	},
}
