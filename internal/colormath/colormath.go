// Package colormath holds the small numeric primitives the reactive core
// leans on for every color decision: clamping, interpolation, hue distance,
// and the contrast/saturation shaping the palette engine needs.
package colormath

import (
	"math"

	"github.com/crazy3lf/colorconv"

	"github.com/cybre/reactive-light-engine/internal/utils"
)

// RGB is an 8-bit-per-channel color, the wire representation WizIntent uses.
type RGB struct {
	R, G, B uint8
}

// HSV is a hue/saturation/value triple. Hue is in degrees [0, 360).
type HSV struct {
	H, S, V float64
}

// Lerp linearly interpolates between a and b by t (not clamped; callers
// that need a clamped blend should clamp t themselves).
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// HSVToRGB converts an HSV triple (H in degrees, S/V in [0,1]) to RGB.
// Out-of-range inputs are clamped before conversion since colorconv errors
// on saturation/value outside [0,1].
func HSVToRGB(c HSV) RGB {
	s := utils.Clamp(c.S, 0.0, 1.0)
	v := utils.Clamp(c.V, 0.0, 1.0)
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return RGB{}
	}
	return RGB{R: r, G: g, B: b}
}

// RGBToHSV converts an RGB color back to HSV.
func RGBToHSV(c RGB) HSV {
	h, s, v := colorconv.RGBToHSV(c.R, c.G, c.B)
	return HSV{H: h, S: s, V: v}
}

// Hue16 maps a 0-360 degree hue into the 16-bit hue space ([0, 65535]) the
// Hue stream's wire format uses.
func Hue16(degrees float64) uint16 {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	return uint16(math.Round(degrees / 360 * 65535))
}

// HueDistance returns the shortest angular distance between two hues given
// in degrees, always in [0, 180].
func HueDistance(a, b float64) float64 {
	delta := math.Mod(math.Abs(a-b), 360)
	if delta > 180 {
		delta = 360 - delta
	}
	return delta
}

// HueDistance16 is HueDistance for 16-bit hue values.
func HueDistance16(a, b uint16) float64 {
	da := float64(a) / 65535 * 360
	db := float64(b) / 65535 * 360
	return HueDistance(da, db)
}

// SaturationBoost nudges a saturation value toward full saturation by
// amount (0..1), never exceeding 1.
func SaturationBoost(s, amount float64) float64 {
	amount = utils.Clamp(amount, 0.0, 1.0)
	return utils.Clamp(s+(1-s)*amount, 0.0, 1.0)
}

// EnforceMinSaturation raises s to floor if it falls under it, leaving
// already-saturated colors untouched.
func EnforceMinSaturation(s, floor float64) float64 {
	if s < floor {
		return floor
	}
	return s
}

// ContrastNormalize recenters a set of HSV colors' values on target:
// each value keeps its offset from the set's mean, clamped to
// [-spread/2, spread/2], and the result is clamped to [0,1]. Hue and
// saturation are left unchanged.
func ContrastNormalize(colors []HSV, target, spread float64) []HSV {
	if len(colors) == 0 {
		return colors
	}
	mean := 0.0
	for _, c := range colors {
		mean += c.V
	}
	mean /= float64(len(colors))

	out := make([]HSV, len(colors))
	half := spread / 2
	for i, c := range colors {
		delta := c.V - mean
		out[i] = HSV{
			H: c.H,
			S: c.S,
			V: utils.Clamp(target+utils.Clamp(delta, -half, half), 0.0, 1.0),
		}
	}
	return out
}

// ReorderByContrast permutes the input colors to (locally) minimize the
// total hue distance between adjacent entries plus the wrap-around
// (cyclic) transition, by exhaustively trying every rotation and both
// directions of each fixed-size segment. Intended for small segments (a
// handful of colors per family) where O(2n) candidates is trivial.
//
// For inputs with more than one segment this should be called per-segment
// by the caller (internal/palette orients each family segment
// independently before concatenation); ReorderByContrast itself treats its
// whole input as one segment.
func ReorderByContrast(colors []HSV) []HSV {
	if len(colors) < 3 {
		return append([]HSV(nil), colors...)
	}

	best := append([]HSV(nil), colors...)
	bestCost := segmentCost(best)

	n := len(colors)
	for rotation := 0; rotation < n; rotation++ {
		rotated := rotate(colors, rotation)
		for _, candidate := range [][]HSV{rotated, reverse(rotated)} {
			cost := segmentCost(candidate)
			if cost < bestCost {
				bestCost = cost
				best = candidate
			}
		}
	}
	return best
}

func segmentCost(colors []HSV) float64 {
	total := 0.0
	for i := 1; i < len(colors); i++ {
		total += HueDistance(colors[i-1].H, colors[i].H)
	}
	if len(colors) > 1 {
		total += HueDistance(colors[len(colors)-1].H, colors[0].H)
	}
	return total
}

func rotate(colors []HSV, by int) []HSV {
	n := len(colors)
	out := make([]HSV, n)
	for i := range colors {
		out[i] = colors[(i+by)%n]
	}
	return out
}

func reverse(colors []HSV) []HSV {
	out := make([]HSV, len(colors))
	for i, c := range colors {
		out[len(out)-1-i] = c
	}
	return out
}
