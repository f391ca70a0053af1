package palette

import (
	"math"

	"github.com/cybre/reactive-light-engine/internal/colormath"
)

// pickEvenly samples count colors from a 12-entry family table at evenly
// spaced indices, so a short sequence still spans the family's hue range
// instead of clustering at the front of the table.
func pickEvenly(table []colormath.HSV, count int) []colormath.HSV {
	if count <= 0 || len(table) == 0 {
		return nil
	}
	if count >= len(table) {
		out := make([]colormath.HSV, len(table))
		copy(out, table)
		return out
	}
	out := make([]colormath.HSV, count)
	n := len(table)
	for i := 0; i < count; i++ {
		idx := i * n / count
		out[i] = table[idx]
	}
	return out
}

// vibrancyTune applies the sequence's vibrancy (saturation boost amount)
// and minimum-saturation floor to every color in place-semantics (new
// slice returned, input untouched).
func vibrancyTune(colors []colormath.HSV, vibrancy, minSaturation float64) []colormath.HSV {
	out := make([]colormath.HSV, len(colors))
	for i, c := range colors {
		s := colormath.SaturationBoost(c.S, vibrancy)
		s = colormath.EnforceMinSaturation(s, minSaturation)
		out[i] = colormath.HSV{H: c.H, S: s, V: c.V}
	}
	return out
}

// BuildSequence assembles the ordered color list for a set of families:
// pick evenly from each family, tune vibrancy/saturation floor, orient
// each family's segment for minimum adjacent hue distance, then jointly
// choose the segment ORDER and per-segment direction that minimizes the
// combined cost of adjacent hue distance (within and across segments)
// plus the wrap-around closure back to the first color. This is the
// multi-segment extension colormath.ReorderByContrast's doc comment
// defers to this package.
func BuildSequence(families []Family, perFamily int, vibrancy, minSaturation float64) []colormath.HSV {
	return BuildSequenceWithOrdering(families, perFamily, vibrancy, minSaturation, false, 0)
}

// BuildSequenceWithOrdering is BuildSequence extended with spec.md §4.7's
// disorder/disorderAggression knobs: when disorder is false (the
// default), family segments are contrast-oriented and jointly arranged
// for minimum adjacency cost; when true, segments are concatenated in
// selection order and then jitter-shuffled by disorderAggression
// instead, trading visual smoothness for unpredictability.
func BuildSequenceWithOrdering(families []Family, perFamily int, vibrancy, minSaturation float64, disorder bool, disorderAggression float64) []colormath.HSV {
	segments := make([][]colormath.HSV, 0, len(families))
	for _, fam := range families {
		table, ok := Families[fam]
		if !ok {
			continue
		}
		picked := pickEvenly(table, perFamily)
		picked = vibrancyTune(picked, vibrancy, minSaturation)
		picked = colormath.ReorderByContrast(picked)
		segments = append(segments, picked)
	}
	if len(segments) == 0 {
		return nil
	}
	if disorder {
		concat := make([]colormath.HSV, 0)
		for _, seg := range segments {
			concat = append(concat, seg...)
		}
		return jitterShuffle(concat, disorderAggression)
	}
	if len(segments) == 1 {
		return segments[0]
	}
	return orientSegments(segments)
}

// jitterShuffle deterministically disorders a built sequence by an
// amount proportional to aggression in [0,1]: higher aggression performs
// more pairwise swaps at a tighter stride, lower aggression leaves the
// sequence closer to its input order. Deterministic given identical
// input (spec.md §3 invariant 7 extends naturally to the disordered
// path: same sequence + same aggression always produces the same
// output).
func jitterShuffle(seq []colormath.HSV, aggression float64) []colormath.HSV {
	if aggression <= 0 || len(seq) < 2 {
		return seq
	}
	if aggression > 1 {
		aggression = 1
	}
	out := append([]colormath.HSV(nil), seq...)
	swaps := int(math.Ceil(aggression * float64(len(out))))
	for i := 0; i < swaps; i++ {
		a := (i * 7) % len(out)
		b := (a + 1 + i%3) % len(out)
		out[a], out[b] = out[b], out[a]
	}
	return out
}

// orientSegments exhaustively tries every ordering and per-segment
// reversal of a small set of segments (families: typically 1-3) and
// returns the concatenation with the lowest total adjacency cost. The
// search space is len(segments)! * 2^len(segments), trivial for the
// handful of families a sequence ever combines.
func orientSegments(segments [][]colormath.HSV) []colormath.HSV {
	indices := make([]int, len(segments))
	for i := range indices {
		indices[i] = i
	}

	var best []colormath.HSV
	bestCost := -1.0

	permute(indices, func(order []int) {
		total := 1 << len(order)
		for mask := 0; mask < total; mask++ {
			candidate := make([]colormath.HSV, 0)
			for i, segIdx := range order {
				seg := segments[segIdx]
				if mask&(1<<i) != 0 {
					seg = reverseSlice(seg)
				}
				candidate = append(candidate, seg...)
			}
			cost := sequenceCost(candidate)
			if bestCost < 0 || cost < bestCost {
				bestCost = cost
				best = candidate
			}
		}
	})
	return best
}

func sequenceCost(colors []colormath.HSV) float64 {
	total := 0.0
	for i := 1; i < len(colors); i++ {
		total += colormath.HueDistance(colors[i-1].H, colors[i].H)
	}
	if len(colors) > 1 {
		total += colormath.HueDistance(colors[len(colors)-1].H, colors[0].H)
	}
	return total
}

func reverseSlice(colors []colormath.HSV) []colormath.HSV {
	out := make([]colormath.HSV, len(colors))
	for i, c := range colors {
		out[len(out)-1-i] = c
	}
	return out
}

// permute calls fn once per permutation of indices (Heap's algorithm).
func permute(indices []int, fn func([]int)) {
	n := len(indices)
	c := make([]int, n)
	fn(append([]int(nil), indices...))
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				indices[0], indices[i] = indices[i], indices[0]
			} else {
				indices[c[i]], indices[i] = indices[i], indices[c[i]]
			}
			fn(append([]int(nil), indices...))
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}
