package palette

import (
	"testing"

	"github.com/cybre/reactive-light-engine/internal/colormath"
	"github.com/stretchr/testify/assert"
)

func TestBuildSequenceReturnsPermutationOfInputColors(t *testing.T) {
	seq := BuildSequence([]Family{FamilyRed, FamilyBlue}, 4, 0.3, 0.5)

	assert.Len(t, seq, 8)
	for _, c := range seq {
		assert.GreaterOrEqual(t, c.S, 0.5)
		assert.LessOrEqual(t, c.S, 1.0)
	}
	want := append(vibrancyTune(pickEvenly(Families[FamilyRed], 4), 0.3, 0.5),
		vibrancyTune(pickEvenly(Families[FamilyBlue], 4), 0.3, 0.5)...)
	assert.ElementsMatch(t, want, seq)
}

func TestBuildSequenceUnknownFamilySkipped(t *testing.T) {
	seq := BuildSequence([]Family{Family("nope")}, 4, 0.3, 0.5)
	assert.Nil(t, seq)
}

func TestBuildSequenceDeterministic(t *testing.T) {
	a := BuildSequence([]Family{FamilyRed, FamilyGreen, FamilyBlue}, 3, 0.4, 0.5)
	b := BuildSequence([]Family{FamilyRed, FamilyGreen, FamilyBlue}, 3, 0.4, 0.5)
	assert.Equal(t, a, b)
}

func TestBuildSequenceWithOrderingDisorderStillReturnsAllColors(t *testing.T) {
	ordered := BuildSequenceWithOrdering([]Family{FamilyRed, FamilyBlue}, 4, 0.3, 0.5, false, 0)
	disordered := BuildSequenceWithOrdering([]Family{FamilyRed, FamilyBlue}, 4, 0.3, 0.5, true, 0.8)

	assert.Len(t, disordered, len(ordered))
	assert.ElementsMatch(t, ordered, disordered)
}

func TestBuildSequenceWithOrderingDisorderIsDeterministic(t *testing.T) {
	a := BuildSequenceWithOrdering([]Family{FamilyRed, FamilyGreen}, 4, 0.3, 0.5, true, 0.6)
	b := BuildSequenceWithOrdering([]Family{FamilyRed, FamilyGreen}, 4, 0.3, 0.5, true, 0.6)
	assert.Equal(t, a, b)
}

func TestJitterShuffleNoopAtZeroAggression(t *testing.T) {
	seq := BuildSequence([]Family{FamilyRed}, 4, 0.3, 0.5)
	assert.Equal(t, seq, jitterShuffle(seq, 0))
}

func TestJitterShuffleClampsAggressionAboveOne(t *testing.T) {
	seq := BuildSequence([]Family{FamilyRed, FamilyBlue}, 4, 0.3, 0.5)
	shuffled := jitterShuffle(seq, 5)
	assert.ElementsMatch(t, seq, shuffled)
}

func TestOrientSegmentsConcatenatesAllSegments(t *testing.T) {
	redSeg := pickEvenly(Families[FamilyRed], 3)
	blueSeg := pickEvenly(Families[FamilyBlue], 3)

	got := orientSegments([][]colormath.HSV{redSeg, blueSeg})

	assert.Len(t, got, 6)
	assert.ElementsMatch(t, append(append([]colormath.HSV{}, redSeg...), blueSeg...), got)
}

func TestPickEvenlySpansWholeTableWhenCountBelowLength(t *testing.T) {
	table := Families[FamilyRed]
	picked := pickEvenly(table, 4)
	assert.Len(t, picked, 4)
	assert.Equal(t, []colormath.HSV{table[0], table[3], table[6], table[9]}, picked)
}

func TestPickEvenlyReturnsWholeTableWhenCountExceedsLength(t *testing.T) {
	table := Families[FamilyGreen]
	picked := pickEvenly(table, len(table)+10)
	assert.Equal(t, table, picked)
}
