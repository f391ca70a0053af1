package core

import (
	"testing"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

func TestPhraseDetectorStartsSteady(t *testing.T) {
	var pd PhraseDetector
	profile := genre.Lookup(genre.EDM)

	out := pd.Step(0.3, 120, 16, profile, true)
	assert.Equal(t, PhraseSteady, out.State)
	assert.False(t, out.Drop)
}

// feedDecayingEnergy starts pd's EMA at a held high energy, then feeds a
// steady per-tick decrease so the trend EMA has a consistent negative
// target to converge toward, instead of a single one-tick step (which
// relaxes back toward 0 immediately and never crosses a drop threshold).
// It returns the first tick's output where Drop fired (state snaps to
// PhraseDropped for exactly that tick before the next Step eases it into
// PhraseRecovering), or the final tick's output if no drop ever fired.
func feedDecayingEnergy(pd *PhraseDetector, profile genre.Profile, dropDetectionEnabled bool) PhraseOutput {
	for i := 0; i < 10; i++ {
		pd.Step(0.8, 128, 16, profile, dropDetectionEnabled)
	}
	var out PhraseOutput
	energy := 0.8
	for i := 0; i < 20; i++ {
		energy -= 0.1
		out = pd.Step(energy, 128, 16, profile, dropDetectionEnabled)
		if out.Drop {
			return out
		}
	}
	return out
}

func TestPhraseDetectorRecognizesDropThenRecovers(t *testing.T) {
	var pd PhraseDetector
	profile := genre.Lookup(genre.EDM)

	out := feedDecayingEnergy(&pd, profile, true)
	assert.True(t, out.Drop)
	assert.Equal(t, PhraseDropped, out.State)

	// Next tick transitions to recovering regardless of signal.
	out = pd.Step(0.05, 128, 16, profile, true)
	assert.Equal(t, PhraseRecovering, out.State)
}

func TestPhraseDetectorDropDetectionDisabledNeverDrops(t *testing.T) {
	var pd PhraseDetector
	profile := genre.Lookup(genre.EDM)

	out := feedDecayingEnergy(&pd, profile, false)
	assert.False(t, out.Drop)
	assert.NotEqual(t, PhraseDropped, out.State)
}

func TestCooldownForBPMFallsBackToDefaultTempo(t *testing.T) {
	assert.Equal(t, cooldownForBPM(120), cooldownForBPM(0))
	assert.Greater(t, cooldownForBPM(60), cooldownForBPM(180))
}
