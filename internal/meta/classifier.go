// Package meta sits above internal/core: it classifies genre from the
// core's running signals, selects the active reactivity/auto-profile/
// decade overlays, computes the engine's target tick rate, and elects
// which of several candidate tempo sources the beat tracker should trust
// (spec.md §4.6).
package meta

import (
	"math"

	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/genre"
)

const (
	classifierConfirmMs = 1800
	classifierHoldMs    = 4000
)

// ClassifierOutput is the per-tick result of genre classification.
type ClassifierOutput struct {
	Genre      genre.Genre
	Confidence float64
}

// Classifier scores the twelve recognized genres against the current
// BPM and spectral balance and debounces its committed choice so a
// single ambiguous bar doesn't thrash the downstream profile selection.
type Classifier struct {
	committed   genre.Genre
	candidate   genre.Genre
	candidateMs float64
	sinceMs     float64
}

// NewClassifier constructs a Classifier defaulting to genre.Pop until
// enough evidence accumulates to move it.
func NewClassifier() *Classifier {
	return &Classifier{committed: genre.Pop, candidate: genre.Pop}
}

// Step scores every genre in genre.All against bpm/motion/spectral
// balance, picks the best match, and debounces the commit.
func (c *Classifier) Step(bpm float64, f core.AudioFrame, motion float64, dtMs float64) ClassifierOutput {
	best := genre.Pop
	bestScore := math.Inf(-1)
	var second float64 = math.Inf(-1)

	for _, g := range genre.All {
		score := scoreGenre(genre.Lookup(g), bpm, f, motion)
		if score > bestScore {
			second = bestScore
			bestScore = score
			best = g
		} else if score > second {
			second = score
		}
	}

	confidence := clamp01(sigmoid(bestScore - second))

	c.sinceMs += dtMs
	if best != c.candidate {
		c.candidate = best
		c.candidateMs = 0
	}
	c.candidateMs += dtMs

	if c.candidate != c.committed && c.sinceMs >= classifierHoldMs && c.candidateMs >= classifierConfirmMs {
		c.committed = c.candidate
		c.sinceMs = 0
	}

	return ClassifierOutput{Genre: c.committed, Confidence: confidence}
}

// scoreGenre combines BPM proximity to the profile's reference track
// with how well the current band balance matches the profile's motion
// weighting — a cheap stand-in for the learned classifier a production
// system would train, grounded on the same "reference track defines the
// genre's character" idea the genre table already encodes.
func scoreGenre(p genre.Profile, bpm float64, f core.AudioFrame, motion float64) float64 {
	bpmScore := 0.0
	if p.Reference.DetectBPM && bpm > 0 {
		ratio := bpm / p.Reference.BPM
		// fold octave ambiguity (half/double tempo) into the same score
		for _, oct := range []float64{0.5, 1, 2} {
			d := math.Abs(math.Log(ratio / oct))
			s := math.Exp(-d * d * 4)
			if s > bpmScore {
				bpmScore = s
			}
		}
	} else {
		bpmScore = 0.5
	}

	bandScore := 1 - math.Abs(f.BandLow-p.BandLiftLow) - math.Abs(f.BandHigh-p.BandLiftHigh)
	motionScore := 1 - math.Abs(motion-p.Motion.BeatConfidence)

	return bpmScore*2 + bandScore + motionScore*0.5
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x*3))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
