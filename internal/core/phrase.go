package core

import (
	"github.com/cybre/reactive-light-engine/internal/genre"
)

// PhraseState is the phrase detector's classification of the current
// musical moment (spec.md §4.3 "phrase detector").
type PhraseState string

const (
	PhraseSteady    PhraseState = "steady"
	PhraseBuilding  PhraseState = "building"
	PhraseDropped   PhraseState = "dropped"
	PhraseRecovering PhraseState = "recovering"
)

const (
	trendAlpha      = 0.08
	phraseCooldownBeats = 2.0
)

// PhraseOutput is the per-tick result of the phrase detector.
type PhraseOutput struct {
	State PhraseState
	Trend float64
	// Drop is true for exactly the tick a drop is recognized, so callers
	// (the behavior FSM, forced overrides) can react edge-triggered
	// instead of polling State == PhraseDropped every tick.
	Drop bool
}

// PhraseDetector tracks a slow EMA of the energy trend and classifies
// builds, drops, and recoveries from its slope and level, grounded on the
// teacher's energy-ring "updateMode" trend read but generalized from a
// two-mode classifier into the four-state phrase machine spec.md §4.3
// describes.
type PhraseDetector struct {
	trend        float64
	lastEnergy   float64
	cooldownMs   float64
	state        PhraseState
	initialized  bool
}

// Step advances the detector by one frame. dtMs is the tick's elapsed
// time; bpm sizes the post-drop cooldown (spec.md: "cooldown sized from
// BPM") so a recognized drop can't immediately re-trigger within the
// same musical bar. dropDetectionEnabled gates only the internal
// slope/level drop recognition (spec.md §6.1 setDropDetectionEnabled);
// an externally forced drop (ForceDrop/OscDrop) always takes effect
// regardless, since that is an explicit caller decision, not evidence
// this detector produced itself.
func (pd *PhraseDetector) Step(energy float64, bpm float64, dtMs float64, p genre.Profile, dropDetectionEnabled bool) PhraseOutput {
	if !pd.initialized {
		pd.lastEnergy = energy
		pd.state = PhraseSteady
		pd.initialized = true
	}

	delta := energy - pd.lastEnergy
	pd.lastEnergy = energy
	pd.trend += trendAlpha * (delta - pd.trend)

	if pd.cooldownMs > 0 {
		pd.cooldownMs -= dtMs
		if pd.cooldownMs < 0 {
			pd.cooldownMs = 0
		}
	}

	dropped := false
	switch pd.state {
	case PhraseDropped:
		pd.state = PhraseRecovering
	case PhraseRecovering:
		if pd.trend > p.RecoverTrend && energy > p.BuildEnergy*0.5 {
			pd.state = PhraseSteady
		}
	default:
		if dropDetectionEnabled && pd.cooldownMs <= 0 && pd.trend < p.DropSlope && energy < p.DropEnergyGate {
			pd.state = PhraseDropped
			dropped = true
			pd.cooldownMs = cooldownForBPM(bpm)
		} else if pd.trend > p.BuildTrend && energy > p.BuildEnergy {
			pd.state = PhraseBuilding
		} else if pd.state == PhraseBuilding && pd.trend <= p.BuildTrend {
			pd.state = PhraseSteady
		}
	}

	return PhraseOutput{State: pd.state, Trend: pd.trend, Drop: dropped}
}

// cooldownForBPM sizes the post-drop cooldown to roughly two beats, so a
// single sustained quiet passage isn't reported as several consecutive
// drops at fast tempos.
func cooldownForBPM(bpm float64) float64 {
	if bpm <= 0 {
		bpm = 120
	}
	beatMs := 60000 / bpm
	return beatMs * phraseCooldownBeats
}
