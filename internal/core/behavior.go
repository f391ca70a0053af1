package core

import (
	"github.com/cybre/reactive-light-engine/internal/genre"
)

// BehaviorState is the reactive core's coarse mood: how much motion the
// downstream scene/emitter layers should express (spec.md §4.4).
type BehaviorState string

const (
	Idle  BehaviorState = "idle"
	Flow  BehaviorState = "flow"
	Pulse BehaviorState = "pulse"
)

// BehaviorInputs bundles the per-tick signals the behavior FSM reacts to.
type BehaviorInputs struct {
	Frame      AudioFrame
	Energy     EnergyOutput
	Beat       BeatEvent
	Phrase     PhraseOutput
	ForceDrop  bool
	ForceIdle  bool
	DropActive bool
}

// BehaviorOutput is the per-tick result of the behavior FSM.
type BehaviorOutput struct {
	State    BehaviorState
	Motion   float64
	Promoted bool // true the tick a forced override fired, for telemetry/logging
}

// Behavior implements the idle/flow/pulse state machine (spec.md §4.4):
// a debounced baseline comparison against the genre profile's thresholds,
// overridden in priority order by forced promotions/demotions that bypass
// the normal confirm/hold timers. Grounded on the teacher's ModeEnergyPulse
// /ModeSpectrumFlow two-state "updateMode" debounce, generalized to three
// states and to the richer set of forced overrides spec.md §4.4 lists.
type Behavior struct {
	state          BehaviorState
	candidate      BehaviorState
	candidateMs    float64
	sinceChangeMs  float64
	quietSinceMs   float64
}

// NewBehavior constructs a Behavior starting in Idle.
func NewBehavior() *Behavior {
	return &Behavior{state: Idle, candidate: Idle}
}

// State returns the current committed state.
func (b *Behavior) State() BehaviorState { return b.state }

// Step advances the FSM by one tick. dtMs is the tick's elapsed time;
// auto carries the confirm/hold debounce timings for the active
// auto-profile (spec.md §3); hysteresisScale additionally widens or
// narrows the idle/flow band around the profile's base thresholds.
func (b *Behavior) Step(in BehaviorInputs, p genre.Profile, auto genre.AutoProfile, hysteresisScale float64, dtMs float64) BehaviorOutput {
	f := in.Frame
	motion := p.Motion.BeatConfidence*in.Beat.Confidence + p.Motion.Transient*f.Transient + p.Motion.Flux*f.SpectralFlux
	energy := in.Energy.Energy

	b.sinceChangeMs += dtMs

	// 1. Highest-priority forced override: an explicit drop (internal
	// phrase detector or external ForceDrop/OscDrop intent) snaps
	// straight to pulse regardless of hold timers (spec.md §4.4 rule 1:
	// "drop ⇒ pulse"), since a drop is a deliberate musical cue, not
	// sensor noise.
	if in.ForceDrop || in.Phrase.Drop {
		return b.commit(Pulse, motion, true)
	}

	// 1b. recover ∧ pulse ⇒ flow: once a drop's cooldown transitions the
	// phrase detector into "recovering", ease pulse back down to flow
	// rather than holding the most intense scene through the comedown.
	if in.Phrase.State == PhraseRecovering && b.state == Pulse {
		return b.commit(Flow, motion, true)
	}

	// 1c. build ∧ idle ⇒ flow: a recognized build-up promotes straight
	// out of idle without waiting for the normal confirm/hold debounce.
	if in.Phrase.State == PhraseBuilding && b.state == Idle {
		return b.commit(Flow, motion, true)
	}

	// 2. Forced pulse promotion on a hard transient+flux spike.
	if f.SpectralFlux > p.ForcePulseFlux && energy > p.ForcePulseEnergy {
		return b.commit(Pulse, motion, true)
	}

	// 3. Heavy-promote: sustained high energy/transient/flux/motion jumps
	// straight from idle or flow to pulse, skipping the normal flow
	// confirm step.
	hp := p.HeavyPromote
	if energy >= hp.Energy && f.Transient >= hp.Transient && f.SpectralFlux >= hp.Flux && motion >= hp.Motion {
		return b.commit(Pulse, motion, true)
	}

	// 4. Low-motion guard: below 0.55 energy, pulse can't sustain itself
	// without flux, so it is demoted straight to flow (not idle) when flux
	// collapses.
	if b.state == Pulse && f.SpectralFlux < p.ForceFlowLowFlux && energy < 0.55 {
		return b.commit(Flow, motion, true)
	}

	// 5. Quiet guard: once RMS/transient/flux all sit under the profile's
	// quiet gates for long enough, force idle regardless of the normal
	// hysteresis band (a held chord under the idle threshold would
	// otherwise keep the FSM parked in flow indefinitely).
	if in.ForceIdle || (f.RMS < p.Quiet.Rms && f.Transient < p.Quiet.Transient && f.SpectralFlux < p.Quiet.Flux) {
		b.quietSinceMs += dtMs
		if b.quietSinceMs >= float64(auto.ConfirmMs) && b.state != Idle {
			return b.commit(Idle, motion, true)
		}
	} else {
		b.quietSinceMs = 0
	}

	// 6. Emergency demotion: a near-silent frame while in Pulse bypasses
	// the hold timer entirely, since nothing downstream should keep
	// strobing into true silence.
	if b.state == Pulse && f.isNearSilent() {
		return b.commit(Idle, motion, true)
	}

	// 7. Normal debounced path: compare against hysteresis-widened
	// thresholds and require the candidate to persist for ConfirmMs
	// before committing, and the current state to have held for HoldMs
	// before it's eligible to change at all.
	target := b.normalTarget(energy, p, hysteresisScale)
	if target == b.state {
		b.candidate = b.state
		b.candidateMs = 0
		return BehaviorOutput{State: b.state, Motion: motion}
	}

	if target != b.candidate {
		b.candidate = target
		b.candidateMs = 0
	}
	b.candidateMs += dtMs

	if b.sinceChangeMs >= float64(auto.HoldMs) && b.candidateMs >= float64(auto.ConfirmMs) {
		return b.commit(target, motion, false)
	}

	return BehaviorOutput{State: b.state, Motion: motion}
}

func (b *Behavior) normalTarget(energy float64, p genre.Profile, hysteresisScale float64) BehaviorState {
	hysteresis := p.Hysteresis * hysteresisScale
	switch b.state {
	case Idle:
		if energy > p.IdleThreshold+hysteresis {
			if energy > p.FlowThreshold+hysteresis {
				return Pulse
			}
			return Flow
		}
		return Idle
	case Flow:
		if energy < p.IdleThreshold-hysteresis {
			return Idle
		}
		if energy > p.FlowThreshold+hysteresis {
			return Pulse
		}
		return Flow
	case Pulse:
		if energy < p.FlowThreshold-hysteresis {
			if energy < p.IdleThreshold-hysteresis {
				return Idle
			}
			return Flow
		}
		return Pulse
	default:
		return Idle
	}
}

func (b *Behavior) commit(state BehaviorState, motion float64, forced bool) BehaviorOutput {
	if state != b.state {
		b.state = state
		b.sinceChangeMs = 0
		b.candidate = state
		b.candidateMs = 0
	}
	return BehaviorOutput{State: b.state, Motion: motion, Promoted: forced}
}
