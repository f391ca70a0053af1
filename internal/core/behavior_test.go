package core

import (
	"testing"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

func TestBehaviorForceDropAlwaysWinsToPulse(t *testing.T) {
	b := NewBehavior()
	profile := genre.Lookup(genre.EDM)
	auto := genre.LookupAutoProfile(genre.AutoBalanced)

	out := b.Step(BehaviorInputs{ForceDrop: true}, profile, auto, 1, 16)

	assert.Equal(t, Pulse, out.State)
	assert.True(t, out.Promoted)
	assert.Equal(t, Pulse, b.State())
}

func TestBehaviorRecoveringPulseEasesToFlow(t *testing.T) {
	b := NewBehavior()
	profile := genre.Lookup(genre.EDM)
	auto := genre.LookupAutoProfile(genre.AutoBalanced)

	b.Step(BehaviorInputs{ForceDrop: true}, profile, auto, 1, 16)
	assert.Equal(t, Pulse, b.State())

	out := b.Step(BehaviorInputs{Phrase: PhraseOutput{State: PhraseRecovering}}, profile, auto, 1, 16)
	assert.Equal(t, Flow, out.State)
}

func TestBehaviorBuildingIdlePromotesToFlow(t *testing.T) {
	b := NewBehavior()
	profile := genre.Lookup(genre.EDM)
	auto := genre.LookupAutoProfile(genre.AutoBalanced)

	out := b.Step(BehaviorInputs{Phrase: PhraseOutput{State: PhraseBuilding}}, profile, auto, 1, 16)
	assert.Equal(t, Flow, out.State)
	assert.True(t, out.Promoted)
}

func TestBehaviorNormalPathRequiresHoldAndConfirm(t *testing.T) {
	b := NewBehavior()
	profile := genre.Lookup(genre.EDM)
	auto := genre.LookupAutoProfile(genre.AutoBalanced)

	loud := AudioFrame{RMS: 0.9, Transient: 0.1, SpectralFlux: 0.1}
	energy := EnergyOutput{Energy: profile.FlowThreshold + profile.Hysteresis + 0.2}

	// First tick: a candidate is recorded but ConfirmMs/HoldMs haven't
	// elapsed yet, so the committed state shouldn't have moved.
	out := b.Step(BehaviorInputs{Frame: loud, Energy: energy}, profile, auto, 1, 16)
	assert.Equal(t, Idle, out.State)

	// Advance well past both ConfirmMs and HoldMs while the candidate
	// stays stable; the FSM should now commit.
	var last BehaviorOutput
	for i := 0; i < 200; i++ {
		last = b.Step(BehaviorInputs{Frame: loud, Energy: energy}, profile, auto, 1, 16)
	}
	// energy clears both IdleThreshold+h and FlowThreshold+h, so the
	// normal idle path (spec.md §4.4: "rise above idleT+h → flow or
	// pulse depending on whether below/above flowT+h") lands on Pulse,
	// not just anything-but-Idle.
	assert.Equal(t, Pulse, last.State)
}

func TestBehaviorQuietGuardForcesIdle(t *testing.T) {
	b := NewBehavior()
	profile := genre.Lookup(genre.EDM)
	auto := genre.LookupAutoProfile(genre.AutoBalanced)

	b.Step(BehaviorInputs{ForceDrop: true}, profile, auto, 1, 16)
	assert.Equal(t, Pulse, b.State())
	b.Step(BehaviorInputs{Phrase: PhraseOutput{State: PhraseRecovering}}, profile, auto, 1, 16)
	assert.Equal(t, Flow, b.State())

	quiet := AudioFrame{}
	var out BehaviorOutput
	for i := 0; i < int(auto.ConfirmMs/16)+5; i++ {
		out = b.Step(BehaviorInputs{Frame: quiet}, profile, auto, 1, 16)
	}
	assert.Equal(t, Idle, out.State)
}
