package meta

import (
	"math"
	"testing"

	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

func TestPlannerStartsAtBaseHz(t *testing.T) {
	p := NewPlanner()
	out := p.Step(PlannerInputs{Behavior: core.Idle, DtMs: 16})
	assert.InDelta(t, metaBaseHz, out.TargetHz, 1.0)
}

func TestPlannerRampsTowardHigherHzUnderPulse(t *testing.T) {
	p := NewPlanner()

	var out MetaPlan
	for i := 0; i < 500; i++ {
		out = p.Step(PlannerInputs{Behavior: core.Pulse, Intensity: 1, Motion: 1, DtMs: 16})
	}
	assert.Greater(t, out.TargetHz, metaBaseHz)
	assert.LessOrEqual(t, out.TargetHz, metaMaxHz+1e-6)
}

func TestPlannerSlewLimitsLargeJumps(t *testing.T) {
	p := NewPlanner()
	first := p.Step(PlannerInputs{Behavior: core.Pulse, Intensity: 1, Motion: 1, DtMs: 16})

	maxStep := metaBaseHz * (math.Pow(slewUpBase, 16.0/slewEvalWindowMs) - 1)
	assert.LessOrEqual(t, first.TargetHz-metaBaseHz, maxStep+1e-6)
}

func TestPlannerBackPressureCutsTargetHz(t *testing.T) {
	withoutPressure := NewPlanner()
	withPressure := NewPlanner()

	var a, b MetaPlan
	for i := 0; i < 300; i++ {
		a = withoutPressure.Step(PlannerInputs{Behavior: core.Pulse, Intensity: 1, Motion: 1, DtMs: 16})
		b = withPressure.Step(PlannerInputs{Behavior: core.Pulse, Intensity: 1, Motion: 1, Pressure: 1, DtMs: 16})
	}
	assert.Less(t, b.TargetHz, a.TargetHz)
}

func TestPlannerTierTracksQuantizedHz(t *testing.T) {
	p := NewPlanner()
	out := p.Step(PlannerInputs{Behavior: core.Idle, DtMs: 16})
	assert.GreaterOrEqual(t, out.OverclockLevel, 0)
	assert.LessOrEqual(t, out.OverclockLevel, 12)
}

func TestPlannerDropForcesReactiveAggressiveAndFastPath(t *testing.T) {
	p := NewPlanner()

	var out MetaPlan
	for i := 0; i < 60; i++ {
		out = p.Step(PlannerInputs{Behavior: core.Pulse, Intensity: 1, Motion: 1, Drop: true, DtMs: 16})
	}
	assert.True(t, out.FastPath)
	assert.Equal(t, genre.Reactive, out.AutoProfile)
	assert.Equal(t, genre.Aggressive, out.Reactivity)
	assert.GreaterOrEqual(t, out.IntentHz, 10.0)
}

func TestPlannerCalmSettlesOnCinematicPrecision(t *testing.T) {
	p := NewPlanner()

	var out MetaPlan
	for i := 0; i < 200; i++ {
		out = p.Step(PlannerInputs{Behavior: core.Idle, Intensity: 0, Motion: 0, DtMs: 16})
	}
	assert.Equal(t, genre.Cinematic, out.AutoProfile)
	assert.Equal(t, genre.Precision, out.Reactivity)
}

func TestPlannerNeverSelectsReactivePrecisionTogether(t *testing.T) {
	p := NewPlanner()
	for i := 0; i < 200; i++ {
		out := p.Step(PlannerInputs{Behavior: core.Flow, Intensity: 0.7, Motion: 0.7, DtMs: 16})
		if out.AutoProfile == genre.Reactive {
			assert.NotEqual(t, genre.Precision, out.Reactivity)
		}
	}
}
