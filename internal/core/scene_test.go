package core

import (
	"testing"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

func testSceneProfile() genre.Profile {
	return genre.Lookup(genre.EDM)
}

func TestSceneMachineStartsIdle(t *testing.T) {
	sm := NewSceneMachine()
	assert.Equal(t, SceneIdleSoft, sm.Current())
}

func TestSceneMachineIdleIsImmediate(t *testing.T) {
	sm := NewSceneMachine()
	out := sm.Step(Idle, AudioFrame{}, 0, 0, testSceneProfile(), false, 200, 400, 16)
	assert.Equal(t, SceneIdleSoft, out.Scene)
}

func TestSceneMachinePulseBypassesDebounce(t *testing.T) {
	sm := NewSceneMachine()
	out := sm.Step(Pulse, AudioFrame{RMS: 0.5, Transient: 0.5, SpectralFlux: 0.5}, 0, 0, testSceneProfile(), false, 200, 400, 16)
	assert.Equal(t, ScenePulseStrobe, out.Scene)
}

func TestSceneMachineFlowRequiresHoldAndConfirm(t *testing.T) {
	sm := NewSceneMachine()
	stormy := AudioFrame{BandLow: 0.6, Transient: 0.5, SpectralFlux: 0.4}

	out := sm.Step(Flow, stormy, 0.3, 0.2, testSceneProfile(), false, 200, 400, 16)
	assert.Equal(t, SceneIdleSoft, out.Scene, "first tick: candidate recorded but not yet confirmed")

	for i := 0; i < 50; i++ {
		out = sm.Step(Flow, stormy, 0.3, 0.2, testSceneProfile(), false, 200, 400, 16)
	}
	assert.Equal(t, SceneFlowStorm, out.Scene)
}

func TestSceneMachineSetSceneLocksForManualWindow(t *testing.T) {
	sm := NewSceneMachine()
	sm.SetScene(SceneFlowStorm)

	out := sm.Step(Idle, AudioFrame{}, 0, 0, testSceneProfile(), false, 200, 400, 16)
	assert.Equal(t, SceneFlowStorm, out.Scene)
	assert.True(t, out.Locked)
}

func TestSceneMachineForceEnterPulseBypassesManualLock(t *testing.T) {
	sm := NewSceneMachine()
	sm.SetScene(SceneFlowStorm)

	out := sm.ForceEnterPulse()
	assert.Equal(t, ScenePulseStrobe, out.Scene)
	assert.False(t, out.Locked)
}

// TestSceneMachineEmergencyExitPulseOnQuietCollapse exercises spec.md
// §4.5's "emergency_pulse_exit_scene" bypass: once rms/transient/flux
// all collapse under the profile's quiet gates with no drop active, a
// scene parked on pulse_strobe must demote to a flow scene on the very
// next tick, without waiting for sceneMinHoldMs/sceneConfirmMs.
func TestSceneMachineEmergencyExitPulseOnQuietCollapse(t *testing.T) {
	sm := NewSceneMachine()
	sm.ForceEnterPulse()
	assert.Equal(t, ScenePulseStrobe, sm.Current())

	quiet := AudioFrame{}
	out := sm.Step(Flow, quiet, 0, 0, testSceneProfile(), false, 200, 400, 16)

	assert.NotEqual(t, ScenePulseStrobe, out.Scene)
	assert.False(t, out.Locked)
}

// TestSceneMachineEmergencyExitPulseDoesNotFireOnDrop confirms the
// bypass is withheld under an active drop even if the frame itself
// reads quiet (e.g. a hard-cut silence right before the beat drops).
func TestSceneMachineEmergencyExitPulseDoesNotFireOnDrop(t *testing.T) {
	sm := NewSceneMachine()
	sm.ForceEnterPulse()

	quiet := AudioFrame{}
	out := sm.Step(Pulse, quiet, 0, 0, testSceneProfile(), true, 200, 400, 16)

	assert.Equal(t, ScenePulseStrobe, out.Scene)
}

func TestSceneMachineManualLockSurvivesQuietCollapseUnlessPulsing(t *testing.T) {
	sm := NewSceneMachine()
	sm.SetScene(SceneFlowStorm)

	out := sm.Step(Idle, AudioFrame{}, 0, 0, testSceneProfile(), false, 200, 400, 16)
	assert.Equal(t, SceneFlowStorm, out.Scene)
	assert.True(t, out.Locked)
}

func TestMoodFlowSceneSelection(t *testing.T) {
	assert.Equal(t, SceneFlowGlacier, moodFlowScene(AudioFrame{BandHigh: 0.6, ZCR: 0.5}, 0, 0))
	assert.Equal(t, SceneFlowStorm, moodFlowScene(AudioFrame{BandLow: 0.6, Transient: 0.4, SpectralFlux: 0.3}, 0, 0))
	assert.Equal(t, SceneFlowMedia, moodFlowScene(AudioFrame{BandMid: 0.6, BandLow: 0.1}, 0, 0))
	assert.Equal(t, SceneFlowSunset, moodFlowScene(AudioFrame{BandLow: 0.4, BandHigh: 0.1}, 0, 0))
	assert.Equal(t, SceneFlowWash, moodFlowScene(AudioFrame{}, 0, 0))
}
