package core

import (
	"math"

	"github.com/cybre/reactive-light-engine/internal/genre"
)

// Scene is one of the fixed lighting treatments the emitter layer knows
// how to render (spec.md §4.5). There are three families: the single
// idle scene, the pulse scene, and the flow family, which further splits
// into seventeen named scenes all selected from instantaneous spectral
// character — spec.md §9's ambiguous-behavior note 2 is explicit that the
// flow sub-selector ignores the classified genre (the engine pins
// activeGenre="auto" internally), so scene names beyond the five "mood"
// examples are reached by audio signature alone, never by genre lookup.
type Scene string

const (
	SceneIdleSoft Scene = "idle_soft"

	SceneFlowWash      Scene = "flow_wash"
	SceneFlowEDM       Scene = "flow_edm"
	SceneFlowHipHop    Scene = "flow_hiphop"
	SceneFlowMetal     Scene = "flow_metal"
	SceneFlowAmbient   Scene = "flow_ambient"
	SceneFlowHouse     Scene = "flow_house"
	SceneFlowTrance    Scene = "flow_trance"
	SceneFlowDnB       Scene = "flow_dnb"
	SceneFlowPop       Scene = "flow_pop"
	SceneFlowRock      Scene = "flow_rock"
	SceneFlowRnB       Scene = "flow_rnb"
	SceneFlowMedia     Scene = "flow_media"
	SceneFlowTechno    Scene = "flow_techno"
	SceneFlowCyberpunk Scene = "flow_cyberpunk"
	SceneFlowSunset    Scene = "flow_sunset"
	SceneFlowGlacier   Scene = "flow_glacier"
	SceneFlowStorm     Scene = "flow_storm"

	ScenePulseStrobe Scene = "pulse_strobe"
)

const (
	sceneManualLockMs = 8000
)

// SceneOutput is the per-tick result of the scene FSM.
type SceneOutput struct {
	Scene  Scene
	Locked bool
}

// SceneMachine selects the concrete Scene to render given the behavior
// FSM's coarse state and the instantaneous spectral character used to
// pick among the seventeen flow scenes. It debounces independently of
// Behavior (its own confirm/hold timers), supports a manual SetScene
// override/lock, and exposes ForceEnterPulse for an immediate,
// debounce-bypassing jump to the pulse scene, plus its own debounce-
// bypassing exit out of pulse_strobe when the audio quietly collapses.
type SceneMachine struct {
	current       Scene
	candidate     Scene
	candidateMs   float64
	sinceChangeMs float64

	manual      Scene
	manualMs    float64
	manualAdded bool
}

// NewSceneMachine constructs a SceneMachine starting on the idle scene.
func NewSceneMachine() *SceneMachine {
	return &SceneMachine{current: SceneIdleSoft, candidate: SceneIdleSoft}
}

// Current returns the currently rendered scene.
func (sm *SceneMachine) Current() Scene { return sm.current }

// SetScene manually pins the scene for sceneManualLockMs milliseconds;
// automatic selection resumes once the lock elapses.
func (sm *SceneMachine) SetScene(s Scene) {
	sm.manual = s
	sm.manualMs = sceneManualLockMs
	sm.manualAdded = true
	sm.current = s
	sm.candidate = s
	sm.candidateMs = 0
	sm.sinceChangeMs = 0
}

// ForceEnterPulse snaps directly to the pulse scene, bypassing both the
// manual lock and the normal debounce timers, for use when the behavior
// FSM force-promotes to Pulse.
func (sm *SceneMachine) ForceEnterPulse() SceneOutput {
	sm.manualMs = 0
	sm.current = ScenePulseStrobe
	sm.candidate = ScenePulseStrobe
	sm.candidateMs = 0
	sm.sinceChangeMs = 0
	return SceneOutput{Scene: sm.current}
}

// quietCollapsed reports whether rms/transient/flux have all dropped
// under the profile's quiet gates, the same joint condition the
// behavior FSM's own quiet guard checks.
func quietCollapsed(f AudioFrame, p genre.Profile) bool {
	return f.RMS < p.Quiet.Rms && f.Transient < p.Quiet.Transient && f.SpectralFlux < p.Quiet.Flux
}

// Step advances the scene FSM by one tick. motion and beatConfidence are
// the same blended signals the behavior FSM and beat tracker already
// compute for this tick (spec.md glossary's "motion" and beat
// confidence), folded into the flow scene's feature score alongside the
// raw frame. p/drop feed the emergency_pulse_exit_scene guard (spec.md
// §4.5): a collapsed, drop-free audio signal while parked on
// pulse_strobe demotes straight to a flow scene (idle_soft when
// behavior is already Idle), bypassing both the
// manual lock and the normal sceneMinHoldMs/sceneConfirmMs debounce,
// mirroring the behavior FSM's own emergency-demotion priority.
func (sm *SceneMachine) Step(behavior BehaviorState, f AudioFrame, motion, beatConfidence float64, p genre.Profile, drop bool, confirmMs, holdMs int64, dtMs float64) SceneOutput {
	sm.sinceChangeMs += dtMs

	if sm.current == ScenePulseStrobe && !drop && quietCollapsed(f, p) {
		exitScene := moodFlowScene(f, motion, beatConfidence)
		if behavior == Idle {
			exitScene = SceneIdleSoft
		}
		sm.manualMs = 0
		sm.current = exitScene
		sm.candidate = exitScene
		sm.candidateMs = 0
		sm.sinceChangeMs = 0
		return SceneOutput{Scene: sm.current}
	}

	if sm.manualMs > 0 {
		sm.manualMs -= dtMs
		return SceneOutput{Scene: sm.current, Locked: true}
	}

	target := sm.targetFor(behavior, f, motion, beatConfidence)
	if target == sm.current {
		sm.candidate = sm.current
		sm.candidateMs = 0
		return SceneOutput{Scene: sm.current}
	}

	if target != sm.candidate {
		sm.candidate = target
		sm.candidateMs = 0
	}
	sm.candidateMs += dtMs

	// Pulse is always latency-critical: it doesn't wait for the normal
	// hold/confirm debounce to engage.
	if target == ScenePulseStrobe {
		sm.current = target
		sm.sinceChangeMs = 0
		return SceneOutput{Scene: sm.current}
	}

	if sm.sinceChangeMs >= float64(holdMs) && sm.candidateMs >= float64(confirmMs) {
		sm.current = target
		sm.sinceChangeMs = 0
	}

	return SceneOutput{Scene: sm.current}
}

func (sm *SceneMachine) targetFor(behavior BehaviorState, f AudioFrame, motion, beatConfidence float64) Scene {
	switch behavior {
	case Idle:
		return SceneIdleSoft
	case Pulse:
		return ScenePulseStrobe
	default:
		return moodFlowScene(f, motion, beatConfidence)
	}
}

// sceneSignature is a weight vector scored against the current frame's
// features (plus motion/beat confidence) by a plain dot product; the
// flow scene with the highest score wins. Weights are audio signatures,
// not genre lookups — e.g. flow_dnb's heavy low end + fast transients is
// the same shape a drum-and-bass track tends to produce, but the score
// never consults the classified genre.
type sceneSignature struct {
	bandLow, bandMid, bandHigh float64
	transient, zcr, flux       float64
	motion, beat, calm         float64
	bias                       float64
}

var flowSceneSignatures = map[Scene]sceneSignature{
	SceneFlowWash:      {bias: 0.2},
	SceneFlowEDM:       {flux: 0.5, transient: 0.3, motion: 0.25},
	SceneFlowHipHop:    {bandLow: 0.55, zcr: -0.2, transient: 0.2},
	SceneFlowMetal:     {transient: 0.5, bandLow: 0.25, bandHigh: 0.25},
	SceneFlowAmbient:   {calm: 0.15},
	SceneFlowHouse:     {beat: 0.4, bandLow: 0.3, motion: 0.2, zcr: -0.1},
	SceneFlowTrance:    {bandHigh: 0.35, bandMid: 0.2, zcr: 0.1, transient: -0.1},
	SceneFlowDnB:       {bandLow: 0.5, transient: 0.35, motion: 0.25},
	SceneFlowPop:       {bandMid: 0.35, zcr: 0.2, transient: 0.15},
	SceneFlowRock:      {transient: 0.4, bandMid: 0.25, zcr: 0.2},
	SceneFlowRnB:       {calm: 0.15, bandLow: 0.2, zcr: -0.15},
	SceneFlowMedia:     {bandMid: 0.5, bandLow: -0.3},
	SceneFlowTechno:    {bandLow: 0.4, flux: 0.2, beat: 0.3, zcr: -0.15},
	SceneFlowCyberpunk: {bandMid: 0.4, flux: 0.3, zcr: 0.15},
	SceneFlowSunset:    {calm: 0.2, bandLow: 0.25, bandHigh: -0.15},
	SceneFlowGlacier:   {bandHigh: 0.8, zcr: 0.4},
	SceneFlowStorm:     {bandLow: 0.4, transient: 0.45, flux: 0.3},
}

// moodFlowScene picks among the seventeen flow scenes from the
// instantaneous frame plus the blended motion/beat-confidence signals,
// by maximizing each scene signature's dot product against the current
// reading. Deterministic given identical inputs (spec.md §5's emitter
// determinism property extends to scene selection). calm is a blanket
// measure of overall spectral/rhythmic activity across every feature,
// not just one band, so a loud-but-bass-only passage (e.g. flow_storm's
// signature) doesn't also read as "calm" by the ambient/sunset/rnb
// signatures.
func moodFlowScene(f AudioFrame, motion, beatConfidence float64) Scene {
	calm := 1 - clamp01((f.BandLow+f.BandMid+f.BandHigh+f.Transient+f.SpectralFlux+motion)/6)

	best := SceneFlowWash
	bestScore := math.Inf(-1)
	for _, s := range flowSceneOrder {
		sig := flowSceneSignatures[s]
		score := sig.bias +
			sig.bandLow*f.BandLow +
			sig.bandMid*f.BandMid +
			sig.bandHigh*f.BandHigh +
			sig.transient*f.Transient +
			sig.zcr*f.ZCR +
			sig.flux*f.SpectralFlux +
			sig.motion*motion +
			sig.beat*beatConfidence +
			sig.calm*calm
		if score > bestScore {
			bestScore = score
			best = s
		}
	}
	return best
}

// flowSceneOrder fixes iteration order over flowSceneSignatures so ties
// resolve deterministically rather than depending on Go's randomized map
// iteration.
var flowSceneOrder = []Scene{
	SceneFlowWash, SceneFlowEDM, SceneFlowHipHop, SceneFlowMetal,
	SceneFlowAmbient, SceneFlowHouse, SceneFlowTrance, SceneFlowDnB,
	SceneFlowPop, SceneFlowRock, SceneFlowRnB, SceneFlowMedia,
	SceneFlowTechno, SceneFlowCyberpunk, SceneFlowSunset, SceneFlowGlacier,
	SceneFlowStorm,
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
