// Package engine orchestrates one tick of the reactive pipeline:
// ingress → energy → beat → phrase → behavior → scene → classifier →
// planner → emitters, all guarded by a single mutex (spec.md §5), and
// exposes the public control surface (spec.md §6.1) as typed setters.
package engine

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cybre/reactive-light-engine/internal/config"
	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/emitter"
	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/cybre/reactive-light-engine/internal/meta"
	"github.com/cybre/reactive-light-engine/internal/palette"
	"github.com/cybre/reactive-light-engine/internal/telemetry"
	"github.com/cybre/reactive-light-engine/internal/utils"
)

const (
	midiBiasDecay     = 0.9
	oscBiasDecay      = 0.9
	oscBeatScoreDecay = 0.8
	dropHoldMs        = 900

	flowIntensityMin = 0.35
	flowIntensityMax = 2.5
)

// Engine holds every piece of the reactive pipeline's mutable state
// behind a single mutex, mirroring the teacher's ledController: one
// struct, one apply-style entry point per tick, no per-field locking.
type Engine struct {
	mu sync.Mutex

	logger *slog.Logger

	ingress    core.Ingress
	energy     core.EnergyFollower
	beat       *core.BeatTracker
	phrase     core.PhraseDetector
	behavior   *core.Behavior
	scene      *core.SceneMachine
	memory     *core.Memory
	classifier *meta.Classifier
	planner    *meta.Planner
	tracker    *meta.TrackerElectionState

	paletteRegistry *palette.Registry
	hueState        *emitter.HueState
	wizState        *emitter.WizState
	hueScheduler    *emitter.Scheduler
	wizScheduler    *emitter.Scheduler

	manualGenre genre.Genre
	autoGenre   bool
	// autoGenreCurrent is the last committed auto-classification, used as
	// this tick's GenreProfile source when autoGenre is enabled (see
	// Tick's activeGenre comment).
	autoGenreCurrent genre.Genre
	reactivity       genre.ReactivityPresetName
	autoProfile      genre.AutoProfileName
	decadeMode       genre.DecadeMode

	midiBias     float64
	oscBias      float64
	oscBeatScore float64
	dropHoldMs   float64

	// pendingForceDrop is an edge-triggered flag: PushIntent sets it on a
	// ForceDrop/OscDrop intent, and the next Tick consumes and clears it,
	// so the behavior FSM sees the forced drop exactly once rather than
	// for the whole dropHoldMs hold window.
	pendingForceDrop bool

	dropDetectionEnabled bool
	flowIntensity        float64
	wizSceneSync         bool

	// overclockLevel is the manually pinned tier (spec.md §4.9/§6.1); it
	// is the tier actually applied whenever neither auto-planner is
	// armed, and is what a manual SetOverclock disarms both auto modes
	// in favor of (invariant 6: the two auto-planners are mutually
	// exclusive with each other, and a manual call always wins over
	// both).
	overclockLevel       int
	metaAutoEnabled      bool
	overclockAutoEnabled bool

	// lastTier is the tier actually applied on the previous tick (manual
	// or auto-planned), read by this tick's behavior hysteresis scaling
	// before this tick's own tier is known (see Tick's hysteresisScale
	// comment).
	lastTier int

	// tempoTrackersAuto/tempoMask* implement spec.md §6.1's
	// setMetaAutoTempoTrackers/setMetaAutoTempoTrackersAuto: when auto is
	// false, the manual mask narrows which of the tracker election's two
	// collapsed sources (internal = baseline's proxy, external = the
	// peaks/transients/flux group) are eligible to be elected.
	tempoTrackersAuto      bool
	tempoMaskBaseline      bool
	tempoMaskPeaks         bool
	tempoMaskTransients    bool
	tempoMaskFlux          bool

	// transportPressure is the decaying EMA spec.md §4.6 attaches to
	// TransportPressure external intents: each incoming sample latches
	// the value upward, and it decays toward 0 with a 900ms half-life in
	// between, so a burst of host-transport activity biases the meta
	// planner for a short window without needing a steady intent stream.
	transportPressure float64

	running   bool
	startedAt time.Time
	lastTick  time.Time

	last telemetry.Telemetry
}

const transportPressureHalfLifeMs = 900.0

// decayTransportPressure applies one tick's worth of half-life decay to
// the transport pressure EMA.
func decayTransportPressure(pressure, dtMs float64) float64 {
	if dtMs <= 0 {
		return pressure
	}
	return pressure * math.Exp(-math.Ln2*dtMs/transportPressureHalfLifeMs)
}

// rangePct renders a meta-planner dynamic-range anchor (a [0,1] power
// value) as the percentage telemetry reports it at.
func rangePct(v float64) float64 {
	return v * 100
}

// New constructs an Engine from resolved Options.
func New(logger *slog.Logger, opts config.Options) *Engine {
	registry := palette.NewRegistry()
	if len(opts.PaletteFamilies) > 0 {
		global := palette.DefaultConfig
		global.Families = opts.PaletteFamilies
		if opts.ManualPaletteColorsPerFamily > 0 {
			global.PerFamily = opts.ManualPaletteColorsPerFamily
		}
		global.Disorder = opts.ManualPaletteDisorder
		if opts.PaletteMode != "" {
			global.Mode = opts.PaletteMode
		}
		registry.SetGlobal(global)
	}
	hueCfg := registry.ForBrand(palette.BrandHue)
	seq := palette.BuildSequenceWithOrdering(hueCfg.Families, hueCfg.PerFamily, hueCfg.Vibrancy, hueCfg.MinSaturation, hueCfg.Disorder, hueCfg.DisorderAggression)
	now := time.Now()
	return &Engine{
		logger:          logger,
		beat:            core.NewBeatTracker(16),
		behavior:        core.NewBehavior(),
		scene:           core.NewSceneMachine(),
		memory:          core.NewMemory(),
		classifier:      meta.NewClassifier(),
		planner:         meta.NewPlanner(),
		tracker:         meta.NewTrackerElectionState(),
		paletteRegistry: registry,
		hueState:        emitter.NewHueState(seq),
		wizState:        emitter.NewWizState(),
		hueScheduler:    emitter.NewScheduler(palette.BrandHue, 6, now),
		wizScheduler:    emitter.NewScheduler(palette.BrandWiz, 6, now),
		manualGenre:          opts.Genre,
		autoGenre:            opts.AutoGenre,
		autoGenreCurrent:     opts.Genre,
		reactivity:           opts.Reactivity,
		autoProfile:          opts.AutoProfile,
		decadeMode:           opts.DecadeMode,
		dropDetectionEnabled: opts.DropEnabled,
		flowIntensity:        utils.Clamp(opts.FlowIntensity, flowIntensityMin, flowIntensityMax),
		wizSceneSync:         opts.WizSceneSync,
		overclockLevel:       utils.Clamp(opts.OverclockLevel, 0, emitter.MaxOverclockLevel),
		lastTier:             utils.Clamp(opts.OverclockLevel, 0, emitter.MaxOverclockLevel),
		metaAutoEnabled:      opts.MetaAutoDefault && !opts.OverclockAutoDefault,
		overclockAutoEnabled: opts.OverclockAutoDefault,
		tempoTrackersAuto:    opts.TempoTrackersAuto,
		tempoMaskBaseline:    opts.TempoTrackerBaseline,
		tempoMaskPeaks:       opts.TempoTrackerPeaks,
		tempoMaskTransients:  opts.TempoTrackerTransients,
		tempoMaskFlux:        opts.TempoTrackerFlux,
	}
}

// Start marks the engine as running and records the start time. It does
// not itself launch any goroutines — cmd/reactor owns the capture/tick
// loop via errgroup, the same separation of concerns the teacher's
// run()/runReactiveLoop() split uses.
func (e *Engine) Start(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	e.startedAt = time.Now()
	return nil
}

// Stop marks the engine as no longer running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// TickResult bundles both brands' intents for one tick, plus whether
// each brand's scheduler considers this tick "due" for actual network
// emission (spec.md §4.8): the pipeline runs every audio frame, but a
// brand only gets sent over the wire once its deadline-paced scheduler
// says so.
type TickResult struct {
	Hue    emitter.HueIntent
	HueDue bool
	Wiz    emitter.WizIntent
	WizDue bool
}

// Tick advances the entire pipeline by one audio frame. Panics inside
// the pipeline are recovered, wrapped with eris, and logged rather than
// crashing the capture loop, since one malformed frame should degrade
// gracefully instead of taking the whole process down.
func (e *Engine) Tick(frame core.AudioFrame, now time.Time) (result TickResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("engine tick panicked: %v", r)
			e.logger.Error("recovered from tick panic", slog.Any("error", err))
		}
	}()

	dtMs := 16.0
	if !e.lastTick.IsZero() {
		dtMs = float64(now.Sub(e.lastTick).Milliseconds())
		if dtMs <= 0 {
			dtMs = 1
		}
	}
	e.lastTick = now

	clamped := e.ingress.Ingest(frame)

	e.midiBias *= midiBiasDecay
	e.oscBias *= oscBiasDecay
	e.oscBeatScore *= oscBeatScoreDecay
	if e.dropHoldMs > 0 {
		e.dropHoldMs -= dtMs
		if e.dropHoldMs < 0 {
			e.dropHoldMs = 0
		}
	}
	dropActive := e.dropHoldMs > 0
	forceDrop := e.pendingForceDrop
	e.pendingForceDrop = false

	// activeGenre drives this tick's GenreProfile lookup. Under manual
	// selection it's simply the pinned genre; under auto-classification
	// it's the last *committed* classification from the previous tick
	// (e.autoGenreCurrent) rather than this tick's raw classifier output,
	// since the classifier below needs this tick's motion/BPM — which in
	// turn depend on the profile — to produce that output. The
	// classification computed later in this tick becomes next tick's
	// profile, a one-tick lag the same debounced-commit shape as the
	// classifier's own confirm/hold timers.
	activeGenre := e.manualGenre
	if e.autoGenre {
		activeGenre = e.autoGenreCurrent
	}
	reactivity := genre.LookupReactivity(e.reactivity)
	auto := genre.LookupAutoProfile(e.autoProfile)

	// profileGenre is pinned before the classifier (below) can reassign
	// activeGenre, so the memory lookup indexes the same genre the
	// profile itself was built from.
	profileGenre := activeGenre

	profile := applyReactivity(genre.Lookup(activeGenre), reactivity)
	decade := genre.ResolveDecade(e.decadeMode, activeGenre)
	profile = applyDecadeBias(profile, genre.LookupDecadeBias(decade))
	profile = applyReferenceOffsets(profile)
	profile = applyMemoryBias(profile, e.memory.Entry(profileGenre))

	energyOut := e.energy.Step(clamped, profile, e.midiBias, e.oscBias, dropActive)
	beatEvent := e.beat.Step(clamped, profile, energyOut.Energy, now, dtMs)
	phraseOut := e.phrase.Step(energyOut.Energy, beatEvent.BPM, dtMs, profile, e.dropDetectionEnabled)

	motion := profile.Motion.BeatConfidence*beatEvent.Confidence + profile.Motion.Transient*clamped.Transient + profile.Motion.Flux*clamped.SpectralFlux

	// tracker election scores the internal onset-tempo tracker against any
	// external OSC beat feed and elects whichever currently looks more
	// reliable; the result is reported but doesn't itself override the
	// internal tracker's BPM/confidence, since the internal tracker is the
	// only source that actually carries a tempo estimate. A manual mask
	// (spec.md §6.1 setMetaAutoTempoTrackers) narrows which collapsed
	// source is even eligible: baseline maps to the internal onset
	// tracker, the peaks/transients/flux group maps to the external feed.
	trackerSource := e.tracker.Step(beatEvent.Confidence, e.oscBeatScore, clamped.RMS)
	if !e.tempoTrackersAuto {
		externalAllowed := e.tempoMaskPeaks || e.tempoMaskTransients || e.tempoMaskFlux
		switch {
		case e.tempoMaskBaseline && !externalAllowed:
			trackerSource = meta.TrackerInternal
		case externalAllowed && !e.tempoMaskBaseline:
			trackerSource = meta.TrackerExternal
		}
	}

	// metaGenre is the classifier's raw committed label, used by the
	// meta-planner's aggression bias below regardless of whether
	// auto-genre is pinning the active GenreProfile itself; the two are
	// independent consumers of the same classification.
	genreConfidence := 1.0
	metaGenre := activeGenre
	if e.autoGenre || e.metaAutoEnabled {
		classified := e.classifier.Step(beatEvent.BPM, clamped, motion, dtMs)
		genreConfidence = classified.Confidence
		metaGenre = classified.Genre
		if e.autoGenre {
			e.autoGenreCurrent = classified.Genre
			if classified.Confidence > 0.55 {
				activeGenre = classified.Genre
			}
		}
	}

	// hysteresisScale narrows as e.lastTier (the previous tick's applied
	// overclock tier — this tick's tier isn't known until the planner
	// runs below, so this carries the same one-tick lag as
	// autoGenreCurrent) rises, per spec.md §4.4's "hysteresisScale
	// (reduced when overclocked)".
	hysteresisScale := auto.HysteresisScale * overclockHysteresisScale(e.lastTier)
	behaviorOut := e.behavior.Step(core.BehaviorInputs{
		Frame:      clamped,
		Energy:     energyOut,
		Beat:       beatEvent,
		Phrase:     phraseOut,
		ForceDrop:  forceDrop,
		DropActive: dropActive,
	}, profile, auto, hysteresisScale, dtMs)

	if behaviorOut.Promoted && behaviorOut.State == core.Pulse {
		e.scene.ForceEnterPulse()
	}
	sceneOut := e.scene.Step(behaviorOut.State, clamped, behaviorOut.Motion, beatEvent.Confidence, profile, dropActive, auto.SceneConfirmMs, auto.SceneHoldMs, dtMs)

	e.memory.Reinforce(activeGenre, behaviorOut.State)

	// Tier selection (spec.md §6.1 invariant 6): a manually pinned
	// overclockLevel is what actually drives the schedulers whenever
	// neither auto-planner is armed; arming either auto mode hands tier
	// selection to the Hz planner instead, and the two auto modes are
	// kept mutually exclusive by the setters below.
	e.transportPressure = decayTransportPressure(e.transportPressure, dtMs)
	plan := e.planner.Step(meta.PlannerInputs{
		Behavior:        behaviorOut.State,
		Intensity:       energyOut.Intensity,
		Motion:          behaviorOut.Motion,
		Drop:            dropActive,
		Build:           phraseOut.State == core.PhraseBuilding,
		Pressure:        e.transportPressure,
		Genre:           metaGenre,
		GenreConfidence: genreConfidence,
		Tracker:         trackerSource,
		DtMs:            dtMs,
	})
	tier := e.overclockLevel
	targetHz := 0.0
	if e.overclockAutoEnabled || e.metaAutoEnabled {
		tier = plan.OverclockLevel
		targetHz = plan.TargetHz
	}
	// metaAutoEnabled additionally hands profile/reactivity selection to
	// the planner (spec.md §4.6 step 5); this takes effect from next
	// tick's `auto`/`reactivity` lookups above, the same one-tick lag the
	// auto-genre classification already has on activeGenre.
	if e.metaAutoEnabled {
		e.autoProfile = plan.AutoProfile
		e.reactivity = plan.Reactivity
	}
	e.hueScheduler.SetTier(tier)
	e.wizScheduler.SetTier(tier)
	e.lastTier = tier

	hueCfg := e.paletteRegistry.ForBrand(palette.BrandHue)
	wizCfg := e.paletteRegistry.ForBrand(palette.BrandWiz)

	// flowIntensity (spec.md §6.1 setFlowIntensity) scales only the
	// emitted brightness/motion, never the Hz/tier planning above, so a
	// user dialing it down gets dimmer flow scenes without slowing the
	// scheduler itself.
	emitEnergy := energyOut
	emitEnergy.Intensity = utils.Clamp(emitEnergy.Intensity*e.flowIntensity, 0, 1)

	// forceDelta marks ticks where an emergency condition (a forced or
	// detected drop, or a behavior promotion) should override a
	// transport's own delta-coalescing, the same "this one matters, send
	// it now" signal spec.md §6.2's forceDelta field exists for.
	forceDelta := dropActive || phraseOut.State == core.PhraseDropped || behaviorOut.Promoted

	result.Hue = emitter.BuildHueIntent(e.hueState, sceneOut.Scene, behaviorOut.State, emitEnergy, beatEvent, dropActive, hueCfg, clamped, behaviorOut.Motion, dtMs, tier, forceDelta)

	// wizSceneSync (spec.md §6.1 setWizSceneSync) picks whether the WiZ
	// path renders the same scene the Hue scene FSM just confirmed, or
	// instead follows the coarse behavior state directly, bypassing the
	// scene FSM's genre/mood selection and hold/confirm debounce.
	wizScene := sceneOut.Scene
	if !e.wizSceneSync {
		wizScene = coarseSceneFor(behaviorOut.State)
	}
	result.Wiz = emitter.BuildWizIntent(e.wizState, wizScene, emitEnergy, beatEvent, dropActive, wizCfg, dtMs, tier, forceDelta)
	rhythm := emitter.RhythmCadence{
		BeatEtaMs:         beatEvent.NextBeatEtaMs,
		Drums:             beatEvent.Beat,
		RelativeTransient: clamped.Transient,
		RelativeFlux:      clamped.SpectralFlux,
	}
	result.HueDue = e.hueScheduler.Due(now, rhythm)
	result.WizDue = e.wizScheduler.Due(now, rhythm)

	e.last = telemetry.Telemetry{
		Timestamp:       now,
		Frame:           clamped,
		Energy:          energyOut.Energy,
		EnergyFloor:     energyOut.EnergyFloor,
		Intensity:       energyOut.Intensity,
		BPM:             beatEvent.BPM,
		BeatConfidence:  beatEvent.Confidence,
		OnsetBPM:        beatEvent.OnsetBPM,
		Phrase:          phraseOut.State,
		Trend:           phraseOut.Trend,
		Behavior:        behaviorOut.State,
		Motion:          behaviorOut.Motion,
		Scene:           sceneOut.Scene,
		SceneLocked:     sceneOut.Locked,
		Genre:           activeGenre,
		GenreConfidence: genreConfidence,
		Decade:          decade,

		AutoProfile:           e.autoProfile,
		AudioReactivityPreset: e.reactivity,

		TargetHz: targetHz,
		Tier:     tier,

		MetaAutoEnabled:      e.metaAutoEnabled,
		MetaAutoReason:       plan.Reason,
		MetaAutoProfile:      plan.AutoProfile,
		MetaAutoGenre:        plan.MetaGenre,
		MetaAutoReactivity:   plan.Reactivity,
		MetaAutoIntentHz:     plan.IntentHz,
		MetaAutoAppliedHz:    plan.TargetHz,
		MetaAutoRangeLowPct:  rangePct(plan.RangeLow),
		MetaAutoRangeHighPct: rangePct(plan.RangeHigh),
		MetaAutoOverclock:    plan.OverclockLevel,
		MetaAutoFastPath:     plan.FastPath,

		DominantTracker: trackerSource,
		Trackers: telemetry.TempoTrackerMask{
			Baseline:   e.tempoMaskBaseline,
			Peaks:      e.tempoMaskPeaks,
			Transients: e.tempoMaskTransients,
			Flux:       e.tempoMaskFlux,
		},
		TrackersActive: e.tempoTrackersAuto,

		OverclockAutoEnabled: e.overclockAutoEnabled,
		OverclockAutoLevel:   tier,

		PaletteFamilies:        hueCfg.Families,
		PaletteColorsPerFamily: hueCfg.PerFamily,
		PaletteCycleMode:       hueCfg.Mode,
		BrightnessTier:    telemetry.BrightnessTierFor(emitEnergy.Intensity),
		BrightnessPercent: utils.Clamp(emitEnergy.Intensity, 0, 1) * 100,
		TransportPressure: e.transportPressure,
	}

	return result, nil
}

// GetTelemetry returns a copy of the most recent tick's snapshot.
func (e *Engine) GetTelemetry() telemetry.Telemetry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// PushIntent applies an external intent (MIDI/OSC/transport) to the
// engine's running biases.
func (e *Engine) PushIntent(in core.ExternalIntent) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch v := in.(type) {
	case core.MidiNote:
		e.midiBias += v.Velocity * 0.3
		return config.Applied()
	case core.MidiCC:
		e.midiBias += v.Value * 0.15
		return config.Applied()
	case core.OscEnergy:
		e.oscBias += v.Value * 0.3
		return config.Applied()
	case core.OscBeat:
		e.oscBeatScore = 1.0
		return config.Applied()
	case core.OscDrop, core.ForceDrop:
		e.dropHoldMs = dropHoldMs
		e.pendingForceDrop = true
		return config.Applied()
	case core.TransportPressure:
		p := v.Pressure
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		if p > e.transportPressure {
			e.transportPressure = p
		}
		return config.Applied()
	default:
		return config.Rejected("unrecognized intent type")
	}
}

// SetGenre pins the active genre and disables auto-classification.
func (e *Engine) SetGenre(g genre.Genre) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := genre.Profiles[g]; !ok {
		return config.Rejected("unrecognized genre")
	}
	if e.manualGenre == g && !e.autoGenre {
		return config.Noop()
	}
	e.manualGenre = g
	e.autoGenre = false
	return config.Applied()
}

// SetAutoGenre toggles automatic genre classification.
func (e *Engine) SetAutoGenre(auto bool) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.autoGenre == auto {
		return config.Noop()
	}
	e.autoGenre = auto
	if auto {
		e.autoGenreCurrent = e.manualGenre
	}
	return config.Applied()
}

// SetReactivity selects a reactivity preset overlay.
func (e *Engine) SetReactivity(name genre.ReactivityPresetName) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := genre.ReactivityPresets[name]; !ok {
		return config.Rejected("unrecognized reactivity preset")
	}
	if e.reactivity == name {
		return config.Noop()
	}
	e.reactivity = name
	return config.Applied()
}

// SetAutoProfile selects a debounce/hysteresis auto-profile.
func (e *Engine) SetAutoProfile(name genre.AutoProfileName) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := genre.AutoProfiles[name]; !ok {
		return config.Rejected("unrecognized auto-profile")
	}
	if e.autoProfile == name {
		return config.Noop()
	}
	e.autoProfile = name
	return config.Applied()
}

// SetDecadeMode selects the genre-decade bias mode.
func (e *Engine) SetDecadeMode(mode genre.DecadeMode) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.decadeMode == mode {
		return config.Noop()
	}
	e.decadeMode = mode
	return config.Applied()
}

// SetScene manually pins the rendered scene.
func (e *Engine) SetScene(s core.Scene) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.SetScene(s)
	return config.Applied()
}

// SetPaletteConfig applies a manual per-brand palette override.
func (e *Engine) SetPaletteConfig(b palette.Brand, cfg palette.Config) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paletteRegistry.SetManualPaletteConfig(b, cfg)
	return config.Applied()
}

// coarseSceneFor maps a behavior state directly onto the scene it would
// render without any genre/mood selection, for the desynced WiZ path.
func coarseSceneFor(b core.BehaviorState) core.Scene {
	switch b {
	case core.Idle:
		return core.SceneIdleSoft
	case core.Pulse:
		return core.ScenePulseStrobe
	default:
		return core.SceneFlowWash
	}
}

// SetOverclock pins the emission rate tier directly, disarming both
// auto-planners in favor of the manual value (spec.md §6.1 invariant 6).
func (e *Engine) SetOverclock(level int) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if level < 0 || level > emitter.MaxOverclockLevel {
		return config.Rejected("overclock level out of range")
	}
	if e.overclockLevel == level && !e.metaAutoEnabled && !e.overclockAutoEnabled {
		return config.Noop()
	}
	e.overclockLevel = level
	e.metaAutoEnabled = false
	e.overclockAutoEnabled = false
	return config.Applied()
}

// SetOverclockAlias resolves a named overclock shortcut (spec.md §6.1's
// setOverclock(level|string) form) and applies it via SetOverclock.
func (e *Engine) SetOverclockAlias(name string) config.SetResult {
	level, ok := emitter.ResolveOverclockAlias(name)
	if !ok {
		return config.Rejected("unrecognized overclock alias")
	}
	return e.SetOverclock(level)
}

// SetMetaAutoEnabled arms or disarms the meta-planner's full genre/Hz
// auto-management. Arming it disarms the Hz-only overclock auto-planner,
// since the two are mutually exclusive (spec.md §6.1 invariant 6).
func (e *Engine) SetMetaAutoEnabled(enabled bool) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.metaAutoEnabled == enabled {
		return config.Noop()
	}
	e.metaAutoEnabled = enabled
	if enabled {
		e.overclockAutoEnabled = false
	}
	return config.Applied()
}

// SetOverclockAutoEnabled arms or disarms the Hz-only auto-planner,
// disarming meta-auto in favor of it (spec.md §6.1 invariant 6).
func (e *Engine) SetOverclockAutoEnabled(enabled bool) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.overclockAutoEnabled == enabled {
		return config.Noop()
	}
	e.overclockAutoEnabled = enabled
	if enabled {
		e.metaAutoEnabled = false
	}
	return config.Applied()
}

// TempoTrackerMask bundles the four manual tracker-source toggles
// spec.md §6.1's setMetaAutoTempoTrackers names.
type TempoTrackerMask struct {
	Baseline, Peaks, Transients, Flux bool
}

// SetMetaAutoTempoTrackers replaces the manual tracker mask, resetting
// the election state (spec.md's lifecycle note: "Tempo-tracker election
// state resets on every change to the manual tracker mask or the auto
// flag").
func (e *Engine) SetMetaAutoTempoTrackers(mask TempoTrackerMask) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tempoMaskBaseline = mask.Baseline
	e.tempoMaskPeaks = mask.Peaks
	e.tempoMaskTransients = mask.Transients
	e.tempoMaskFlux = mask.Flux
	e.tracker = meta.NewTrackerElectionState()
	return config.Applied()
}

// SetMetaAutoTempoTrackersAuto toggles automatic tracker election,
// resetting the election state on change.
func (e *Engine) SetMetaAutoTempoTrackersAuto(auto bool) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tempoTrackersAuto == auto {
		return config.Noop()
	}
	e.tempoTrackersAuto = auto
	e.tracker = meta.NewTrackerElectionState()
	return config.Applied()
}

// SetFlowIntensity scales the emitted brightness/motion of flow scenes,
// clamped to [flowIntensityMin, flowIntensityMax].
func (e *Engine) SetFlowIntensity(v float64) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v < flowIntensityMin || v > flowIntensityMax {
		return config.Rejected("flow intensity out of range")
	}
	if e.flowIntensity == v {
		return config.Noop()
	}
	e.flowIntensity = v
	return config.Applied()
}

// SetWizSceneSync toggles whether the WiZ path renders the same scene
// the Hue scene FSM selected, or follows the coarse behavior state
// directly.
func (e *Engine) SetWizSceneSync(enabled bool) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wizSceneSync == enabled {
		return config.Noop()
	}
	e.wizSceneSync = enabled
	return config.Applied()
}

// SetDropDetectionEnabled toggles the phrase detector's internal
// slope/level drop recognition. External ForceDrop/OscDrop intents are
// unaffected either way.
func (e *Engine) SetDropDetectionEnabled(enabled bool) config.SetResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dropDetectionEnabled == enabled {
		return config.Noop()
	}
	e.dropDetectionEnabled = enabled
	return config.Applied()
}

// applyReferenceOffsets folds the active genre's reference-track offsets
// (spec.md §4.4: "reference-track offsets" as a threshold modifier) into
// the behavior thresholds, the same additive-delta pattern applyDecadeBias
// uses for its decade overlay.
func applyReferenceOffsets(p genre.Profile) genre.Profile {
	p.IdleThreshold += p.Reference.IdleOffset
	p.FlowThreshold += p.Reference.FlowOffset
	p.ForcePulseEnergy += p.Reference.PulseFloorOffset
	return p
}

// applyMemoryBias scales the behavior thresholds by the neural motif
// memory's learned per-state multipliers (spec.md §4.4's "modified by:
// neural memory (±)"): a genre that's been sustaining pulse gets an
// easier-to-reach pulse floor next time, one that never leaves idle gets
// pushed back toward neutral.
func applyMemoryBias(p genre.Profile, m core.MemoryEntry) genre.Profile {
	p.IdleThreshold *= m.Idle
	p.FlowThreshold *= m.Flow
	p.ForcePulseEnergy *= m.Pulse
	return p
}

// overclockHysteresisScale reduces behavior debounce tightness as
// overclock tier rises (spec.md §4.4: "hysteresisScale reduced when
// overclocked"), floored so hysteresis never collapses to zero even at
// the top tier.
func overclockHysteresisScale(tier int) float64 {
	scale := 1.0 - float64(tier)*0.05
	if scale < 0.4 {
		scale = 0.4
	}
	return scale
}

func applyReactivity(p genre.Profile, r genre.ReactivityPreset) genre.Profile {
	p.AudioGain *= r.GainMul
	p.PeakLift *= r.GainMul
	p.TransientLift *= r.GainMul
	p.BeatThreshold *= r.BeatThresholdMul
	p.BeatRiseGate *= r.BeatRiseMul
	p.Hysteresis *= r.HysteresisMul
	p.HeavyPromote.Energy *= r.HeavyPromoteMul
	p.HeavyPromote.Transient *= r.HeavyPromoteMul
	p.HeavyPromote.Flux *= r.HeavyPromoteMul
	return p
}

func applyDecadeBias(p genre.Profile, d genre.DecadeBias) genre.Profile {
	p.IdleThreshold += d.IdleOffsetDelta
	p.FlowThreshold += d.FlowOffsetDelta
	p.BeatThreshold += d.BeatThresholdDelta
	return p
}
