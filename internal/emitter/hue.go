package emitter

import (
	"math"

	"github.com/cybre/reactive-light-engine/internal/colormath"
	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/palette"
)

// HueState carries the per-emitter state the Hue emit path needs across
// ticks: the palette cycler, the last hue emitted (for idle's slow
// drift), and the monotone phase counter spec.md §6.2 names.
type HueState struct {
	Cycler     *palette.Cycler
	idleHueDeg float64
	phase      uint64
	elapsedMs  float64
}

// NewHueState constructs a HueState over the given sequence.
func NewHueState(seq []colormath.HSV) *HueState {
	return &HueState{Cycler: palette.NewCycler(seq)}
}

const idleDriftDegPerSec = 3.0

// BuildHueIntent computes the HueIntent for the current tick, following
// the teacher's HSV-first approach to bulb control (colorconv feeds the
// same HSV→RGB math here that internal/colormath wraps) but driven by
// the reactive core's scene/behavior state instead of a raw FFT band
// split. tier/rateMs/forceDelta carry the scheduler-level pacing
// envelope spec.md §6.2 attaches to every intent regardless of brand.
// motion feeds the flow scene's hue trajectory (spec.md §4.8).
func BuildHueIntent(st *HueState, scene core.Scene, behavior core.BehaviorState, energy core.EnergyOutput, beat core.BeatEvent, drop bool, cfg palette.Config, frame core.AudioFrame, motion, dtMs float64, tier int, forceDelta bool) HueIntent {
	if cfg.Manual && len(cfg.Families) > 0 {
		seq := palette.BuildSequenceWithOrdering(cfg.Families, cfg.PerFamily, cfg.Vibrancy, cfg.MinSaturation, cfg.Disorder, cfg.DisorderAggression)
		st.Cycler.SetSequence(seq)
	}

	st.elapsedMs += dtMs

	var state HueLampState
	switch scene {
	case core.SceneIdleSoft:
		state = buildIdleHue(st, energy, dtMs)
	case core.ScenePulseStrobe:
		state = buildPulseHue(st, energy, beat, drop)
	default:
		state = buildFlowHue(st, energy, beat, drop, cfg, frame, motion, dtMs)
	}

	st.phase++
	return HueIntent{
		Type:       "HUE_STATE",
		Phase:      st.phase,
		Energy:     float32(energy.Energy),
		RateMs:     uint16(IntervalMsForTier(tier)),
		ForceRate:  tier >= 2,
		ForceDelta: forceDelta,
		DeltaScale: deltaScaleFor(energy.Intensity),
		State:      state,
	}
}

func buildIdleHue(st *HueState, energy core.EnergyOutput, dtMs float64) HueLampState {
	st.idleHueDeg += idleDriftDegPerSec * dtMs / 1000
	for st.idleHueDeg >= 360 {
		st.idleHueDeg -= 360
	}
	brightness := uint8(applyEnergyBrightnessScale(0.11, energy.Energy, 0.4) * 254)
	if brightness < 1 {
		brightness = 1
	}
	return HueLampState{
		On:             true,
		Hue:            colormath.Hue16(st.idleHueDeg),
		Sat:            180,
		Bri:            brightness,
		TransitionTime: 120,
	}
}

func buildFlowHue(st *HueState, energy core.EnergyOutput, beat core.BeatEvent, drop bool, cfg palette.Config, frame core.AudioFrame, motion, dtMs float64) HueLampState {
	c := st.Cycler.Step(cfg, palette.StepInputs{
		DtMs:      dtMs,
		Trigger:   beat.Beat,
		Drop:      drop,
		Intensity: energy.Intensity,
		Energy:    energy.Energy,
		RMS:       frame.RMS,
		Peak:      frame.Peak,
		Transient: frame.Transient,
		Flux:      frame.SpectralFlux,
		BandLow:   frame.BandLow,
		BandMid:   frame.BandMid,
		BandHigh:  frame.BandHigh,
	})
	hueDeg := flowHuePalette(c.H, float64(st.phase), st.elapsedMs, motion, energy.Intensity)
	brightness := uint8(applyEnergyBrightnessScale(0.45, energy.Intensity, 1.0) * 254)
	if brightness < 1 {
		brightness = 1
	}
	return HueLampState{
		On:             true,
		Hue:            colormath.Hue16(hueDeg),
		Sat:            uint8(colormath.EnforceMinSaturation(c.S, 0.5) * 254),
		Bri:            brightness,
		TransitionTime: 35,
	}
}

const (
	flowHueSwingDeg        = 22.0
	flowHueMicroDeg        = 7.0
	flowHueDriftDeg        = 9.0
	flowHueStepDeg         = 0.12
	flowHueTimeDivMs       = 9000.0
	flowHueReactiveWarpDeg = 14.0
)

// flowHuePalette computes the flow scene's per-tick hue trajectory
// (spec.md §4.8): the cycler's anchor hue riding a slow swing and a
// faster micro-wobble, a long drift independent of the beat-driven
// phase counter, a forward stride biased by motion, and a reactive
// warp proportional to this tick's intensity. colormath.Hue16 wraps
// the unbounded result, so no clamping is needed here.
func flowHuePalette(anchor, phase, elapsedMs, motion, reactiveDrive float64) float64 {
	swing := math.Sin(phase*0.33) * flowHueSwingDeg
	micro := math.Sin(phase*0.11+elapsedMs/1000) * flowHueMicroDeg
	drift := math.Sin(elapsedMs/flowHueTimeDivMs*0.2) * flowHueDriftDeg
	stride := phase * flowHueStepDeg * (1 + motion*1.35)
	reactiveWarp := reactiveDrive * flowHueReactiveWarpDeg
	return anchor + swing + micro + drift + stride + reactiveWarp
}

// buildPulseHue renders the pulse_strobe scene. A drop forces both the
// instant transition (transitiontime=1, spec.md §8 S3) and an elevated
// brightness floor (spec.md §4.8: "min brightness elevated on drop"),
// bypassing the normal beat-gated snap so the very first tick after a
// drop already reads as a strobe hit even before the next beat lands.
func buildPulseHue(st *HueState, energy core.EnergyOutput, beat core.BeatEvent, drop bool) HueLampState {
	c := st.Cycler.Current()
	if beat.Beat {
		st.Cycler.Step(palette.Config{Mode: palette.CycleOnTrigger}, palette.StepInputs{Trigger: true, Drop: drop})
	}
	brightnessFloor := 0.6
	if drop {
		brightnessFloor = 0.85
	}
	brightness := uint8(applyEnergyBrightnessScale(brightnessFloor, energy.Intensity, 1.0) * 254)
	if brightness < 1 {
		brightness = 1
	}
	transition := uint8(6)
	if beat.Beat || drop {
		transition = 1
	}
	return HueLampState{
		On:             true,
		Hue:            colormath.Hue16(c.H),
		Sat:            254,
		Bri:            brightness,
		TransitionTime: transition,
	}
}

// applyEnergyBrightnessScale maps an energy-like value onto a brightness
// fraction in [floor, 1], so a scene never goes fully dark but still
// visibly tracks intensity.
func applyEnergyBrightnessScale(floor, value, ceiling float64) float64 {
	if ceiling <= 0 {
		ceiling = 1
	}
	frac := value / ceiling
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return floor + (1-floor)*math.Sqrt(frac)
}
