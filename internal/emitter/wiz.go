package emitter

import (
	"github.com/cybre/reactive-light-engine/internal/colormath"
	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/palette"
)

// wizSceneAliases desyncs WiZ's scene choice from Hue's so two brands in
// the same room don't mirror each other exactly: a handful of adjacent
// mood scenes are aliased onto a neighbor, which is visually similar but
// not identical, and lets each brand's floating cursor drift
// independently.
var wizSceneAliases = map[core.Scene]core.Scene{
	core.SceneFlowSunset:  core.SceneFlowWash,
	core.SceneFlowGlacier: core.SceneFlowMedia,
}

func resolveWizScene(s core.Scene) core.Scene {
	if alias, ok := wizSceneAliases[s]; ok {
		return alias
	}
	return s
}

// WizState carries the per-emitter state the WiZ emit path needs: a
// floating cursor position into the resolved sequence (a float, not an
// int index, so crossfades can blend between two adjacent entries), the
// decaying post-beat pulse boost, the length of the last resolved
// sequence (a change resets the cursor), and the monotone phase counter
// spec.md §6.2 names.
type WizState struct {
	cursor     float64
	beatPulse  float64
	lastSeqLen int
	phase      uint64
}

// NewWizState constructs an empty WizState.
func NewWizState() *WizState { return &WizState{} }

const (
	wizBeatPulseDecay = 0.85
	wizBeatPulseBoost = 0.5
	flowCursorSpeed   = 0.15 // sequence entries per second at energy==1
)

// BuildWizIntent computes the WizIntent for the current tick. tier/
// forceDelta/drop carry the scheduler-level pacing envelope and phrase
// state spec.md §6.2 attaches to every WiZ intent.
func BuildWizIntent(st *WizState, scene core.Scene, energy core.EnergyOutput, beat core.BeatEvent, drop bool, cfg palette.Config, dtMs float64, tier int, forceDelta bool) WizIntent {
	resolved := resolveWizScene(scene)
	seq := palette.BuildSequenceWithOrdering(cfg.Families, cfg.PerFamily, cfg.Vibrancy, cfg.MinSaturation, cfg.Disorder, cfg.DisorderAggression)
	if len(seq) == 0 {
		st.phase++
		return WizIntent{
			Type:       "WIZ_PULSE",
			Phase:      st.phase,
			Energy:     float32(energy.Energy),
			RateMs:     uint16(IntervalMsForTier(tier)),
			ForceRate:  tier >= 3,
			ForceDelta: forceDelta,
			DeltaScale: deltaScaleFor(energy.Intensity),
			Beat:       beat.Beat,
			Drop:       drop,
			Scene:      string(resolved),
			Brightness: 0.01,
		}
	}
	if len(seq) != st.lastSeqLen {
		st.cursor = 0
		st.lastSeqLen = len(seq)
	}

	st.beatPulse *= wizBeatPulseDecay
	if beat.Beat {
		st.beatPulse += wizBeatPulseBoost
		if st.beatPulse > 1 {
			st.beatPulse = 1
		}
	}
	if drop {
		st.beatPulse = 1
	}

	var c colormath.HSV
	switch resolved {
	case core.SceneIdleSoft:
		c = seq[0]
		st.cursor = 0
	case core.ScenePulseStrobe:
		if beat.Beat {
			st.cursor += 1
		}
		c = seq[int(st.cursor)%len(seq)]
	default:
		st.cursor += flowCursorSpeed * energy.Energy * dtMs / 1000
		for st.cursor >= float64(len(seq)) {
			st.cursor -= float64(len(seq))
		}
		c = crossfadeAt(seq, st.cursor)
	}

	floor := 0.25
	if resolved == core.SceneIdleSoft {
		floor = 0.11
	}
	brightness := applyEnergyBrightnessScale(floor, energy.Intensity+st.beatPulse*0.3, 1.0)
	if drop && brightness < 0.9 {
		brightness = 0.9
	}
	if brightness > 1 {
		brightness = 1
	}
	if brightness < 0.01 {
		brightness = 0.01
	}

	st.phase++
	return WizIntent{
		Type:       "WIZ_PULSE",
		Phase:      st.phase,
		Energy:     float32(energy.Energy),
		RateMs:     uint16(IntervalMsForTier(tier)),
		ForceRate:  tier >= 3,
		ForceDelta: forceDelta,
		DeltaScale: deltaScaleFor(energy.Intensity),
		Beat:       beat.Beat,
		Drop:       drop,
		Scene:      string(resolved),
		Color:      colormath.HSVToRGB(c),
		Brightness: float32(brightness),
	}
}

// crossfadeAt linearly blends the two sequence entries bracketing a
// fractional cursor position, wrapping at the sequence boundary.
func crossfadeAt(seq []colormath.HSV, cursor float64) colormath.HSV {
	n := len(seq)
	i0 := int(cursor) % n
	i1 := (i0 + 1) % n
	t := cursor - float64(int(cursor))

	a, b := seq[i0], seq[i1]
	return colormath.HSV{
		H: colormath.Lerp(a.H, b.H, t),
		S: colormath.Lerp(a.S, b.S, t),
		V: colormath.Lerp(a.V, b.V, t),
	}
}
