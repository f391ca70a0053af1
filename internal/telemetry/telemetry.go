// Package telemetry defines the flat snapshot struct the engine exposes
// to callers (the UI, a status endpoint, tests) so none of them needs to
// reach into the engine's internal, mutex-guarded state directly.
package telemetry

import (
	"time"

	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/cybre/reactive-light-engine/internal/meta"
	"github.com/cybre/reactive-light-engine/internal/palette"
)

// Telemetry is a point-in-time copy of everything the core derives from
// the latest audio frame, safe to read without holding the engine's
// lock.
type Telemetry struct {
	Timestamp time.Time

	Frame core.AudioFrame

	Energy      float64
	EnergyFloor float64
	Intensity   float64

	BPM           float64
	BeatConfidence float64
	OnsetBPM      float64
	LastBeatAgoMs float64

	Phrase core.PhraseState
	Trend  float64

	Behavior core.BehaviorState
	Motion   float64

	Scene       core.Scene
	SceneLocked bool

	Genre           genre.Genre
	GenreConfidence float64
	Decade          genre.Decade

	// AutoProfile/AudioReactivityPreset are the debounce-timing and
	// reactivity overlays actually in effect this tick, whether pinned
	// manually or (when MetaAutoEnabled) last written by the meta-planner.
	AutoProfile           genre.AutoProfileName
	AudioReactivityPreset genre.ReactivityPresetName

	TargetHz float64
	Tier     int

	// MetaAuto* mirrors spec.md §6.4's full meta-planner observability
	// block: whether it's armed, its short reason for this tick's plan,
	// the {profile, genre, reactivity} it jointly selected, the Hz it
	// targeted before and after slew-limiting, the dynamic-range anchors
	// it's tracking (its [0,1] power anchors scaled to percent), and which
	// tempo tracker the plan's Hz bias was computed against.
	MetaAutoEnabled      bool
	MetaAutoReason       string
	MetaAutoProfile      genre.AutoProfileName
	MetaAutoGenre        genre.Genre
	MetaAutoReactivity   genre.ReactivityPresetName
	MetaAutoIntentHz     float64
	MetaAutoAppliedHz    float64
	MetaAutoRangeLowPct  float64
	MetaAutoRangeHighPct float64
	MetaAutoOverclock    int
	MetaAutoFastPath     bool

	// DominantTracker/Trackers/TrackersActive report the tempo-tracker
	// election: which source currently has the clock, the manual mask
	// narrowing eligible sources when election isn't fully automatic, and
	// whether automatic election is armed at all.
	DominantTracker meta.TrackerSource
	Trackers        TempoTrackerMask
	TrackersActive  bool

	// OverclockAutoEnabled/OverclockAutoLevel report the Hz-only
	// auto-planner independent of the full meta-planner (spec.md §6.1
	// invariant 6: the two auto modes are mutually exclusive).
	OverclockAutoEnabled bool
	OverclockAutoLevel   int

	// PaletteFamilies/PaletteColorsPerFamily/PaletteCycleMode report the
	// effective Hue-brand palette configuration (spec.md §4.7/§6.4).
	PaletteFamilies        []palette.Family
	PaletteColorsPerFamily int
	PaletteCycleMode       palette.CycleMode

	// BrightnessTier/BrightnessPercent mirror the three-zone tiering the
	// emitter's brightness scaling applies (spec.md §4.8/§6.4), exposed
	// on telemetry so a caller can see the rendered brightness regime
	// without reaching into either brand's intent.
	BrightnessTier    BrightnessTier
	BrightnessPercent float64

	// TransportPressure is the current value of the decaying EMA fed by
	// TransportPressure external intents (spec.md §4.6), in [0,1].
	TransportPressure float64
}

// TempoTrackerMask mirrors engine.TempoTrackerMask on telemetry without
// creating an import cycle back into package engine.
type TempoTrackerMask struct {
	Baseline, Peaks, Transients, Flux bool
}

// BrightnessTier is the coarse brightness regime spec.md §6.4 names.
type BrightnessTier string

const (
	BrightnessSilent BrightnessTier = "silent"
	BrightnessLow    BrightnessTier = "low"
	BrightnessMedium BrightnessTier = "medium"
	BrightnessHigh   BrightnessTier = "high"
)

// BrightnessTierFor classifies a [0,1] brightness-like value into its
// three-zone tier (spec.md §4.8: "silent ≤0.11, low, medium, high").
func BrightnessTierFor(value float64) BrightnessTier {
	switch {
	case value <= 0.11:
		return BrightnessSilent
	case value <= 0.35:
		return BrightnessLow
	case value <= 0.7:
		return BrightnessMedium
	default:
		return BrightnessHigh
	}
}
