package genre

// ReactivityPresetName selects a multiplier overlay applied on top of the
// active Profile (spec.md §3).
type ReactivityPresetName string

const (
	Balanced   ReactivityPresetName = "balanced"
	Aggressive ReactivityPresetName = "aggressive"
	Precision  ReactivityPresetName = "precision"
)

// ReactivityPreset is a multiplier overlay: every field scales the
// matching Profile coefficient before it is used.
type ReactivityPreset struct {
	GainMul           float64
	BeatThresholdMul  float64
	BeatRiseMul       float64
	HysteresisMul     float64
	HeavyPromoteMul   float64
}

// ReactivityPresets is the static table of recognized overlays.
var ReactivityPresets = map[ReactivityPresetName]ReactivityPreset{
	Balanced:   {GainMul: 1.0, BeatThresholdMul: 1.0, BeatRiseMul: 1.0, HysteresisMul: 1.0, HeavyPromoteMul: 1.0},
	Aggressive: {GainMul: 1.22, BeatThresholdMul: 0.88, BeatRiseMul: 0.85, HysteresisMul: 0.75, HeavyPromoteMul: 0.85},
	Precision:  {GainMul: 0.9, BeatThresholdMul: 1.12, BeatRiseMul: 1.15, HysteresisMul: 1.3, HeavyPromoteMul: 1.15},
}

// LookupReactivity returns the named preset, or Balanced if unrecognized.
func LookupReactivity(name ReactivityPresetName) ReactivityPreset {
	if p, ok := ReactivityPresets[name]; ok {
		return p
	}
	return ReactivityPresets[Balanced]
}

// AutoProfileName selects a debounce-timing/hysteresis family (spec.md §3).
type AutoProfileName string

const (
	Reactive  AutoProfileName = "reactive"
	AutoBalanced AutoProfileName = "balanced"
	Cinematic AutoProfileName = "cinematic"
)

// AutoProfile carries the behavior/scene debounce timings and hysteresis
// scale spec.md §4.4/§4.5 reference as "auto-profile biases".
type AutoProfile struct {
	ConfirmMs          int64
	HoldMs             int64
	SceneConfirmMs      int64
	SceneHoldMs         int64
	AutoFlowConfirmMs   int64
	AutoFlowHoldMs      int64
	HysteresisScale     float64
	MetaConfirmMs       int64
	MetaHoldMs          int64
}

// AutoProfiles is the static table of recognized debounce families.
var AutoProfiles = map[AutoProfileName]AutoProfile{
	Reactive: {
		ConfirmMs: 60, HoldMs: 220,
		SceneConfirmMs: 120, SceneHoldMs: 260,
		AutoFlowConfirmMs: 180, AutoFlowHoldMs: 420,
		HysteresisScale: 0.75,
		MetaConfirmMs:   100, MetaHoldMs: 220,
	},
	AutoBalanced: {
		ConfirmMs: 120, HoldMs: 420,
		SceneConfirmMs: 220, SceneHoldMs: 520,
		AutoFlowConfirmMs: 320, AutoFlowHoldMs: 700,
		HysteresisScale: 1.0,
		MetaConfirmMs:   220, MetaHoldMs: 420,
	},
	Cinematic: {
		ConfirmMs: 260, HoldMs: 900,
		SceneConfirmMs: 420, SceneHoldMs: 1100,
		AutoFlowConfirmMs: 600, AutoFlowHoldMs: 1400,
		HysteresisScale: 1.4,
		MetaConfirmMs:   460, MetaHoldMs: 900,
	},
}

// LookupAutoProfile returns the named auto-profile, or AutoBalanced if
// unrecognized.
func LookupAutoProfile(name AutoProfileName) AutoProfile {
	if p, ok := AutoProfiles[name]; ok {
		return p
	}
	return AutoProfiles[AutoBalanced]
}

// Decade is the resolved decade bucket a GenreDecade mode maps to.
type Decade string

const (
	Decade90s Decade = "90s"
	Decade00s Decade = "00s"
	Decade10s Decade = "10s"
	Decade20s Decade = "20s"
)

// DecadeMode is the recognized GenreDecade.mode value (spec.md §3).
type DecadeMode string

const (
	DecadeAuto DecadeMode = "auto"
	DecadeMode90s DecadeMode = "90s"
	DecadeMode00s DecadeMode = "00s"
	DecadeMode10s DecadeMode = "10s"
	DecadeMode20s DecadeMode = "20s"
)

// DecadeBias is the per-decade offset overlay applied to the selected
// reference track's small offsets.
type DecadeBias struct {
	IdleOffsetDelta       float64
	FlowOffsetDelta       float64
	PulseFloorOffsetDelta float64
	BeatThresholdDelta    float64
}

// DecadeBiases is the static per-decade overlay table.
var DecadeBiases = map[Decade]DecadeBias{
	Decade90s: {IdleOffsetDelta: 0.01, FlowOffsetDelta: 0.01, PulseFloorOffsetDelta: 0.01, BeatThresholdDelta: 0.01},
	Decade00s: {IdleOffsetDelta: 0.005, FlowOffsetDelta: 0.005, PulseFloorOffsetDelta: 0.005, BeatThresholdDelta: 0.005},
	Decade10s: {IdleOffsetDelta: 0, FlowOffsetDelta: 0, PulseFloorOffsetDelta: 0, BeatThresholdDelta: 0},
	Decade20s: {IdleOffsetDelta: -0.005, FlowOffsetDelta: -0.005, PulseFloorOffsetDelta: -0.005, BeatThresholdDelta: -0.005},
}

// ResolveDecade resolves a GenreDecade mode into a concrete Decade. In
// "auto" mode every genre resolves to the 2010s bucket, which is the
// decade spanning the reference-track table's median release year; a
// real deployment would instead infer the decade from tempo/production
// cues the upstream extractor could supply, which this core's scope does
// not include.
func ResolveDecade(mode DecadeMode, g Genre) Decade {
	switch mode {
	case DecadeMode90s:
		return Decade90s
	case DecadeMode00s:
		return Decade00s
	case DecadeMode10s:
		return Decade10s
	case DecadeMode20s:
		return Decade20s
	default:
		return Decade10s
	}
}

// LookupDecadeBias returns the named decade's bias overlay, or the 2010s
// (zero) overlay if unrecognized.
func LookupDecadeBias(d Decade) DecadeBias {
	if b, ok := DecadeBiases[d]; ok {
		return b
	}
	return DecadeBiases[Decade10s]
}
