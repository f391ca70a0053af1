// Package genre holds the static, immutable reference tables the reactive
// core and meta-planner tune themselves against: per-genre coefficient
// profiles, reactivity presets, auto-profile debounce timings, and decade
// bias overlays. These are program data, laid out the same way the
// teacher lays out its vizThemes map of barTheme literals — no config
// files, no reflection, just enumerated Go literals.
package genre

// Genre is one of the twelve labels the meta-planner's classifier can
// choose between (spec.md §4.6 step 3).
type Genre string

const (
	EDM       Genre = "edm"
	HipHop    Genre = "hiphop"
	Metal     Genre = "metal"
	Ambient   Genre = "ambient"
	House     Genre = "house"
	Trance    Genre = "trance"
	DnB       Genre = "dnb"
	Pop       Genre = "pop"
	Rock      Genre = "rock"
	RnB       Genre = "rnb"
	Techno    Genre = "techno"
	Cyberpunk Genre = "cyberpunk"
)

// All enumerates every recognized genre label in a stable order, used by
// the classifier to iterate candidates deterministically.
var All = []Genre{EDM, HipHop, Metal, Ambient, House, Trance, DnB, Pop, Rock, RnB, Techno, Cyberpunk}

// Aggression is a static per-genre weight in [0,1] the meta-planner uses
// to promote power tiers earlier for genres whose reference tracks run
// on sustained heavy momentum rather than dynamics (spec.md §4.6).
var Aggression = map[Genre]float64{
	Metal:     0.95,
	DnB:       0.9,
	EDM:       0.85,
	Techno:    0.8,
	Cyberpunk: 0.75,
	House:     0.6,
	Trance:    0.55,
	Rock:      0.5,
	HipHop:    0.35,
	Pop:       0.3,
	RnB:       0.2,
	Ambient:   0.05,
}

// AggressionFor returns the named genre's aggression weight, or 0.3 (a
// neutral middle value) for an unrecognized genre.
func AggressionFor(g Genre) float64 {
	if v, ok := Aggression[g]; ok {
		return v
	}
	return 0.3
}

// HeavyPromoteGates are the genre-referenced gates the behavior FSM checks
// when deciding to promote flow straight to pulse (spec.md §4.4 rule 4).
type HeavyPromoteGates struct {
	Energy    float64
	Transient float64
	Flux      float64
	Motion    float64
}

// MotionWeights scale the contribution of beat confidence/transient/flux
// into the blended "motion" scalar (see spec.md glossary).
type MotionWeights struct {
	BeatConfidence float64
	Transient      float64
	Flux           float64
}

// QuietGates gate the behavior FSM's "quiet guard" (spec.md §4.4 rule 7).
type QuietGates struct {
	Rms       float64
	Transient float64
	Flux      float64
}

// ReferenceTrack carries the per-genre metadata spec.md §3 lists on
// GenreProfile: a representative track plus the small offsets derived
// from it.
type ReferenceTrack struct {
	Title            string
	Artist           string
	BPM              float64
	DetectBPM        bool
	BeatGapScale     float64
	IdleOffset       float64
	FlowOffset       float64
	PulseFloorOffset float64
	BeatThresholdBias float64
	BeatRiseBias      float64
}

// Profile is one GenreProfile table row: the ~40 coefficients that tune
// the energy follower, beat tracker, and behavior FSM for a given genre.
type Profile struct {
	// Energy follower gains (spec.md §4.2).
	AudioGain      float64
	PeakLift       float64
	TransientLift  float64
	ZcrLift        float64
	BandLiftLow    float64
	BandLiftMid    float64
	BandLiftHigh   float64
	FluxLift       float64
	VocalPenalty   float64
	IntensityFlux  float64
	IntensityHigh  float64

	// Beat tracker (spec.md §4.3).
	BeatThreshold float64
	BeatRiseGate  float64

	// Phrase detector (spec.md §4.3).
	BuildTrend     float64
	BuildEnergy    float64
	DropSlope      float64
	DropEnergyGate float64
	RecoverTrend   float64

	// Behavior FSM base thresholds (spec.md §4.4).
	IdleThreshold float64
	FlowThreshold float64
	Hysteresis    float64

	// Forced-override gates (spec.md §4.4 rules 2/3/4).
	ForcePulseFlux    float64
	ForcePulseEnergy  float64
	ForceFlowLowFlux  float64
	HeavyPromote      HeavyPromoteGates
	Motion            MotionWeights
	Quiet             QuietGates

	Reference ReferenceTrack
}

// Profiles is the static GenreProfile table, one row per recognized genre.
var Profiles = map[Genre]Profile{
	EDM: {
		AudioGain: 1.15, PeakLift: 0.22, TransientLift: 0.3, ZcrLift: 0.05,
		BandLiftLow: 0.18, BandLiftMid: 0.08, BandLiftHigh: 0.12, FluxLift: 0.24,
		VocalPenalty: 0.06, IntensityFlux: 0.22, IntensityHigh: 0.18,
		BeatThreshold: 0.52, BeatRiseGate: 0.14,
		BuildTrend: 0.05, BuildEnergy: 0.45, DropSlope: -0.06, DropEnergyGate: 0.55, RecoverTrend: 0.03,
		IdleThreshold: 0.16, FlowThreshold: 0.42, Hysteresis: 0.05,
		ForcePulseFlux: 0.72, ForcePulseEnergy: 0.62, ForceFlowLowFlux: 0.12,
		HeavyPromote: HeavyPromoteGates{Energy: 0.6, Transient: 0.5, Flux: 0.5, Motion: 0.55},
		Motion:       MotionWeights{BeatConfidence: 0.4, Transient: 0.3, Flux: 0.3},
		Quiet:        QuietGates{Rms: 0.07, Transient: 0.05, Flux: 0.05},
		Reference: ReferenceTrack{
			Title: "Strobe", Artist: "deadmau5", BPM: 128, DetectBPM: true, BeatGapScale: 1.0,
			IdleOffset: -0.01, FlowOffset: 0, PulseFloorOffset: 0,
			BeatThresholdBias: 0, BeatRiseBias: 0,
		},
	},
	HipHop: {
		AudioGain: 1.2, PeakLift: 0.26, TransientLift: 0.22, ZcrLift: 0.02,
		BandLiftLow: 0.3, BandLiftMid: 0.06, BandLiftHigh: 0.04, FluxLift: 0.14,
		VocalPenalty: 0.12, IntensityFlux: 0.14, IntensityHigh: 0.08,
		BeatThreshold: 0.48, BeatRiseGate: 0.16,
		BuildTrend: 0.04, BuildEnergy: 0.4, DropSlope: -0.05, DropEnergyGate: 0.5, RecoverTrend: 0.03,
		IdleThreshold: 0.14, FlowThreshold: 0.4, Hysteresis: 0.06,
		ForcePulseFlux: 0.78, ForcePulseEnergy: 0.6, ForceFlowLowFlux: 0.1,
		HeavyPromote: HeavyPromoteGates{Energy: 0.58, Transient: 0.42, Flux: 0.42, Motion: 0.5},
		Motion:       MotionWeights{BeatConfidence: 0.45, Transient: 0.25, Flux: 0.3},
		Quiet:        QuietGates{Rms: 0.08, Transient: 0.05, Flux: 0.04},
		Reference: ReferenceTrack{
			Title: "Alright", Artist: "Kendrick Lamar", BPM: 96, DetectBPM: true, BeatGapScale: 1.05,
			IdleOffset: 0, FlowOffset: 0.01, PulseFloorOffset: 0.02,
			BeatThresholdBias: 0.01, BeatRiseBias: 0,
		},
	},
	Metal: {
		AudioGain: 1.3, PeakLift: 0.3, TransientLift: 0.34, ZcrLift: 0.1,
		BandLiftLow: 0.2, BandLiftMid: 0.12, BandLiftHigh: 0.16, FluxLift: 0.28,
		VocalPenalty: 0.04, IntensityFlux: 0.26, IntensityHigh: 0.22,
		BeatThreshold: 0.55, BeatRiseGate: 0.12,
		BuildTrend: 0.06, BuildEnergy: 0.5, DropSlope: -0.07, DropEnergyGate: 0.6, RecoverTrend: 0.04,
		IdleThreshold: 0.18, FlowThreshold: 0.46, Hysteresis: 0.04,
		ForcePulseFlux: 0.7, ForcePulseEnergy: 0.65, ForceFlowLowFlux: 0.14,
		HeavyPromote: HeavyPromoteGates{Energy: 0.62, Transient: 0.52, Flux: 0.52, Motion: 0.58},
		Motion:       MotionWeights{BeatConfidence: 0.35, Transient: 0.35, Flux: 0.3},
		Quiet:        QuietGates{Rms: 0.07, Transient: 0.06, Flux: 0.06},
		Reference: ReferenceTrack{
			Title: "Master of Puppets", Artist: "Metallica", BPM: 220, DetectBPM: true, BeatGapScale: 0.95,
			IdleOffset: -0.02, FlowOffset: -0.01, PulseFloorOffset: -0.02,
			BeatThresholdBias: -0.01, BeatRiseBias: -0.01,
		},
	},
	Ambient: {
		AudioGain: 0.85, PeakLift: 0.1, TransientLift: 0.08, ZcrLift: 0.02,
		BandLiftLow: 0.06, BandLiftMid: 0.1, BandLiftHigh: 0.14, FluxLift: 0.1,
		VocalPenalty: 0.02, IntensityFlux: 0.16, IntensityHigh: 0.2,
		BeatThreshold: 0.7, BeatRiseGate: 0.22,
		BuildTrend: 0.02, BuildEnergy: 0.3, DropSlope: -0.03, DropEnergyGate: 0.35, RecoverTrend: 0.015,
		IdleThreshold: 0.1, FlowThreshold: 0.3, Hysteresis: 0.07,
		ForcePulseFlux: 0.85, ForcePulseEnergy: 0.75, ForceFlowLowFlux: 0.2,
		HeavyPromote: HeavyPromoteGates{Energy: 0.7, Transient: 0.65, Flux: 0.65, Motion: 0.68},
		Motion:       MotionWeights{BeatConfidence: 0.3, Transient: 0.3, Flux: 0.4},
		Quiet:        QuietGates{Rms: 0.05, Transient: 0.04, Flux: 0.04},
		Reference: ReferenceTrack{
			Title: "An Ending (Ascent)", Artist: "Brian Eno", BPM: 70, DetectBPM: false, BeatGapScale: 1.2,
			IdleOffset: 0.02, FlowOffset: 0.02, PulseFloorOffset: 0.05,
			BeatThresholdBias: 0.03, BeatRiseBias: 0.02,
		},
	},
	House: {
		AudioGain: 1.1, PeakLift: 0.2, TransientLift: 0.24, ZcrLift: 0.04,
		BandLiftLow: 0.2, BandLiftMid: 0.08, BandLiftHigh: 0.1, FluxLift: 0.2,
		VocalPenalty: 0.08, IntensityFlux: 0.2, IntensityHigh: 0.16,
		BeatThreshold: 0.5, BeatRiseGate: 0.15,
		BuildTrend: 0.045, BuildEnergy: 0.42, DropSlope: -0.05, DropEnergyGate: 0.5, RecoverTrend: 0.03,
		IdleThreshold: 0.15, FlowThreshold: 0.4, Hysteresis: 0.05,
		ForcePulseFlux: 0.74, ForcePulseEnergy: 0.6, ForceFlowLowFlux: 0.12,
		HeavyPromote: HeavyPromoteGates{Energy: 0.58, Transient: 0.44, Flux: 0.46, Motion: 0.5},
		Motion:       MotionWeights{BeatConfidence: 0.42, Transient: 0.28, Flux: 0.3},
		Quiet:        QuietGates{Rms: 0.07, Transient: 0.05, Flux: 0.05},
		Reference: ReferenceTrack{
			Title: "Finally", Artist: "CeCe Peniston", BPM: 124, DetectBPM: true, BeatGapScale: 1.0,
			IdleOffset: -0.005, FlowOffset: 0, PulseFloorOffset: 0,
			BeatThresholdBias: 0, BeatRiseBias: 0,
		},
	},
	Trance: {
		AudioGain: 1.1, PeakLift: 0.2, TransientLift: 0.2, ZcrLift: 0.04,
		BandLiftLow: 0.14, BandLiftMid: 0.1, BandLiftHigh: 0.18, FluxLift: 0.22,
		VocalPenalty: 0.05, IntensityFlux: 0.22, IntensityHigh: 0.2,
		BeatThreshold: 0.5, BeatRiseGate: 0.14,
		BuildTrend: 0.055, BuildEnergy: 0.42, DropSlope: -0.06, DropEnergyGate: 0.52, RecoverTrend: 0.035,
		IdleThreshold: 0.14, FlowThreshold: 0.4, Hysteresis: 0.05,
		ForcePulseFlux: 0.72, ForcePulseEnergy: 0.6, ForceFlowLowFlux: 0.12,
		HeavyPromote: HeavyPromoteGates{Energy: 0.58, Transient: 0.44, Flux: 0.46, Motion: 0.5},
		Motion:       MotionWeights{BeatConfidence: 0.4, Transient: 0.28, Flux: 0.32},
		Quiet:        QuietGates{Rms: 0.06, Transient: 0.05, Flux: 0.05},
		Reference: ReferenceTrack{
			Title: "Adagio for Strings", Artist: "Tiësto", BPM: 138, DetectBPM: true, BeatGapScale: 1.0,
			IdleOffset: 0, FlowOffset: 0.005, PulseFloorOffset: 0,
			BeatThresholdBias: 0, BeatRiseBias: 0,
		},
	},
	DnB: {
		AudioGain: 1.25, PeakLift: 0.28, TransientLift: 0.36, ZcrLift: 0.08,
		BandLiftLow: 0.26, BandLiftMid: 0.08, BandLiftHigh: 0.14, FluxLift: 0.3,
		VocalPenalty: 0.05, IntensityFlux: 0.28, IntensityHigh: 0.2,
		BeatThreshold: 0.48, BeatRiseGate: 0.12,
		BuildTrend: 0.06, BuildEnergy: 0.48, DropSlope: -0.07, DropEnergyGate: 0.56, RecoverTrend: 0.04,
		IdleThreshold: 0.16, FlowThreshold: 0.42, Hysteresis: 0.045,
		ForcePulseFlux: 0.68, ForcePulseEnergy: 0.58, ForceFlowLowFlux: 0.14,
		HeavyPromote: HeavyPromoteGates{Energy: 0.56, Transient: 0.4, Flux: 0.42, Motion: 0.48},
		Motion:       MotionWeights{BeatConfidence: 0.32, Transient: 0.36, Flux: 0.32},
		Quiet:        QuietGates{Rms: 0.07, Transient: 0.06, Flux: 0.06},
		Reference: ReferenceTrack{
			Title: "Inner City Life", Artist: "Goldie", BPM: 172, DetectBPM: true, BeatGapScale: 0.9,
			IdleOffset: -0.01, FlowOffset: -0.005, PulseFloorOffset: -0.01,
			BeatThresholdBias: -0.01, BeatRiseBias: -0.01,
		},
	},
	Pop: {
		AudioGain: 1.05, PeakLift: 0.18, TransientLift: 0.18, ZcrLift: 0.03,
		BandLiftLow: 0.12, BandLiftMid: 0.1, BandLiftHigh: 0.08, FluxLift: 0.14,
		VocalPenalty: 0.1, IntensityFlux: 0.16, IntensityHigh: 0.12,
		BeatThreshold: 0.52, BeatRiseGate: 0.16,
		BuildTrend: 0.04, BuildEnergy: 0.4, DropSlope: -0.045, DropEnergyGate: 0.46, RecoverTrend: 0.03,
		IdleThreshold: 0.15, FlowThreshold: 0.38, Hysteresis: 0.06,
		ForcePulseFlux: 0.76, ForcePulseEnergy: 0.6, ForceFlowLowFlux: 0.1,
		HeavyPromote: HeavyPromoteGates{Energy: 0.56, Transient: 0.42, Flux: 0.42, Motion: 0.48},
		Motion:       MotionWeights{BeatConfidence: 0.42, Transient: 0.28, Flux: 0.3},
		Quiet:        QuietGates{Rms: 0.07, Transient: 0.05, Flux: 0.05},
		Reference: ReferenceTrack{
			Title: "Blinding Lights", Artist: "The Weeknd", BPM: 171, DetectBPM: true, BeatGapScale: 1.0,
			IdleOffset: 0, FlowOffset: 0, PulseFloorOffset: 0,
			BeatThresholdBias: 0, BeatRiseBias: 0,
		},
	},
	Rock: {
		AudioGain: 1.15, PeakLift: 0.24, TransientLift: 0.26, ZcrLift: 0.06,
		BandLiftLow: 0.16, BandLiftMid: 0.14, BandLiftHigh: 0.1, FluxLift: 0.2,
		VocalPenalty: 0.06, IntensityFlux: 0.2, IntensityHigh: 0.14,
		BeatThreshold: 0.52, BeatRiseGate: 0.14,
		BuildTrend: 0.05, BuildEnergy: 0.44, DropSlope: -0.055, DropEnergyGate: 0.52, RecoverTrend: 0.035,
		IdleThreshold: 0.16, FlowThreshold: 0.42, Hysteresis: 0.05,
		ForcePulseFlux: 0.72, ForcePulseEnergy: 0.62, ForceFlowLowFlux: 0.12,
		HeavyPromote: HeavyPromoteGates{Energy: 0.58, Transient: 0.46, Flux: 0.46, Motion: 0.5},
		Motion:       MotionWeights{BeatConfidence: 0.36, Transient: 0.34, Flux: 0.3},
		Quiet:        QuietGates{Rms: 0.07, Transient: 0.06, Flux: 0.05},
		Reference: ReferenceTrack{
			Title: "Are You Gonna Go My Way", Artist: "Lenny Kravitz", BPM: 112, DetectBPM: true, BeatGapScale: 1.0,
			IdleOffset: -0.005, FlowOffset: 0, PulseFloorOffset: 0,
			BeatThresholdBias: 0, BeatRiseBias: 0,
		},
	},
	RnB: {
		AudioGain: 1.0, PeakLift: 0.16, TransientLift: 0.14, ZcrLift: 0.02,
		BandLiftLow: 0.16, BandLiftMid: 0.1, BandLiftHigh: 0.06, FluxLift: 0.12,
		VocalPenalty: 0.14, IntensityFlux: 0.14, IntensityHigh: 0.1,
		BeatThreshold: 0.55, BeatRiseGate: 0.18,
		BuildTrend: 0.035, BuildEnergy: 0.36, DropSlope: -0.04, DropEnergyGate: 0.42, RecoverTrend: 0.025,
		IdleThreshold: 0.13, FlowThreshold: 0.36, Hysteresis: 0.065,
		ForcePulseFlux: 0.8, ForcePulseEnergy: 0.64, ForceFlowLowFlux: 0.1,
		HeavyPromote: HeavyPromoteGates{Energy: 0.58, Transient: 0.44, Flux: 0.44, Motion: 0.5},
		Motion:       MotionWeights{BeatConfidence: 0.46, Transient: 0.24, Flux: 0.3},
		Quiet:        QuietGates{Rms: 0.06, Transient: 0.04, Flux: 0.04},
		Reference: ReferenceTrack{
			Title: "Adorn", Artist: "Miguel", BPM: 98, DetectBPM: true, BeatGapScale: 1.05,
			IdleOffset: 0.01, FlowOffset: 0.01, PulseFloorOffset: 0.02,
			BeatThresholdBias: 0.01, BeatRiseBias: 0.01,
		},
	},
	Techno: {
		AudioGain: 1.2, PeakLift: 0.24, TransientLift: 0.28, ZcrLift: 0.05,
		BandLiftLow: 0.22, BandLiftMid: 0.06, BandLiftHigh: 0.1, FluxLift: 0.24,
		VocalPenalty: 0.04, IntensityFlux: 0.24, IntensityHigh: 0.18,
		BeatThreshold: 0.48, BeatRiseGate: 0.13,
		BuildTrend: 0.05, BuildEnergy: 0.44, DropSlope: -0.06, DropEnergyGate: 0.54, RecoverTrend: 0.035,
		IdleThreshold: 0.16, FlowThreshold: 0.42, Hysteresis: 0.045,
		ForcePulseFlux: 0.7, ForcePulseEnergy: 0.6, ForceFlowLowFlux: 0.13,
		HeavyPromote: HeavyPromoteGates{Energy: 0.58, Transient: 0.44, Flux: 0.46, Motion: 0.5},
		Motion:       MotionWeights{BeatConfidence: 0.38, Transient: 0.3, Flux: 0.32},
		Quiet:        QuietGates{Rms: 0.07, Transient: 0.05, Flux: 0.05},
		Reference: ReferenceTrack{
			Title: "Spastik", Artist: "Plastikman", BPM: 130, DetectBPM: true, BeatGapScale: 1.0,
			IdleOffset: -0.01, FlowOffset: 0, PulseFloorOffset: 0,
			BeatThresholdBias: 0, BeatRiseBias: 0,
		},
	},
	Cyberpunk: {
		AudioGain: 1.15, PeakLift: 0.22, TransientLift: 0.26, ZcrLift: 0.07,
		BandLiftLow: 0.16, BandLiftMid: 0.12, BandLiftHigh: 0.18, FluxLift: 0.26,
		VocalPenalty: 0.05, IntensityFlux: 0.24, IntensityHigh: 0.22,
		BeatThreshold: 0.5, BeatRiseGate: 0.14,
		BuildTrend: 0.05, BuildEnergy: 0.42, DropSlope: -0.06, DropEnergyGate: 0.52, RecoverTrend: 0.035,
		IdleThreshold: 0.15, FlowThreshold: 0.4, Hysteresis: 0.05,
		ForcePulseFlux: 0.72, ForcePulseEnergy: 0.6, ForceFlowLowFlux: 0.12,
		HeavyPromote: HeavyPromoteGates{Energy: 0.58, Transient: 0.44, Flux: 0.46, Motion: 0.5},
		Motion:       MotionWeights{BeatConfidence: 0.36, Transient: 0.3, Flux: 0.34},
		Quiet:        QuietGates{Rms: 0.06, Transient: 0.05, Flux: 0.05},
		Reference: ReferenceTrack{
			Title: "Flathead", Artist: "The Fratellis", BPM: 126, DetectBPM: true, BeatGapScale: 1.0,
			IdleOffset: 0, FlowOffset: 0, PulseFloorOffset: 0,
			BeatThresholdBias: 0, BeatRiseBias: 0,
		},
	},
}

// Default is the fallback profile used before any genre has been
// classified, and when a caller asks for an unrecognized genre key.
var Default = Profiles[Pop]

// Lookup returns the profile for g, or Default if g is unrecognized.
func Lookup(g Genre) Profile {
	if p, ok := Profiles[g]; ok {
		return p
	}
	return Default
}
