package meta

import (
	"math"

	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/emitter"
	"github.com/cybre/reactive-light-engine/internal/genre"
)

const (
	metaMinHz  = 2.0
	metaMaxHz  = 16.0
	metaBaseHz = 6.0

	slewUpBase       = 1.25
	slewDownBase     = 1.08
	slewEvalWindowMs = 60.0

	pressureMaxCut = 0.6

	rangeAnchorUpAlpha   = 0.02
	rangeAnchorDownAlpha = 0.01
	rangeAnchorRelaxDiv  = 8.0
)

// PlannerInputs bundles the per-tick signals the meta-planner reacts to
// (spec.md §4.6).
type PlannerInputs struct {
	Behavior        core.BehaviorState
	Intensity       float64
	Motion          float64
	Drop            bool
	Build           bool
	Pressure        float64
	Genre           genre.Genre
	GenreConfidence float64
	Tracker         TrackerSource
	DtMs            float64
}

// MetaPlan is the meta-planner's per-tick output: the jointly planned
// {profile, reactivity, overclock} triple spec.md §4.6 step 5 calls for,
// the Hz this tick's plan targets before/after slew, and a short
// human-readable reason for telemetry.
type MetaPlan struct {
	AutoProfile    genre.AutoProfileName
	Reactivity     genre.ReactivityPresetName
	OverclockLevel int
	Reason         string
	MetaGenre      genre.Genre
	IntentHz       float64
	TargetHz       float64
	RangeLow       float64
	RangeHigh      float64
	FastPath       bool
}

// Planner implements spec.md §4.6's meta-planner: it derives a coarse
// power tier from blended intensity/motion (biased earlier for
// aggressive genres), jointly selects {profile, reactivity} from that
// tier, and computes a slew-limited target Hz blending a curved/linear
// power mapping, tempo-tracker-election bias, a dynamic-range anchor
// estimate of where "now" sits between this session's quiet/loud
// extremes, and transport back-pressure. The whole plan is debounced as
// one unit, the same candidate/commit shape Classifier uses for genre,
// with fastPath halving both timers under drop/build/high-tier
// conditions so the plan doesn't lag the moment that triggered it.
type Planner struct {
	currentHz float64

	rangeLow  float64
	rangeHigh float64

	committedProfile    genre.AutoProfileName
	committedReactivity genre.ReactivityPresetName
	committedOverclock  int

	candidateProfile    genre.AutoProfileName
	candidateReactivity genre.ReactivityPresetName
	candidateOverclock  int
	candidateMs         float64
	sinceChangeMs       float64
}

// NewPlanner constructs a Planner starting at metaBaseHz with a balanced
// profile/reactivity and a wide-open dynamic-range estimate.
func NewPlanner() *Planner {
	return &Planner{
		currentHz:            metaBaseHz,
		rangeLow:             0.2,
		rangeHigh:            0.6,
		committedProfile:     genre.AutoBalanced,
		committedReactivity:  genre.Balanced,
		committedOverclock:   emitter.TierFromHz(metaBaseHz),
		candidateProfile:     genre.AutoBalanced,
		candidateReactivity:  genre.Balanced,
		candidateOverclock:   emitter.TierFromHz(metaBaseHz),
	}
}

// Step computes this tick's MetaPlan.
func (p *Planner) Step(in PlannerInputs) MetaPlan {
	power := clamp01(0.6*in.Intensity + 0.4*in.Motion)
	aggression := genre.AggressionFor(in.Genre) * in.GenreConfidence

	tier := tierFromPower(power)
	if aggression > 0.6 && power > 0.55 && tier < 3 {
		tier++
	}
	if in.Drop && tier < 4 {
		tier = 4
	}

	nextProfile, nextReactivity := profileForTier(tier, aggression)
	// step 5's "force precision→balanced when profile is reactive": the
	// reactive auto-profile's tight confirm/hold windows are meant to
	// pair with a responsive reactivity preset, not the deliberately
	// damped precision one.
	if nextProfile == genre.Reactive && nextReactivity == genre.Precision {
		nextReactivity = genre.Balanced
	}

	wanted := p.targetHz(power, in)
	wanted = p.slewLimit(wanted, in)
	p.currentHz = wanted

	nextOverclock := emitter.TierFromHz(wanted)
	fastPath := in.Drop || in.Build || tier >= 3
	committedOverclock := p.commitPlan(nextProfile, nextReactivity, nextOverclock, fastPath, in.DtMs)

	return MetaPlan{
		AutoProfile:    p.committedProfile,
		Reactivity:     p.committedReactivity,
		OverclockLevel: committedOverclock,
		Reason:         reasonFor(tier, in),
		MetaGenre:      in.Genre,
		IntentHz:       wanted,
		TargetHz:       p.currentHz,
		RangeLow:       p.rangeLow,
		RangeHigh:      p.rangeHigh,
		FastPath:       fastPath,
	}
}

// targetHz blends a curved and linear power-to-Hz mapping, a
// motion/intensity/drop/build lift, an elected-tempo-tracker bias, a
// dynamic-range anchor estimate, and transport-pressure back-pressure
// into this tick's unclamped, unslewed wanted Hz.
func (p *Planner) targetHz(power float64, in PlannerInputs) float64 {
	curved := metaMinHz + (metaMaxHz-metaMinHz)*math.Pow(power, 1.6)
	linear := metaMinHz + (metaMaxHz-metaMinHz)*power
	tempoBase := (curved + linear) / 2

	tempoLift := in.Motion*2.2 + in.Intensity*1.4
	switch {
	case in.Drop:
		tempoLift += 3.0
	case in.Build:
		tempoLift += 1.6
	case power < 0.05:
		tempoLift -= 2.2
	}

	trackerBias := 0.0
	if in.Tracker == TrackerExternal {
		// an externally elected clock is already a confident tempo
		// estimate; lean the plan a little faster to track it closely.
		trackerBias = 0.5
	}

	p.rangeLow = trackAnchor(p.rangeLow, power, rangeAnchorDownAlpha, power < p.rangeLow)
	p.rangeHigh = trackAnchor(p.rangeHigh, power, rangeAnchorUpAlpha, power > p.rangeHigh)
	span := p.rangeHigh - p.rangeLow
	if span < 0.05 {
		span = 0.05
	}
	dynamicRangeHz := metaMinHz + (metaMaxHz-metaMinHz)*clamp01((power-p.rangeLow)/span)

	wanted := (tempoBase+tempoLift)*0.7 + dynamicRangeHz*0.3 + trackerBias
	if in.Pressure > 0 {
		wanted *= 1 - pressureMaxCut*clamp01(in.Pressure)
	}
	return clampHz(wanted, metaMinHz, metaMaxHz)
}

// slewLimit applies spec.md §4.6 step 6's asymmetric per-eval slew: Hz
// can climb faster than it falls, both rates widen under drop/build or
// heavy transport pressure, and a stuck mid-band reading (6-10Hz, the
// most visually ambiguous range) gets a deliberate kick either way
// instead of idling there.
func (p *Planner) slewLimit(wanted float64, in PlannerInputs) float64 {
	upFactor := slewUpBase
	downFactor := slewDownBase
	if in.Drop || in.Build {
		upFactor += 0.35
	}
	if in.Pressure > 0.3 {
		downFactor += 0.12
	}

	if p.currentHz >= 6 && p.currentHz <= 10 && math.Abs(wanted-p.currentHz) < 0.4 {
		if wanted >= p.currentHz {
			wanted = p.currentHz * 1.15
		} else {
			wanted = p.currentHz * 0.9
		}
	}

	steps := in.DtMs / slewEvalWindowMs
	if steps <= 0 {
		steps = 0.001
	}
	maxUp := p.currentHz * math.Pow(upFactor, steps)
	maxDown := p.currentHz / math.Pow(downFactor, steps)
	if wanted > maxUp {
		wanted = maxUp
	}
	if wanted < maxDown {
		wanted = maxDown
	}
	return clampHz(wanted, metaMinHz, metaMaxHz)
}

// commitPlan debounces the jointly-planned {profile, reactivity,
// overclock} triple as a single unit, reusing the balanced auto-
// profile's own MetaConfirmMs/MetaHoldMs as the base debounce window.
// fastPath halves both; an overclock jump of a full level or more is
// itself treated as urgent enough to only need half the hold.
func (p *Planner) commitPlan(nextProfile genre.AutoProfileName, nextReactivity genre.ReactivityPresetName, nextOverclock int, fastPath bool, dtMs float64) int {
	base := genre.AutoProfiles[genre.AutoBalanced]
	confirmMs := float64(base.MetaConfirmMs)
	holdMs := float64(base.MetaHoldMs)
	if fastPath {
		confirmMs /= 2
		holdMs /= 2
	}

	p.sinceChangeMs += dtMs

	changed := nextProfile != p.candidateProfile || nextReactivity != p.candidateReactivity || nextOverclock != p.candidateOverclock
	if changed {
		p.candidateProfile = nextProfile
		p.candidateReactivity = nextReactivity
		p.candidateOverclock = nextOverclock
		p.candidateMs = 0
	}
	p.candidateMs += dtMs

	effectiveHold := holdMs
	if absInt(nextOverclock-p.committedOverclock) >= 1 {
		effectiveHold = holdMs / 2
	}

	if p.sinceChangeMs >= effectiveHold && p.candidateMs >= confirmMs {
		if p.committedProfile != p.candidateProfile || p.committedReactivity != p.candidateReactivity || p.committedOverclock != p.candidateOverclock {
			p.committedProfile = p.candidateProfile
			p.committedReactivity = p.candidateReactivity
			p.committedOverclock = p.candidateOverclock
			p.sinceChangeMs = 0
		}
	}

	return p.committedOverclock
}

func tierFromPower(power float64) int {
	switch {
	case power > 0.82:
		return 4
	case power > 0.64:
		return 3
	case power > 0.45:
		return 2
	case power > 0.25:
		return 1
	default:
		return 0
	}
}

// profileForTier chooses {profile, reactivity} from the coarse power
// tier plus aggression, per spec.md §4.6 step 5 ("choose nextProfile
// and nextReactivity from tier, aggression, motion, drive").
func profileForTier(tier int, aggression float64) (genre.AutoProfileName, genre.ReactivityPresetName) {
	switch {
	case tier >= 4:
		return genre.Reactive, genre.Aggressive
	case tier == 3:
		if aggression > 0.6 {
			return genre.Reactive, genre.Aggressive
		}
		return genre.Reactive, genre.Balanced
	case tier == 2:
		return genre.AutoBalanced, genre.Balanced
	case tier == 1:
		return genre.AutoBalanced, genre.Precision
	default:
		return genre.Cinematic, genre.Precision
	}
}

func reasonFor(tier int, in PlannerInputs) string {
	switch {
	case in.Drop:
		return "drop"
	case in.Build:
		return "build"
	case tier >= 4:
		return "heavy"
	case tier <= 0:
		return "calm"
	default:
		return "steady"
	}
}

// trackAnchor nudges a dynamic-range anchor toward sample at alpha when
// moving in its own direction (directionOK), and otherwise lets it relax
// slowly back at a fraction of that rate, so a single spike doesn't pin
// the anchor forever but a sustained new extreme still moves it quickly.
func trackAnchor(current, sample, alpha float64, directionOK bool) float64 {
	if !directionOK {
		return current + (sample-current)*(alpha/rangeAnchorRelaxDiv)
	}
	return current + (sample-current)*alpha
}

func clampHz(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
