package emitter

import (
	"math"
	"time"

	"github.com/cybre/reactive-light-engine/internal/palette"
)

// tierIntervalsMs is the canonical 13-tier emission interval table
// spec.md §3 invariant 3 and §4.8 name explicitly, indexed by overclock
// level 0 (slowest, 2 Hz) through 12 (fastest, ~60 Hz).
var tierIntervalsMs = [13]float64{
	500, 250, 167, 125, 100, 83, 71, 62, 50, 33, 25, 20, 17,
}

// MaxOverclockLevel is the highest index into the tier table (spec.md
// §3 invariant 3: "overclockLevel ∈ [0, 12]").
const MaxOverclockLevel = len(tierIntervalsMs) - 1

// overclockAliases maps the named shortcuts spec.md §6.1 lists
// (setOverclock(level|string)) onto concrete tier indices. "ludicrous"
// and "destructive60" are pinned to the exact Hz spec.md §6.1 names (16
// Hz and 60 Hz); the x2..x11 aliases spread evenly across the
// remaining tiers.
var overclockAliases = map[string]int{
	"x1": 0, "chill": 0,
	"x2":           1,
	"x3":           2,
	"x4":           3,
	"x5":           4,
	"balanced":     4,
	"x6":           5,
	"x7":           6,
	"turbo8":       7,
	"ludicrous":    7, // 62ms tier ≈ 16 Hz
	"x9":           8,
	"x10":          9,
	"x11":          11,
	"destructive60": 12, // 17ms tier ≈ 60 Hz
}

// ResolveOverclockAlias resolves a named overclock alias to its tier
// index, reporting ok=false for anything unrecognized.
func ResolveOverclockAlias(name string) (int, bool) {
	lvl, ok := overclockAliases[name]
	return lvl, ok
}

// TierFromHz quantizes a continuous Hz target to the nearest tier by Hz
// distance, ties breaking toward the higher Hz (spec.md §3 invariant 4:
// "mapping to overclock level is monotone and rounds to the closest
// tier; ties break toward the higher Hz").
func TierFromHz(hz float64) int {
	if hz <= 0 {
		return 0
	}
	best := 0
	bestDist := math.MaxFloat64
	for i, ms := range tierIntervalsMs {
		tierHz := 1000 / ms
		dist := math.Abs(tierHz - hz)
		if dist < bestDist || (dist == bestDist && tierHz > 1000/tierIntervalsMs[best]) {
			bestDist = dist
			best = i
		}
	}
	return best
}

// IntervalMsForTier returns the canonical emission interval for a tier,
// clamped into the table's range. Used to populate the rateMs field of
// an emitted Intent with "effective pacing this tick" (spec.md §6.2).
func IntervalMsForTier(tier int) float64 {
	if tier < 0 {
		tier = 0
	}
	if tier > MaxOverclockLevel {
		tier = MaxOverclockLevel
	}
	return tierIntervalsMs[tier]
}

// cadenceBounds is a brand's allowed emission-interval window (spec.md
// §4.8): the cadence-modulated interval may never leave [minMs, maxMs],
// nor fall below maxOfBase * the tier's own base interval.
type cadenceBounds struct {
	minMs     float64
	maxMs     float64
	maxOfBase float64
}

// brandCadenceBounds gives each brand its own named rhythm-cadence
// window (spec.md §4.8: Hue in [84,340]ms capped at 1.08x base, WiZ in
// [74,300]ms capped at 0.98x base — WiZ's transport runs a touch ahead
// of Hue's).
var brandCadenceBounds = map[palette.Brand]cadenceBounds{
	palette.BrandHue: {minMs: 84, maxMs: 340, maxOfBase: 1.08},
	palette.BrandWiz: {minMs: 74, maxMs: 300, maxOfBase: 0.98},
}

// RhythmCadence bundles the per-tick rhythm signals a Scheduler blends
// into its cadence pull: an imminent-beat ETA, whether this frame is a
// drum hit, and this frame's transient/flux relative to the engine's
// running baseline (spec.md §4.8: "drums, beat-recency, relative
// transient, and relative flux").
type RhythmCadence struct {
	BeatEtaMs         float64
	Drums             bool
	RelativeTransient float64
	RelativeFlux      float64
}

// Scheduler paces one brand's emissions against a deadline instead of a
// fixed ticker: each Due call either reports that the brand's deadline
// has passed (and advances it forward from itself rather than from
// "now", so timing doesn't drift; only a stall long enough to leave that
// in the past resnaps it from "now") or reports not yet due. A per-tick
// rhythm-cadence bonus can pull the next deadline closer, bounded by the
// brand's own cadence window, to land an emission near a predicted beat.
type Scheduler struct {
	brand    palette.Brand
	tier     int
	deadline time.Time
	lastFire time.Time
}

// NewScheduler constructs a Scheduler for the given brand starting at
// the given tier, with its first deadline at `now`, so the very first
// Due call fires immediately.
func NewScheduler(brand palette.Brand, tier int, now time.Time) *Scheduler {
	return &Scheduler{brand: brand, tier: tier, deadline: now}
}

// SetTier updates the scheduler's quantized rate. Takes effect on the
// next computed deadline.
func (s *Scheduler) SetTier(tier int) {
	if tier < 0 {
		tier = 0
	}
	if tier >= len(tierIntervalsMs) {
		tier = len(tierIntervalsMs) - 1
	}
	s.tier = tier
}

// Due reports whether it's time to emit, and if so, schedules the next
// deadline one interval forward of the one that just fired (the
// "monotonic-forward" guard, so a delayed caller doesn't get a burst of
// back-to-back due calls), resnapping from `now` only when that would
// still be in the past. rhythm's cadence pull narrows the interval
// toward an imminent beat, clamped into this scheduler's brand-specific
// cadence window; it is read on every call, so a pending deadline later
// than the last fire plus the narrowed interval is pulled in first.
func (s *Scheduler) Due(now time.Time, rhythm RhythmCadence) bool {
	base := tierIntervalsMs[s.tier]
	interval := base

	if bounds, ok := brandCadenceBounds[s.brand]; ok {
		pull := cadencePull(rhythm)
		if pull > 0 && pull < interval {
			interval = pull
		}
		capMs := base * bounds.maxOfBase
		if capMs < bounds.minMs {
			capMs = bounds.minMs
		}
		if interval < bounds.minMs {
			interval = bounds.minMs
		}
		if interval > bounds.maxMs {
			interval = bounds.maxMs
		}
		if interval > capMs {
			interval = capMs
		}
	} else if rhythm.BeatEtaMs > 0 && rhythm.BeatEtaMs < interval*0.6 {
		interval = rhythm.BeatEtaMs
	}

	if !s.lastFire.IsZero() {
		if pulled := s.lastFire.Add(time.Duration(interval) * time.Millisecond); pulled.Before(s.deadline) {
			s.deadline = pulled
		}
	}
	if now.Before(s.deadline) {
		return false
	}

	from := s.deadline
	next := from.Add(time.Duration(interval) * time.Millisecond)

	// Resnap: if the caller stalled long enough that the computed next
	// deadline is still in the past, jump forward from now instead of
	// replaying a long backlog of "due" ticks.
	if next.Before(now) {
		from = now
		next = now.Add(time.Duration(base) * time.Millisecond)
	}

	s.lastFire = from
	s.deadline = next
	return true
}

// cadencePull blends an imminent-beat ETA with drum/transient/flux
// evidence into a single candidate interval (ms) to pull the next
// deadline toward; the strongest (smallest, nonzero) signal wins.
func cadencePull(r RhythmCadence) float64 {
	pull := 0.0
	if r.BeatEtaMs > 0 {
		pull = r.BeatEtaMs
	}

	drumsPull := math.MaxFloat64
	if r.Drums {
		drumsPull = 60
	}
	transientPull := math.MaxFloat64
	if r.RelativeTransient > 0 {
		transientPull = 220 * (1 - clamp01(r.RelativeTransient))
	}
	fluxPull := math.MaxFloat64
	if r.RelativeFlux > 0 {
		fluxPull = 260 * (1 - clamp01(r.RelativeFlux))
	}

	for _, candidate := range []float64{drumsPull, transientPull, fluxPull} {
		if candidate > 0 && candidate < math.MaxFloat64 && (pull <= 0 || candidate < pull) {
			pull = candidate
		}
	}
	return pull
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
