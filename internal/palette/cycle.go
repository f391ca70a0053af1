package palette

import "github.com/cybre/reactive-light-engine/internal/colormath"

// CycleMode selects how a Cycler advances through its sequence
// (spec.md §4.7).
type CycleMode string

const (
	// CycleOnTrigger advances one step exactly when Step is called with
	// trigger=true (typically wired to the beat tracker's BeatEvent).
	CycleOnTrigger CycleMode = "on_trigger"
	// CycleTimed advances continuously at a fixed period regardless of
	// audio content.
	CycleTimed CycleMode = "timed_cycle"
	// CycleReactiveShift continuously rotates hue in proportion to the
	// current energy/intensity instead of stepping through discrete
	// sequence entries.
	CycleReactiveShift CycleMode = "reactive_shift"
	// CycleSpectrumMapper ignores sequence position and instead picks one
	// of the sequence's evenly spread anchors, the one whose slot's
	// feature reads highest under the configured feature-to-slot map
	// (spec.md §4.7's SpectrumFeatureMap).
	CycleSpectrumMapper CycleMode = "spectrum_mapper"
)

const spectrumStickyDelta = 0.05

// Cycler walks a built sequence according to one of the four cycle
// modes, holding whatever small amount of state each mode needs (index,
// phase, accumulated rotation, timed-cycle grace clock, spectrum-mapper
// stickiness).
type Cycler struct {
	sequence []colormath.HSV
	index    int
	phaseMs  float64
	shiftDeg float64

	waitingBeat  bool
	graceMs      float64
	spectrumIdx  int
	spectrumHave bool
}

// NewCycler constructs a Cycler over seq. An empty sequence is valid;
// Current returns the zero HSV until SetSequence is given content.
func NewCycler(seq []colormath.HSV) *Cycler {
	return &Cycler{sequence: seq}
}

// SetSequence replaces the underlying sequence, clamping the current
// index into range.
func (c *Cycler) SetSequence(seq []colormath.HSV) {
	c.sequence = seq
	if c.index >= len(seq) {
		c.index = 0
	}
	if c.spectrumIdx >= len(seq) {
		c.spectrumIdx = 0
	}
}

// Current returns the color the last Step call produced.
func (c *Cycler) Current() colormath.HSV {
	if len(c.sequence) == 0 {
		return colormath.HSV{}
	}
	return c.sequence[c.index%len(c.sequence)]
}

// StepInputs bundles the per-tick signals a Cycler may need depending on
// its mode; the feature fields (RMS/Peak/Transient/Flux/Energy/BandLow/
// Mid/High, with Trigger standing in for beat) are the full set spec.md
// §4.7 allows a SpectrumFeatureMap slot to name.
type StepInputs struct {
	DtMs      float64
	Trigger   bool
	Drop      bool
	Intensity float64
	Energy    float64
	RMS       float64
	Peak      float64
	Transient float64
	Flux      float64
	BandLow   float64
	BandMid   float64
	BandHigh  float64
}

// featureValue resolves one of spec.md §4.7's named SpectrumFeatureMap
// keys against this tick's inputs. Unknown keys read as 0 rather than
// panicking, keeping a bad config value inert instead of fatal.
func featureValue(key string, in StepInputs) float64 {
	switch key {
	case "lows":
		return in.BandLow
	case "mids":
		return in.BandMid
	case "highs":
		return in.BandHigh
	case "rms":
		return in.RMS
	case "energy":
		return in.Energy
	case "flux":
		return in.Flux
	case "peaks":
		return in.Peak
	case "transients":
		return in.Transient
	case "beat":
		if in.Trigger {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Step advances the cycler by one tick under cfg's mode and returns the
// resulting color.
func (c *Cycler) Step(cfg Config, in StepInputs) colormath.HSV {
	if len(c.sequence) == 0 {
		return colormath.HSV{}
	}

	switch cfg.Mode {
	case CycleOnTrigger:
		if in.Trigger {
			step := 1
			if in.Drop {
				step = 2
			}
			c.index = (c.index + step) % len(c.sequence)
		}
		return c.sequence[c.index]

	case CycleTimed:
		return c.stepTimed(cfg, in)

	case CycleReactiveShift:
		margin := cfg.ReactiveMargin
		if margin <= 0 {
			margin = 30
		}
		// Higher ReactiveMargin demands more evidence before the hue
		// moves, so it scales inversely into the rotation rate.
		rate := 0.05 * (30 / margin)
		c.shiftDeg += in.Intensity * in.DtMs * rate
		base := c.sequence[c.index%len(c.sequence)]
		h := base.H + c.shiftDeg
		for h >= 360 {
			h -= 360
		}
		return colormath.HSV{H: h, S: base.S, V: base.V}

	case CycleSpectrumMapper:
		return c.spectrumBlend(cfg, in)

	default:
		return c.sequence[c.index%len(c.sequence)]
	}
}

// stepTimed implements spec.md §4.7's timed_cycle: advance once
// TimedIntervalSec has elapsed, but if BeatLock is set, hold past that
// deadline until the next beat/drop — unless BeatLockGraceSec further
// elapses with no beat, at which point it force-advances anyway so the
// palette never stalls indefinitely on a silent passage.
func (c *Cycler) stepTimed(cfg Config, in StepInputs) colormath.HSV {
	periodMs := cfg.TimedIntervalSec * 1000
	if periodMs <= 0 {
		periodMs = 4000
	}

	if c.waitingBeat {
		c.graceMs += in.DtMs
		graceMs := cfg.BeatLockGraceSec * 1000
		if in.Trigger || in.Drop || (graceMs > 0 && c.graceMs >= graceMs) {
			c.index = (c.index + 1) % len(c.sequence)
			c.phaseMs = 0
			c.graceMs = 0
			c.waitingBeat = false
		}
		return c.sequence[c.index]
	}

	c.phaseMs += in.DtMs
	if c.phaseMs >= periodMs {
		c.phaseMs -= periodMs
		if cfg.BeatLock {
			c.waitingBeat = true
			c.graceMs = 0
		} else {
			c.index = (c.index + 1) % len(c.sequence)
		}
	}
	return c.sequence[c.index]
}

// spectrumBlend picks, for each of cfg.SpectrumFeatureMap's five slots, an
// evenly-spread sequence anchor; the emitted color is the anchor of the
// slot whose named feature currently reads highest, held sticky unless a
// competitor clears it by spectrumStickyDelta (spec.md §4.7).
func (c *Cycler) spectrumBlend(cfg Config, in StepInputs) colormath.HSV {
	n := len(c.sequence)
	slots := len(cfg.SpectrumFeatureMap)
	if slots == 0 {
		return c.sequence[0]
	}

	best, bestVal := 0, featureValue(cfg.SpectrumFeatureMap[0], in)
	for i := 1; i < slots; i++ {
		v := featureValue(cfg.SpectrumFeatureMap[i], in)
		if v > bestVal {
			best, bestVal = i, v
		}
	}

	if !c.spectrumHave {
		c.spectrumIdx = best
		c.spectrumHave = true
	} else if best != c.spectrumIdx {
		curVal := featureValue(cfg.SpectrumFeatureMap[c.spectrumIdx], in)
		if bestVal-curVal >= spectrumStickyDelta {
			c.spectrumIdx = best
		}
	}

	anchor := c.spectrumIdx * (n - 1) / maxInt(slots-1, 1)
	return c.sequence[anchor]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
