// Package emitter turns the reactive core's per-tick decisions into the
// wire-level intents the two supported fixture brands consume, paced by
// a deadline-based scheduler instead of a fixed ticker (spec.md §4.8/§6.2).
package emitter

import "github.com/cybre/reactive-light-engine/internal/colormath"

// Intent is a closed sum type for one brand's emission payload. The
// unexported marker mirrors core.ExternalIntent's closed-set modeling.
type Intent interface {
	intent()
}

// HueLampState is the nested "state" object a Hue-style bridge expects:
// the 16-bit hue space plus the 8-bit saturation/brightness/transition
// fields spec.md §6.2 names.
type HueLampState struct {
	On             bool
	Hue            uint16
	Sat            uint8
	Bri            uint8
	TransitionTime uint8
}

// HueIntent is the payload sent to a Philips Hue style bridge: the
// common pacing/metadata envelope spec.md §6.2 gives both intent kinds,
// wrapping one HueLampState.
type HueIntent struct {
	Type       string
	Phase      uint64
	Energy     float32
	RateMs     uint16
	ForceRate  bool
	ForceDelta bool
	DeltaScale float32
	State      HueLampState
}

// WizIntent is the payload sent to a WiZ style bulb: direct RGB plus a
// brightness fraction, since WiZ's API takes color directly rather than
// HSV, alongside the same pacing envelope as HueIntent plus beat/drop/
// scene metadata WiZ's simpler fixture protocol exposes.
type WizIntent struct {
	Type       string
	Phase      uint64
	Energy     float32
	RateMs     uint16
	ForceRate  bool
	ForceDelta bool
	DeltaScale float32
	Beat       bool
	Drop       bool
	Scene      string
	Color      colormath.RGB
	Brightness float32
}

func (HueIntent) intent() {}
func (WizIntent) intent() {}

// deltaScaleFor maps a [0,1] intensity-like value onto spec.md §6.2's
// deltaScale range [0.4, 1.0]: quiet/low-motion ticks get a gentler
// transport hint than high-intensity ones.
func deltaScaleFor(intensity float64) float32 {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return float32(0.4 + 0.6*intensity)
}
