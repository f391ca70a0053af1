// Package core implements the reactive control core: frame ingress, the
// energy follower, the beat tracker and phrase detector, and the
// behavior/scene state machines that sit underneath the meta-planner.
package core

import (
	"time"

	"github.com/cybre/reactive-light-engine/internal/utils"
)

// AudioFrame is one ~16ms window of audio features handed to the core by
// an upstream feature extractor. Fields are clamped to their documented
// domains by Ingest; callers do not need to pre-clamp.
type AudioFrame struct {
	RMS          float64 // [0, 1]
	Peak         float64 // [0, 1.5]
	Transient    float64 // [0, 1.2]
	ZCR          float64 // [0, 1]
	BandLow      float64 // [0, 1]
	BandMid      float64 // [0, 1]
	BandHigh     float64 // [0, 1]
	SpectralFlux float64 // [0, 1]
}

// Clamp constrains every field to its documented domain.
func (f AudioFrame) Clamp() AudioFrame {
	return AudioFrame{
		RMS:          utils.Clamp(f.RMS, 0, 1),
		Peak:         utils.Clamp(f.Peak, 0, 1.5),
		Transient:    utils.Clamp(f.Transient, 0, 1.2),
		ZCR:          utils.Clamp(f.ZCR, 0, 1),
		BandLow:      utils.Clamp(f.BandLow, 0, 1),
		BandMid:      utils.Clamp(f.BandMid, 0, 1),
		BandHigh:     utils.Clamp(f.BandHigh, 0, 1),
		SpectralFlux: utils.Clamp(f.SpectralFlux, 0, 1),
	}
}

// isNearSilent reports whether every field is below the joint near-silence
// threshold from spec.md §4.1.
func (f AudioFrame) isNearSilent() bool {
	return f.RMS < 0.052 &&
		f.Peak < 0.1 &&
		f.Transient < 0.055 &&
		f.SpectralFlux < 0.05 &&
		f.ZCR < 0.26 &&
		f.BandLow < 0.24 &&
		f.BandMid < 0.24 &&
		f.BandHigh < 0.24
}

// ExternalIntent is a closed sum type for out-of-band events the control
// surface can push into the core: MIDI, OSC, and transport-pressure
// samples. The unexported marker method keeps the set closed to this
// package's variants, mirroring how command.go / notification.go in the
// teacher model their own small closed message shapes as concrete structs
// rather than reaching for reflection.
type ExternalIntent interface {
	externalIntent()
}

// MidiNote is a note-on style MIDI event; velocity in [0, 1].
type MidiNote struct{ Velocity float64 }

// MidiCC is a MIDI continuous-controller event.
type MidiCC struct {
	CC    int
	Value float64
}

// OscEnergy pushes an externally computed energy bias.
type OscEnergy struct{ Value float64 }

// OscBeat signals an externally detected beat.
type OscBeat struct{}

// OscDrop signals an externally detected drop.
type OscDrop struct{}

// ForceDrop forces the phrase detector into a drop regardless of internal
// evidence.
type ForceDrop struct{}

// TransportPressure reports a sample of upstream back-pressure (e.g. a
// render/transport queue depth), used by the meta-planner's Hz coupling.
type TransportPressure struct {
	Raw       float64
	Pressure  float64
	Timestamp time.Time
}

func (MidiNote) externalIntent()          {}
func (MidiCC) externalIntent()            {}
func (OscEnergy) externalIntent()         {}
func (OscBeat) externalIntent()           {}
func (OscDrop) externalIntent()           {}
func (ForceDrop) externalIntent()         {}
func (TransportPressure) externalIntent() {}
