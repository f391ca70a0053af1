package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioFrameClamp(t *testing.T) {
	f := AudioFrame{
		RMS:          2,
		Peak:         -1,
		Transient:    5,
		ZCR:          1.5,
		BandLow:      -0.2,
		BandMid:      2,
		BandHigh:     1.1,
		SpectralFlux: 3,
	}

	clamped := f.Clamp()

	assert.Equal(t, 1.0, clamped.RMS)
	assert.Equal(t, 0.0, clamped.Peak)
	assert.Equal(t, 1.2, clamped.Transient)
	assert.Equal(t, 1.0, clamped.ZCR)
	assert.Equal(t, 0.0, clamped.BandLow)
	assert.Equal(t, 1.0, clamped.BandMid)
	assert.Equal(t, 1.0, clamped.BandHigh)
	assert.Equal(t, 1.0, clamped.SpectralFlux)
}

func TestAudioFrameClampInRange(t *testing.T) {
	f := AudioFrame{RMS: 0.4, Peak: 0.9, Transient: 0.3, ZCR: 0.1, BandLow: 0.2, BandMid: 0.2, BandHigh: 0.2, SpectralFlux: 0.1}
	assert.Equal(t, f, f.Clamp())
}

func TestAudioFrameIsNearSilent(t *testing.T) {
	t.Run("silent", func(t *testing.T) {
		f := AudioFrame{RMS: 0.01, Peak: 0.02, Transient: 0.01, ZCR: 0.1, BandLow: 0.1, BandMid: 0.1, BandHigh: 0.1, SpectralFlux: 0.01}
		assert.True(t, f.isNearSilent())
	})

	t.Run("one field over threshold", func(t *testing.T) {
		f := AudioFrame{RMS: 0.01, Peak: 0.02, Transient: 0.01, ZCR: 0.1, BandLow: 0.1, BandMid: 0.1, BandHigh: 0.3, SpectralFlux: 0.01}
		assert.False(t, f.isNearSilent())
	})

	t.Run("loud", func(t *testing.T) {
		f := AudioFrame{RMS: 0.6, Peak: 0.9, Transient: 0.4, ZCR: 0.3, BandLow: 0.4, BandMid: 0.4, BandHigh: 0.4, SpectralFlux: 0.4}
		assert.False(t, f.isNearSilent())
	})
}

func TestIngressIngestZeroesNearSilence(t *testing.T) {
	var in Ingress
	out := in.Ingest(AudioFrame{RMS: 0.01, Peak: 0.02, Transient: 0.01, SpectralFlux: 0.01})

	assert.Equal(t, AudioFrame{}, out)
	assert.Equal(t, AudioFrame{}, in.Last())
}

func TestIngressIngestClampsLoudFrame(t *testing.T) {
	var in Ingress
	out := in.Ingest(AudioFrame{RMS: 3, Peak: 10, Transient: 10, ZCR: 5, BandLow: 5, BandMid: 5, BandHigh: 5, SpectralFlux: 5})

	assert.Equal(t, 1.0, out.RMS)
	assert.Equal(t, 1.5, out.Peak)
	assert.Equal(t, 1.2, out.Transient)
	assert.Equal(t, out, in.Last())
}

func TestExternalIntentMarkers(t *testing.T) {
	var intents = []ExternalIntent{
		MidiNote{Velocity: 1},
		MidiCC{CC: 1, Value: 0.5},
		OscEnergy{Value: 0.5},
		OscBeat{},
		OscDrop{},
		ForceDrop{},
		TransportPressure{Pressure: 0.5},
	}
	assert.Len(t, intents, 7)
}
