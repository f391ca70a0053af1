package core

import (
	"testing"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

func TestEnergyFollowerClampsToFloorAndCeiling(t *testing.T) {
	var ef EnergyFollower
	profile := genre.Lookup(genre.EDM)

	loud := AudioFrame{RMS: 1, Peak: 1.5, Transient: 1.2, ZCR: 1, BandLow: 1, BandMid: 1, BandHigh: 1, SpectralFlux: 1}
	for i := 0; i < 200; i++ {
		out := ef.Step(loud, profile, 0, 0, false)
		assert.GreaterOrEqual(t, out.Energy, 0.0)
		assert.LessOrEqual(t, out.Energy, 1.2)
		assert.GreaterOrEqual(t, out.Intensity, 0.0)
		assert.LessOrEqual(t, out.Intensity, 1.0)
	}
}

func TestEnergyFollowerDecaysToZeroOnSilence(t *testing.T) {
	var ef EnergyFollower
	profile := genre.Lookup(genre.EDM)

	loud := AudioFrame{RMS: 0.9, Peak: 1, Transient: 0.8, ZCR: 0.5, BandLow: 0.5, BandMid: 0.5, BandHigh: 0.5, SpectralFlux: 0.5}
	for i := 0; i < 20; i++ {
		ef.Step(loud, profile, 0, 0, false)
	}
	assert.Greater(t, ef.energy, 0.0)

	silence := AudioFrame{}
	for i := 0; i < 50; i++ {
		ef.Step(silence, profile, 0, 0, false)
	}

	assert.Equal(t, 0.0, ef.energy)
	assert.Equal(t, 0.0, ef.energyFloor)
}

func TestEnergyFollowerQuietCapSuppressesTargetUnlessDropActive(t *testing.T) {
	var capped, uncapped EnergyFollower
	profile := genre.Lookup(genre.EDM)

	quiet := AudioFrame{RMS: 0.01, Peak: 0.02, Transient: 0.01, ZCR: 0.05, BandLow: 0.02, BandMid: 0.02, BandHigh: 0.02, SpectralFlux: 0.01}

	var cappedOut, uncappedOut EnergyOutput
	for i := 0; i < 10; i++ {
		cappedOut = capped.Step(quiet, profile, 0.8, 0, false)
		uncappedOut = uncapped.Step(quiet, profile, 0.8, 0, true)
	}

	assert.LessOrEqual(t, cappedOut.Energy, uncappedOut.Energy+1e-9)
}

func TestMidOnlyDominance(t *testing.T) {
	t.Run("no support falls back to mid", func(t *testing.T) {
		f := AudioFrame{BandMid: 0.4}
		assert.Equal(t, 0.4, midOnlyDominance(f))
	})

	t.Run("support suppresses dominance", func(t *testing.T) {
		f := AudioFrame{BandMid: 0.4, BandLow: 0.5, BandHigh: 0.5}
		assert.Equal(t, 0.0, midOnlyDominance(f))
	})
}

func TestLinearGate(t *testing.T) {
	assert.Equal(t, 0.0, linearGate(0.1, 0.2, 0.6))
	assert.Equal(t, 1.0, linearGate(0.7, 0.2, 0.6))
	assert.InDelta(t, 0.5, linearGate(0.4, 0.2, 0.6), 1e-9)
}
