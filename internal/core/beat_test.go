package core

import (
	"testing"
	"time"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

// TestBeatTrackerOnsetBPMBounded drives the tracker with a steady 120bpm
// synthetic kick pattern and checks that any non-zero OnsetBPM estimate
// stays within the candidate window the estimator is restricted to search.
func TestBeatTrackerOnsetBPMBounded(t *testing.T) {
	bt := NewBeatTracker(16)
	profile := genre.Lookup(genre.EDM)

	now := time.Unix(0, 0)
	const dtMs = 16.0
	const beatIntervalMs = 500.0 // 120 BPM
	elapsed := 0.0

	for i := 0; i < 2000; i++ {
		now = now.Add(time.Duration(dtMs) * time.Millisecond)
		elapsed += dtMs

		f := AudioFrame{RMS: 0.2, BandLow: 0.2, BandMid: 0.1, BandHigh: 0.1}
		if elapsed >= beatIntervalMs {
			elapsed -= beatIntervalMs
			f = AudioFrame{RMS: 0.7, Peak: 0.9, Transient: 0.6, BandLow: 0.8, SpectralFlux: 0.5}
		}

		evt := bt.Step(f, profile, f.RMS, now, dtMs)

		if evt.OnsetBPM != 0 {
			assert.GreaterOrEqual(t, evt.OnsetBPM, float64(minCandidateBPM))
			assert.LessOrEqual(t, evt.OnsetBPM, float64(maxCandidateBPM))
		}
		if evt.BPM != 0 {
			assert.GreaterOrEqual(t, evt.BPM, float64(minCandidateBPM)*0.5)
		}
		assert.GreaterOrEqual(t, evt.Confidence, 0.0)
		assert.LessOrEqual(t, evt.Confidence, 1.0)
	}
}

func TestOnsetTempoEstimatorNoHistoryReturnsZero(t *testing.T) {
	o := NewOnsetTempoEstimator(16)
	bpm, conf := o.BPM()
	assert.Equal(t, 0.0, bpm)
	assert.Equal(t, 0.0, conf)
}

func TestDrumsClampedRange(t *testing.T) {
	assert.InDelta(t, 0.0, drums(AudioFrame{}), 1e-9)
	loud := drums(AudioFrame{BandLow: 1, Transient: 1.2})
	assert.LessOrEqual(t, loud, 1.2)
	assert.GreaterOrEqual(t, loud, 0.0)
}
