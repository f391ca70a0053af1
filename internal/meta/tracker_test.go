package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerElectionQuietFrameForcesInternal(t *testing.T) {
	ts := NewTrackerElectionState()

	// Prime external as the clearly stronger source.
	for i := 0; i < 20; i++ {
		ts.Step(0.1, 0.95, 0.5)
	}
	assert.Equal(t, TrackerExternal, ts.Step(0.1, 0.95, 0.5))

	// A near-silent frame should override straight back to internal
	// regardless of which source currently holds the lock.
	assert.Equal(t, TrackerInternal, ts.Step(0.1, 0.95, 0.01))
}

func TestTrackerElectionLocksAndRequiresMarginToFlip(t *testing.T) {
	ts := NewTrackerElectionState()

	// Build up a strong internal lock.
	var src TrackerSource
	for i := 0; i < 30; i++ {
		src = ts.Step(0.9, 0.05, 0.5)
	}
	assert.Equal(t, TrackerInternal, src)

	// A single tick of higher external confidence shouldn't immediately
	// steal the lock back without clearing both the lock score and the
	// margin over internal.
	src = ts.Step(0.1, 0.5, 0.5)
	assert.Equal(t, TrackerInternal, src)
}

func TestTrackerElectionFlipsOnceExternalClearlyDominates(t *testing.T) {
	ts := NewTrackerElectionState()

	for i := 0; i < 30; i++ {
		ts.Step(0.9, 0.05, 0.5)
	}

	var src TrackerSource
	for i := 0; i < 50; i++ {
		src = ts.Step(0.05, 0.95, 0.5)
	}
	assert.Equal(t, TrackerExternal, src)
}
