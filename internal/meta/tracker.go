package meta

const (
	trackerLockScore   = 0.7
	trackerScoreDecay  = 0.9
	hardQuietRmsGate   = 0.04
)

// TrackerSource identifies which signal is currently driving the beat
// clock the scene cycler and emitter scheduler key off of.
type TrackerSource string

const (
	TrackerInternal TrackerSource = "internal"
	TrackerExternal TrackerSource = "external"
)

// TrackerElectionState scores the internal onset-tempo beat tracker
// against an external OSC beat source and elects whichever currently
// looks more reliable, locking onto a dominant source once its score
// clears trackerLockScore so a single noisy tick from the other source
// doesn't immediately steal the clock back.
type TrackerElectionState struct {
	internalScore float64
	externalScore float64
	locked        TrackerSource
	hasLock       bool
}

// NewTrackerElectionState constructs a state with no initial lock.
func NewTrackerElectionState() *TrackerElectionState {
	return &TrackerElectionState{}
}

// Step folds in this tick's confidence samples (0 for a source that
// didn't fire this tick) and returns the elected source. rms is the raw
// frame RMS: under hardQuietRmsGate, external tempo sources (which may
// be driven by a DJ controller or other transport with its own idea of
// "beat" independent of what's audible) are overridden back to internal,
// since a quiet passage is exactly when a stale external clock is most
// likely to be wrong.
func (t *TrackerElectionState) Step(internalConfidence, externalConfidence, rms float64) TrackerSource {
	t.internalScore = t.internalScore*trackerScoreDecay + internalConfidence*(1-trackerScoreDecay)
	t.externalScore = t.externalScore*trackerScoreDecay + externalConfidence*(1-trackerScoreDecay)

	if rms < hardQuietRmsGate {
		t.hasLock = true
		t.locked = TrackerInternal
		return TrackerInternal
	}

	if t.hasLock {
		switch t.locked {
		case TrackerInternal:
			if t.externalScore > trackerLockScore && t.externalScore > t.internalScore+0.1 {
				t.locked = TrackerExternal
			}
		case TrackerExternal:
			if t.internalScore > trackerLockScore && t.internalScore > t.externalScore+0.1 {
				t.locked = TrackerInternal
			}
		}
		return t.locked
	}

	if t.internalScore >= t.externalScore {
		t.locked = TrackerInternal
	} else {
		t.locked = TrackerExternal
	}
	if t.internalScore > trackerLockScore || t.externalScore > trackerLockScore {
		t.hasLock = true
	}
	return t.locked
}
