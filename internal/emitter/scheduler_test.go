package emitter

import (
	"testing"
	"time"

	"github.com/cybre/reactive-light-engine/internal/palette"
	"github.com/stretchr/testify/assert"
)

func TestTierFromHzNearest(t *testing.T) {
	t.Run("zero or negative clamps to slowest tier", func(t *testing.T) {
		assert.Equal(t, 0, TierFromHz(0))
		assert.Equal(t, 0, TierFromHz(-5))
	})

	t.Run("exact tier Hz round-trips", func(t *testing.T) {
		for tier, ms := range tierIntervalsMs {
			hz := 1000 / ms
			assert.Equal(t, tier, TierFromHz(hz))
		}
	})

	t.Run("low Hz does not snap to the fastest tier", func(t *testing.T) {
		// 2.5Hz sits between tier 0 (2Hz/500ms) and tier 1 (4Hz/250ms), not
		// anywhere near the 60Hz tier at the far end of the table.
		got := TierFromHz(2.5)
		assert.LessOrEqual(t, got, 1)
	})

	t.Run("ties break toward the higher Hz", func(t *testing.T) {
		// 3Hz is equidistant from tier 0 (2Hz) and tier 1 (4Hz); the higher
		// Hz tier should win.
		assert.Equal(t, 1, TierFromHz(3))
	})

	t.Run("high Hz clamps to the fastest tier", func(t *testing.T) {
		assert.Equal(t, MaxOverclockLevel, TierFromHz(1000))
	})
}

func TestIntervalMsForTierClampsOutOfRange(t *testing.T) {
	assert.Equal(t, tierIntervalsMs[0], IntervalMsForTier(-1))
	assert.Equal(t, tierIntervalsMs[MaxOverclockLevel], IntervalMsForTier(99))
	assert.Equal(t, tierIntervalsMs[5], IntervalMsForTier(5))
}

func TestResolveOverclockAlias(t *testing.T) {
	lvl, ok := ResolveOverclockAlias("ludicrous")
	assert.True(t, ok)
	assert.Equal(t, 7, lvl)

	lvl, ok = ResolveOverclockAlias("destructive60")
	assert.True(t, ok)
	assert.Equal(t, MaxOverclockLevel, lvl)

	_, ok = ResolveOverclockAlias("nope")
	assert.False(t, ok)
}

func TestSchedulerDueFiresImmediatelyThenPaces(t *testing.T) {
	now := time.Unix(0, 0)
	// tier 0's 500ms base interval exceeds Hue's 340ms cadence ceiling,
	// so the bounded interval actually paced at is 340ms, not 500ms.
	s := NewScheduler(palette.BrandHue, 0, now)

	assert.True(t, s.Due(now, RhythmCadence{}))
	assert.False(t, s.Due(now.Add(100*time.Millisecond), RhythmCadence{}))
	assert.True(t, s.Due(now.Add(340*time.Millisecond), RhythmCadence{}))
}

func TestSchedulerDueResnapsAfterStall(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewScheduler(palette.BrandHue, 0, now)
	assert.True(t, s.Due(now, RhythmCadence{}))

	// A long stall shouldn't replay a backlog of due ticks: the next
	// deadline is computed forward from `now`, not from the stale
	// deadline plus one interval.
	later := now.Add(10 * time.Second)
	assert.True(t, s.Due(later, RhythmCadence{}))
	assert.False(t, s.Due(later.Add(1*time.Millisecond), RhythmCadence{}))
}

func TestSchedulerRhythmCadencePullsDeadlineIn(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewScheduler(palette.BrandHue, 0, now) // bounded to 340ms
	assert.True(t, s.Due(now, RhythmCadence{}))

	// an imminent beat should pull the next deadline in well under the
	// bounded 340ms ceiling.
	assert.False(t, s.Due(now.Add(50*time.Millisecond), RhythmCadence{BeatEtaMs: 80}))
	assert.True(t, s.Due(now.Add(90*time.Millisecond), RhythmCadence{}))
}

func TestSchedulerBrandCadenceBoundsDiffer(t *testing.T) {
	now := time.Unix(0, 0)
	hue := NewScheduler(palette.BrandHue, 0, now)
	wiz := NewScheduler(palette.BrandWiz, 0, now)

	assert.True(t, hue.Due(now, RhythmCadence{}))
	assert.True(t, wiz.Due(now, RhythmCadence{}))

	// Hue's interval is bounded to 340ms, WiZ's to 300ms; at 300ms WiZ
	// should already be due again while Hue is not.
	assert.False(t, hue.Due(now.Add(300*time.Millisecond), RhythmCadence{}))
	assert.True(t, wiz.Due(now.Add(300*time.Millisecond), RhythmCadence{}))
}

func TestSchedulerCadencePullHonorsBrandFloor(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewScheduler(palette.BrandWiz, 0, now) // floor 74ms
	assert.True(t, s.Due(now, RhythmCadence{}))

	// drums, relative transient, and relative flux all push the pull far
	// below the brand floor; the scheduler must not fire before 74ms.
	assert.False(t, s.Due(now.Add(60*time.Millisecond), RhythmCadence{Drums: true, RelativeTransient: 1, RelativeFlux: 1}))
	assert.True(t, s.Due(now.Add(74*time.Millisecond), RhythmCadence{Drums: true, RelativeTransient: 1, RelativeFlux: 1}))
}
