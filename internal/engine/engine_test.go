package engine

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybre/reactive-light-engine/internal/config"
	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/emitter"
	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/cybre/reactive-light-engine/internal/palette"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine() *Engine {
	opts := config.Defaults()
	opts.AutoGenre = false
	opts.Genre = "pop"
	return New(testLogger(), opts)
}

// tick drives the engine forward one frame at the nominal 16ms cadence.
func tick(t *testing.T, e *Engine, start time.Time, n int, frame core.AudioFrame) (TickResult, time.Time) {
	t.Helper()
	now := start
	var res TickResult
	for i := 0; i < n; i++ {
		now = now.Add(16 * time.Millisecond)
		var err error
		res, err = e.Tick(frame, now)
		require.NoError(t, err)
	}
	return res, now
}

// S1 — silence → idle glow (spec.md §8 S1).
func TestScenarioS1_SilenceToIdleGlow(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	res, _ := tick(t, e, now, 300, core.AudioFrame{})

	tel := e.GetTelemetry()
	assert.Equal(t, core.Idle, tel.Behavior)
	assert.Equal(t, core.SceneIdleSoft, tel.Scene)
	assert.LessOrEqual(t, res.Hue.State.Bri, uint8(math.Round(254*0.12)))
	assert.LessOrEqual(t, res.Wiz.Brightness, float32(0.11))
}

// S2 — a synthetic 128 BPM four-on-floor stream: bandLow spikes on every
// 468.75ms boundary and decays exponentially in between, with sustained
// rms/transient/flux support (spec.md §8 S2).
func fourOnFloorFrame(elapsedMs float64) core.AudioFrame {
	const periodMs = 468.75
	phase := math.Mod(elapsedMs, periodMs)
	decay := math.Exp(-phase / 120.0)
	return core.AudioFrame{
		RMS:          0.4,
		Peak:         0.55,
		Transient:    0.45,
		ZCR:          0.2,
		BandLow:      0.2 + 0.7*decay,
		BandMid:      0.3,
		BandHigh:     0.2,
		SpectralFlux: 0.3,
	}
}

func TestScenarioS2_FourOnFloor(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	elapsed := 0.0
	var lastRes TickResult
	for i := 0; i < 188; i++ { // ~3s at 16ms
		now = now.Add(16 * time.Millisecond)
		elapsed += 16
		res, err := e.Tick(fourOnFloorFrame(elapsed), now)
		require.NoError(t, err)
		lastRes = res
	}

	tel := e.GetTelemetry()
	if tel.BPM > 0 {
		assert.InDelta(t, 128, tel.BPM, 3.5)
	}
	assert.Contains(t, []core.BehaviorState{core.Pulse, core.Flow}, tel.Behavior)
	assert.True(t, strings.HasPrefix(string(tel.Scene), "flow_") || tel.Scene == core.ScenePulseStrobe)
	assert.LessOrEqual(t, lastRes.Hue.RateMs, uint16(200))
}

// S3 — a forced drop must flip behavior/scene within one tick and push
// WiZ/Hue toward their drop-emphatic shapes (spec.md §8 S3).
func TestScenarioS3_ForcedDrop(t *testing.T) {
	e := newTestEngine()
	now := time.Now()
	_, now = tick(t, e, now, 188, fourOnFloorFrame(0))

	res := e.PushIntent(core.ForceDrop{})
	assert.Equal(t, config.SetApplied, res.Outcome)

	now = now.Add(16 * time.Millisecond)
	out, err := e.Tick(fourOnFloorFrame(0), now)
	require.NoError(t, err)

	tel := e.GetTelemetry()
	assert.Equal(t, core.Pulse, tel.Behavior)
	assert.Equal(t, core.ScenePulseStrobe, tel.Scene)
	assert.GreaterOrEqual(t, out.Wiz.Brightness, float32(0.9))
	assert.Equal(t, uint8(1), out.Hue.State.TransitionTime)
}

// S4 — meta-auto armed with sustained heavy transient/flux should plan
// toward the reactive/aggressive/high-Hz corner (spec.md §8 S4).
func TestScenarioS4_MetaAutoHeavy(t *testing.T) {
	e := newTestEngine()
	res := e.SetMetaAutoEnabled(true)
	assert.Equal(t, config.SetApplied, res.Outcome)

	// sustained near-maximal transient/flux (not just RMS/peak) pushes the
	// meta-planner's blended power comfortably past its tier-4 threshold
	// on intensity+motion alone, without needing a forced drop.
	heavy := core.AudioFrame{
		RMS:          0.9,
		Peak:         1.0,
		Transient:    1.0,
		ZCR:          0.5,
		BandLow:      0.8,
		BandMid:      0.7,
		BandHigh:     0.7,
		SpectralFlux: 1.0,
	}
	now := time.Now()
	_, now = tick(t, e, now, 320, heavy) // ~5.1s at 16ms

	tel := e.GetTelemetry()
	assert.GreaterOrEqual(t, tel.Tier, 4)
	assert.Equal(t, genre.Reactive, tel.MetaAutoProfile)
	assert.Equal(t, genre.Aggressive, tel.MetaAutoReactivity)
	assert.GreaterOrEqual(t, tel.MetaAutoIntentHz, 10.0)
}

// S5 — a manual three-family, contrast-ordered palette config is accepted
// and the engine keeps ticking with it (spec.md §8 S5). The permutation
// check lives in internal/palette's sequence tests; no test checks that
// the chosen order has minimal cost.
func TestScenarioS5_PaletteContrastOrdering(t *testing.T) {
	e := newTestEngine()
	// exercised indirectly: setting a manual 3-family config must not
	// reject and must leave the engine ticking normally afterward.
	cfg := palette.DefaultConfig
	cfg.Families = []palette.Family{palette.FamilyRed, palette.FamilyBlue, palette.FamilyGreen}
	cfg.PerFamily = 3
	cfg.Disorder = false
	res := e.SetPaletteConfig(palette.BrandHue, cfg)
	assert.Equal(t, config.SetApplied, res.Outcome)

	now := time.Now()
	_, err := e.Tick(fourOnFloorFrame(0), now.Add(16*time.Millisecond))
	require.NoError(t, err)
}

// S6 — a manual setOverclock must immediately disarm overclock-auto and
// apply the new tier (spec.md §8 S6).
func TestScenarioS6_ManualOverclockOverridesAuto(t *testing.T) {
	e := newTestEngine()
	armed := e.SetOverclockAutoEnabled(true)
	assert.Equal(t, config.SetApplied, armed.Outcome)

	set := e.SetOverclock(5)
	assert.Equal(t, config.SetApplied, set.Outcome)

	e.mu.Lock()
	auto := e.overclockAutoEnabled
	level := e.overclockLevel
	e.mu.Unlock()
	assert.False(t, auto)
	assert.Equal(t, 5, level)

	now := time.Now()
	out, err := e.Tick(core.AudioFrame{}, now.Add(16*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, uint16(emitter.IntervalMsForTier(5)), out.Hue.RateMs)
}
