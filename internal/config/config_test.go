package config

import (
	"testing"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsBaseline(t *testing.T) {
	d := Defaults()

	assert.Equal(t, -1, d.DeviceIndex)
	assert.Equal(t, genre.AutoBalanced, d.AutoProfile)
	assert.True(t, d.DropEnabled)
	assert.True(t, d.TempoTrackersAuto)
	assert.Equal(t, 4, d.ManualPaletteColorsPerFamily)
}

func TestFromEnvReactorPrefixedAliases(t *testing.T) {
	t.Setenv("REACTOR_GENRE", "metal")
	t.Setenv("REACTOR_AUTO_GENRE", "false")
	t.Setenv("DROP_ENABLED", "false")

	cfg := FromEnv()

	assert.Equal(t, genre.Metal, cfg.Genre)
	assert.False(t, cfg.AutoGenre)
	assert.False(t, cfg.DropEnabled)
}

func TestFromEnvSpecExactNameWinsOverReactorAlias(t *testing.T) {
	t.Setenv("REACTOR_AUTO_PROFILE", "reactive")
	t.Setenv("AUTO_PROFILE", "cinematic")

	cfg := FromEnv()

	assert.Equal(t, genre.Cinematic, cfg.AutoProfile)
}

func TestFromEnvTempoTrackerMask(t *testing.T) {
	t.Setenv("META_AUTO_TEMPO_TRACKERS_AUTO", "false")
	t.Setenv("META_AUTO_PEAKS_TEMPO_TRACKER", "true")
	t.Setenv("META_AUTO_BASELINE_TEMPO_TRACKER", "false")

	cfg := FromEnv()

	assert.False(t, cfg.TempoTrackersAuto)
	assert.True(t, cfg.TempoTrackerPeaks)
	assert.False(t, cfg.TempoTrackerBaseline)
}

func TestFromEnvManualPaletteOverrides(t *testing.T) {
	t.Setenv("MANUAL_PALETTE_COLORS_PER_FAMILY", "6")
	t.Setenv("MANUAL_PALETTE_DISORDER", "true")
	t.Setenv("MANUAL_PALETTE_CYCLE_MODE", "timed_cycle")

	cfg := FromEnv()

	assert.Equal(t, 6, cfg.ManualPaletteColorsPerFamily)
	assert.True(t, cfg.ManualPaletteDisorder)
	assert.EqualValues(t, "timed_cycle", cfg.PaletteMode)
}

func TestFromEnvIgnoresUnsetVars(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, Defaults(), cfg)
}

func TestSetResultHelpers(t *testing.T) {
	assert.Equal(t, SetResult{Outcome: SetApplied}, Applied())
	assert.Equal(t, SetResult{Outcome: SetNoop}, Noop())
	assert.Equal(t, SetResult{Outcome: SetRejected, Reason: "bad value"}, Rejected("bad value"))
}
