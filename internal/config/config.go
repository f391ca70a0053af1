// Package config resolves runtime Options from CLI flags and
// environment variables, mirroring the teacher's flag-based
// runtimeOptions but widened to the reactive engine's much larger
// control surface (spec.md §6.3).
package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/cybre/reactive-light-engine/internal/palette"
)

// Options is the fully resolved set of knobs the engine and cmd/reactor
// need at startup.
type Options struct {
	DeviceIndex   int
	SampleRate    float64
	FrameSize     int
	Channels      int
	Latency       time.Duration

	Genre          genre.Genre
	AutoGenre      bool
	Reactivity     genre.ReactivityPresetName
	AutoProfile    genre.AutoProfileName
	DecadeMode     genre.DecadeMode

	PaletteFamilies []palette.Family
	PaletteMode     palette.CycleMode

	HueAddr string
	WizAddr string

	OverclockLevel     int
	DropEnabled        bool
	FlowIntensity      float64
	WizSceneSync       bool
	MetaAutoDefault    bool
	OverclockAutoDefault bool

	// TempoTrackersAuto/TempoTracker{Baseline,Peaks,Transients,Flux} mirror
	// spec.md §6.3's META_AUTO_TEMPO_TRACKERS_AUTO and the four
	// META_AUTO_*_TEMPO_TRACKER manual-mask flags.
	TempoTrackersAuto      bool
	TempoTrackerBaseline   bool
	TempoTrackerPeaks      bool
	TempoTrackerTransients bool
	TempoTrackerFlux       bool

	// ManualPaletteColorsPerFamily/ManualPaletteDisorder seed the global
	// palette registry at startup (spec.md §6.3's MANUAL_PALETTE_* group).
	ManualPaletteColorsPerFamily int
	ManualPaletteDisorder        bool

	Demo         bool
	DemoScenario string
	Visualize    bool
	Debug        bool
}

// Defaults returns the baseline Options before flags/env are applied.
func Defaults() Options {
	return Options{
		DeviceIndex: -1,
		FrameSize:   1024,
		Channels:    2,
		Genre:       genre.Pop,
		AutoGenre:   true,
		Reactivity:  genre.Balanced,
		AutoProfile: genre.AutoBalanced,
		DecadeMode:  genre.DecadeAuto,
		PaletteFamilies: []palette.Family{palette.FamilyBlue, palette.FamilyRed},
		PaletteMode:     palette.CycleReactiveShift,
		OverclockLevel:  4,
		DropEnabled:     true,
		FlowIntensity:   1.0,
		WizSceneSync:    true,
		DemoScenario:    "s2",

		TempoTrackersAuto:            true,
		TempoTrackerBaseline:         true,
		ManualPaletteColorsPerFamily: 4,
	}
}

// ParseFlags binds the CLI flag surface on top of Defaults()/FromEnv(),
// then calls flag.Parse. Flags take precedence over environment
// variables, which take precedence over Defaults().
func ParseFlags() Options {
	cfg := FromEnv()
	var latencyMs int
	var genreName, reactivityName, autoProfileName, decadeName, paletteModeName string

	flag.IntVar(&cfg.DeviceIndex, "device", cfg.DeviceIndex, "audio input device index (leave blank to choose interactively)")
	flag.Float64Var(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "capture sample rate (0 = device default)")
	flag.IntVar(&cfg.FrameSize, "frame-size", cfg.FrameSize, "analysis frame size in samples")
	flag.IntVar(&cfg.Channels, "channels", cfg.Channels, "number of input channels to capture (<= device max)")
	flag.IntVar(&latencyMs, "latency-ms", int(cfg.Latency/time.Millisecond), "override input latency in milliseconds (0 = device default)")

	flag.StringVar(&genreName, "genre", string(cfg.Genre), "initial genre profile")
	flag.BoolVar(&cfg.AutoGenre, "auto-genre", cfg.AutoGenre, "let the meta-planner classify genre automatically")
	flag.StringVar(&reactivityName, "reactivity", string(cfg.Reactivity), "reactivity preset: balanced|aggressive|precision")
	flag.StringVar(&autoProfileName, "auto-profile", string(cfg.AutoProfile), "debounce/hysteresis profile: reactive|balanced|cinematic")
	flag.StringVar(&decadeName, "decade", string(cfg.DecadeMode), "genre-decade mode: auto|90s|00s|10s|20s")
	flag.StringVar(&paletteModeName, "palette-mode", string(cfg.PaletteMode), "cycle mode: on_trigger|timed_cycle|reactive_shift|spectrum_mapper")

	flag.StringVar(&cfg.HueAddr, "hue-addr", cfg.HueAddr, "Hue bridge address (empty disables Hue emission)")
	flag.StringVar(&cfg.WizAddr, "wiz-addr", cfg.WizAddr, "WiZ bulb address (empty disables WiZ emission)")

	flag.IntVar(&cfg.OverclockLevel, "overclock", cfg.OverclockLevel, "startup overclock level (0-12)")
	flag.BoolVar(&cfg.DropEnabled, "drop-detect", cfg.DropEnabled, "enable drop detection")
	flag.Float64Var(&cfg.FlowIntensity, "flow-intensity", cfg.FlowIntensity, "flow animation energy multiplier (0.35-2.5)")
	flag.BoolVar(&cfg.WizSceneSync, "wiz-scene-sync", cfg.WizSceneSync, "keep WiZ scene selection synced to Hue's")
	flag.BoolVar(&cfg.MetaAutoDefault, "meta-auto", cfg.MetaAutoDefault, "arm the meta-planner at start")
	flag.BoolVar(&cfg.OverclockAutoDefault, "overclock-auto", cfg.OverclockAutoDefault, "arm the Hz-only auto-planner at start (disarms meta-auto)")

	flag.BoolVar(&cfg.Demo, "demo", cfg.Demo, "drive the engine from synthetic demo scenarios instead of live audio")
	flag.StringVar(&cfg.DemoScenario, "demo-scenario", cfg.DemoScenario, "demo scenario: s1|s2|s3|s4|s6")
	flag.BoolVar(&cfg.Visualize, "visualize", cfg.Visualize, "render realtime telemetry visualization (logs go to stderr)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flag.Parse()

	cfg.Latency = time.Duration(latencyMs) * time.Millisecond
	cfg.Genre = genre.Genre(genreName)
	cfg.Reactivity = genre.ReactivityPresetName(reactivityName)
	cfg.AutoProfile = genre.AutoProfileName(autoProfileName)
	cfg.DecadeMode = genre.DecadeMode(decadeName)
	cfg.PaletteMode = palette.CycleMode(paletteModeName)

	return cfg
}

// FromEnv overlays recognized environment variables on top of Defaults().
func FromEnv() Options {
	cfg := Defaults()

	if v, ok := os.LookupEnv("REACTOR_DEVICE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DeviceIndex = n
		}
	}
	if v, ok := os.LookupEnv("REACTOR_SAMPLE_RATE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SampleRate = f
		}
	}
	if v, ok := os.LookupEnv("REACTOR_FRAME_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FrameSize = n
		}
	}
	if v, ok := os.LookupEnv("REACTOR_GENRE"); ok {
		cfg.Genre = genre.Genre(v)
	}
	if v, ok := os.LookupEnv("REACTOR_AUTO_GENRE"); ok {
		cfg.AutoGenre = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("REACTOR_REACTIVITY"); ok {
		cfg.Reactivity = genre.ReactivityPresetName(v)
	}
	if v, ok := os.LookupEnv("REACTOR_AUTO_PROFILE"); ok {
		cfg.AutoProfile = genre.AutoProfileName(v)
	}
	if v, ok := os.LookupEnv("REACTOR_DECADE"); ok {
		cfg.DecadeMode = genre.DecadeMode(v)
	}
	if v, ok := os.LookupEnv("REACTOR_HUE_ADDR"); ok {
		cfg.HueAddr = v
	}
	if v, ok := os.LookupEnv("REACTOR_WIZ_ADDR"); ok {
		cfg.WizAddr = v
	}
	if v, ok := os.LookupEnv("REACTOR_DEMO"); ok {
		cfg.Demo = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("REACTOR_DEBUG"); ok {
		cfg.Debug = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("DEFAULT_OVERCLOCK_LEVEL"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.OverclockLevel = n
		}
	}
	if v, ok := os.LookupEnv("DROP_ENABLED"); ok {
		cfg.DropEnabled = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("FLOW_INTENSITY"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FlowIntensity = f
		}
	}
	if v, ok := os.LookupEnv("WIZ_SCENE_SYNC"); ok {
		cfg.WizSceneSync = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("META_AUTO_DEFAULT"); ok {
		cfg.MetaAutoDefault = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("OVERCLOCK_AUTO_DEFAULT"); ok {
		cfg.OverclockAutoDefault = v == "1" || v == "true"
	}
	// The spec-exact names (§6.3) alongside the REACTOR_-prefixed ones
	// above: both are recognized, spec-exact wins when both are set.
	if v, ok := os.LookupEnv("AUTO_PROFILE"); ok {
		cfg.AutoProfile = genre.AutoProfileName(v)
	}
	if v, ok := os.LookupEnv("AUDIO_REACTIVITY_PRESET"); ok {
		cfg.Reactivity = genre.ReactivityPresetName(v)
	}
	if v, ok := os.LookupEnv("GENRE_DECADE_MODE"); ok {
		cfg.DecadeMode = genre.DecadeMode(v)
	}
	if v, ok := os.LookupEnv("META_AUTO_TEMPO_TRACKERS_AUTO"); ok {
		cfg.TempoTrackersAuto = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("META_AUTO_BASELINE_TEMPO_TRACKER"); ok {
		cfg.TempoTrackerBaseline = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("META_AUTO_PEAKS_TEMPO_TRACKER"); ok {
		cfg.TempoTrackerPeaks = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("META_AUTO_TRANSIENTS_TEMPO_TRACKER"); ok {
		cfg.TempoTrackerTransients = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("META_AUTO_FLUX_TEMPO_TRACKER"); ok {
		cfg.TempoTrackerFlux = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("MANUAL_PALETTE_COLORS_PER_FAMILY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ManualPaletteColorsPerFamily = n
		}
	}
	if v, ok := os.LookupEnv("MANUAL_PALETTE_DISORDER"); ok {
		cfg.ManualPaletteDisorder = v == "1" || v == "true"
	}
	if v, ok := os.LookupEnv("MANUAL_PALETTE_CYCLE_MODE"); ok {
		cfg.PaletteMode = palette.CycleMode(v)
	}

	return cfg
}

// SetOutcome is the typed result of a runtime control-surface setter
// (spec.md §7): every Engine setter returns one of these instead of a
// bare bool, so callers can distinguish "applied" from "accepted but a
// no-op" from "rejected".
type SetOutcome int

const (
	// SetApplied means the value was accepted and changed engine state.
	SetApplied SetOutcome = iota
	// SetNoop means the value was accepted but matched existing state.
	SetNoop
	// SetRejected means the value failed validation and was not applied.
	SetRejected
)

// SetResult pairs a SetOutcome with an optional human-readable reason,
// populated when Outcome is SetRejected.
type SetResult struct {
	Outcome SetOutcome
	Reason  string
}

func Applied() SetResult { return SetResult{Outcome: SetApplied} }
func Noop() SetResult    { return SetResult{Outcome: SetNoop} }
func Rejected(reason string) SetResult {
	return SetResult{Outcome: SetRejected, Reason: reason}
}
