package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/cybre/reactive-light-engine/internal/config"
	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/emitter"
	"github.com/cybre/reactive-light-engine/internal/engine"
)

// demoTickMs is the synthetic frame period the demo scenarios drive the
// engine at, matching the ~16ms analysis window live capture produces.
const demoTickMs = 16.0

// runDemo drives the engine from one of the named synthetic scenarios
// instead of live audio, the same role a canned fixture plays in the
// teacher's own tests, but run interactively against the real engine
// and printed to the console rather than asserted in a test file.
func runDemo(ctx context.Context, logger *slog.Logger, cfg config.Options) error {
	eng := engine.New(logger, cfg)
	sink := emitter.NewConsoleSink(os.Stdout)

	scenario, ok := demoScenarios[cfg.DemoScenario]
	if !ok {
		return fmt.Errorf("unrecognized demo scenario %q", cfg.DemoScenario)
	}

	fmt.Printf("running demo scenario %s: %s\n", cfg.DemoScenario, scenario.description)
	now := time.Now()
	for i := 0; i < scenario.ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame := scenario.frame(i)
		now = now.Add(time.Duration(demoTickMs) * time.Millisecond)

		if scenario.forceDropAt > 0 && i == scenario.forceDropAt {
			eng.PushIntent(core.ForceDrop{})
		}
		if scenario.armMetaAutoAt > 0 && i == scenario.armMetaAutoAt {
			eng.SetMetaAutoEnabled(true)
		}
		if scenario.armOverclockAutoAt > 0 && i == scenario.armOverclockAutoAt {
			eng.SetOverclockAutoEnabled(true)
		}
		if scenario.setOverclockAt > 0 && i == scenario.setOverclockAt {
			eng.SetOverclock(scenario.setOverclockLevel)
		}

		result, err := eng.Tick(frame, now)
		if err != nil {
			return err
		}
		if result.HueDue {
			sink.EmitHue(result.Hue)
		}
		if result.WizDue {
			sink.EmitWiz(result.Wiz)
		}

		if i%30 == 0 {
			t := eng.GetTelemetry()
			fmt.Printf("tick=%-4d behavior=%-6s scene=%-16s bpm=%6.1f energy=%.2f tier=%d tracker=%s\n",
				i, t.Behavior, t.Scene, t.BPM, t.Energy, t.Tier, t.DominantTracker)
		}
	}

	finalTelemetry := eng.GetTelemetry()
	fmt.Printf("final: behavior=%s scene=%s bpm=%.1f tier=%d targetHz=%.1f\n",
		finalTelemetry.Behavior, finalTelemetry.Scene, finalTelemetry.BPM, finalTelemetry.Tier, finalTelemetry.TargetHz)
	return nil
}

type demoScenario struct {
	description        string
	ticks               int
	frame               func(i int) core.AudioFrame
	forceDropAt         int
	armMetaAutoAt       int
	armOverclockAutoAt  int
	setOverclockAt      int
	setOverclockLevel   int
}

// demoScenarios implements spec.md §8's S1/S2/S3/S4/S6 synthetic
// fixtures (S5 is a palette-config-only scenario, exercised directly via
// SetPaletteConfig rather than a tick stream).
var demoScenarios = map[string]demoScenario{
	"s1": {
		description: "300 ticks of silence -> idle glow",
		ticks:       300,
		frame:       func(i int) core.AudioFrame { return core.AudioFrame{} },
	},
	"s2": {
		description: "128 BPM four-on-floor kick pattern",
		ticks:       400,
		frame:       fourOnFloorFrame(128),
	},
	"s3": {
		description: "128 BPM four-on-floor, then a forced drop",
		ticks:       400,
		frame:       fourOnFloorFrame(128),
		forceDropAt: 250,
	},
	"s4": {
		description:   "sustained high transient/flux with meta-auto armed",
		ticks:         320,
		frame:         sustainedHighEnergyFrame(),
		armMetaAutoAt: 1,
	},
	"s6": {
		description:        "overclock-auto armed, then a manual override disarms it",
		ticks:              300,
		frame:              fourOnFloorFrame(128),
		armOverclockAutoAt: 1,
		setOverclockAt:     150,
		setOverclockLevel:  5,
	},
}

// fourOnFloorFrame synthesizes a kick on every beat boundary for the
// given BPM, decaying exponentially between hits, riding a steady
// mid-energy bed (spec.md §8 S2).
func fourOnFloorFrame(bpm float64) func(i int) core.AudioFrame {
	beatMs := 60000.0 / bpm
	return func(i int) core.AudioFrame {
		tMs := float64(i) * demoTickMs
		phase := math.Mod(tMs, beatMs)
		kick := math.Exp(-phase / (beatMs * 0.12))
		return core.AudioFrame{
			RMS:          0.4,
			Peak:         0.4 + 0.5*kick,
			Transient:    0.45 * kick,
			ZCR:          0.2,
			BandLow:      0.9 * kick,
			BandMid:      0.3,
			BandHigh:     0.15,
			SpectralFlux: 0.3 * kick,
		}
	}
}

// sustainedHighEnergyFrame synthesizes a constant high-transient,
// high-flux signal (spec.md §8 S4) to exercise the meta-planner's
// fast-path promotion.
func sustainedHighEnergyFrame() func(i int) core.AudioFrame {
	return func(i int) core.AudioFrame {
		return core.AudioFrame{
			RMS:          0.55,
			Peak:         0.8,
			Transient:    0.55,
			ZCR:          0.35,
			BandLow:      0.5,
			BandMid:      0.5,
			BandHigh:     0.45,
			SpectralFlux: 0.5,
		}
	}
}
