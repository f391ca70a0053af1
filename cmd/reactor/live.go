package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/cybre/reactive-light-engine/internal/config"
	"github.com/cybre/reactive-light-engine/internal/core"
	"github.com/cybre/reactive-light-engine/internal/dsp"
	"github.com/cybre/reactive-light-engine/internal/emitter"
	"github.com/cybre/reactive-light-engine/internal/engine"
	"github.com/cybre/reactive-light-engine/internal/telemetry"
	"github.com/cybre/reactive-light-engine/internal/ui"
)

// runLive wires capture → analyze → engine tick → emit as three
// errgroup-supervised stages, the same shape as the teacher's
// captureAudio/analyze/controller.Run split, generalized from one
// bulb-bound ledController to the dual-brand scheduled emitter.
func runLive(ctx context.Context, logger *slog.Logger, eng *engine.Engine, device *portaudio.DeviceInfo, cfg config.Options) error {
	logger.Info("using audio input device",
		slog.String("name", device.Name),
		slog.Float64("sample_rate", cfg.SampleRate),
		slog.Int("channels", cfg.Channels),
		slog.Int("frame_size", cfg.FrameSize))

	var viz *ui.Visualizer
	if cfg.Visualize {
		viz = ui.NewVisualizer(nil)
		defer viz.Close()
	}
	sink := emitter.NewConsoleSink(os.Stdout)

	if err := eng.Start(ctx); err != nil {
		return err
	}
	defer eng.Stop()

	frameCh := make(chan []float32, 32)
	featureCh := make(chan core.AudioFrame, 32)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frameCh)
		return captureAudio(ctx, logger, frameCh, device, cfg)
	})

	g.Go(func() error {
		defer close(featureCh)
		analyzer := dsp.NewAnalyzer(cfg.SampleRate, cfg.FrameSize, dsp.DefaultBands())
		var mono []float64
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case raw, ok := <-frameCh:
				if !ok {
					return nil
				}
				mono = dsp.ToMono(raw, cfg.Channels, mono)
				features := analyzer.Process(mono, time.Now())
				frame := frameFromFeatures(features)
				select {
				case featureCh <- frame:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	g.Go(func() error {
		return tickLoop(ctx, eng, sink, viz, featureCh)
	})

	if err := g.Wait(); err != nil {
		if eris.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

// frameFromFeatures maps the DSP layer's spectral feature set onto the
// reactive core's AudioFrame contract.
func frameFromFeatures(f dsp.Features) core.AudioFrame {
	return core.AudioFrame{
		RMS:          f.RMS,
		Peak:         f.Peak,
		Transient:    f.Transient,
		ZCR:          f.ZeroCrossingRate,
		BandLow:      f.BandEnergyNormalized[0],
		BandMid:      f.BandEnergyNormalized[1],
		BandHigh:     f.BandEnergyNormalized[2],
		SpectralFlux: f.SpectralFlux,
	}
}

// tickLoop drains analyzed frames, advances the engine, and forwards any
// scheduler-due emissions to sink, updating the visualizer on every tick
// regardless of emission cadence so it stays responsive even at low
// overclock tiers.
func tickLoop(ctx context.Context, eng *engine.Engine, sink emitter.Sink, viz *ui.Visualizer, in <-chan core.AudioFrame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-in:
			if !ok {
				return nil
			}
			result, err := eng.Tick(frame, time.Now())
			if err != nil {
				return err
			}
			if result.HueDue {
				sink.EmitHue(result.Hue)
			}
			if result.WizDue {
				sink.EmitWiz(result.Wiz)
			}
			if viz != nil {
				viz.Update(visualizerFrame(eng.GetTelemetry(), result))
			}
		}
	}
}

// visualizerFrame projects a telemetry snapshot plus the tick's hue
// intent onto the UI's display frame.
func visualizerFrame(t telemetry.Telemetry, result engine.TickResult) ui.VisualizerFrame {
	hueDeg := float64(result.Hue.State.Hue) / 65535 * 360
	return ui.VisualizerFrame{
		Hue:          hueDeg,
		Saturation:   float64(result.Hue.State.Sat) / 254 * 100,
		Brightness:   float64(result.Hue.State.Bri) / 254 * 100,
		Intensity:    t.Intensity,
		Energy:       t.Energy,
		Beat:         t.BeatConfidence > 0.6,
		BeatStrength: t.BeatConfidence,
		Bass:         t.Frame.BandLow,
		Mid:          t.Frame.BandMid,
		Treble:       t.Frame.BandHigh,
		Motion:       t.Motion,
		BPM:          t.BPM,
		TargetHz:     t.TargetHz,
		Behavior:     string(t.Behavior),
		Scene:        string(t.Scene),
		Genre:        string(t.Genre),
	}
}

func captureAudio(ctx context.Context, logger *slog.Logger, out chan<- []float32, device *portaudio.DeviceInfo, cfg config.Options) error {
	if device == nil {
		return eris.New("audio device is not specified")
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.FrameSize,
	}
	if cfg.Latency > 0 {
		params.Input.Latency = cfg.Latency
	}

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		frame := make([]float32, len(in))
		copy(frame, in)

		select {
		case out <- frame:
		default:
			select {
			case <-out:
			default:
			}
			select {
			case out <- frame:
			default:
			}
		}
	})
	if err != nil {
		return eris.Wrap(err, "open audio stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return eris.Wrap(err, "start audio stream")
	}
	defer stream.Stop()

	logger.Debug("audio stream started")
	<-ctx.Done()
	return ctx.Err()
}
