// Command reactor drives the reactive lighting engine from either live
// microphone/line-in capture or a synthetic demo scenario, mirroring the
// teacher's cmd/controller split between device/bulb discovery, an
// errgroup-supervised capture/analyze/control pipeline, and a
// slog-based logging setup (spec.md §2/§4/§8).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"

	"github.com/cybre/reactive-light-engine/internal/config"
	"github.com/cybre/reactive-light-engine/internal/engine"
	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/cybre/reactive-light-engine/internal/ui"
)

// genreOrder fixes a stable display order for the interactive picker;
// iterating genre.Profiles directly would be map-order-random.
var genreOrder = []genre.Genre{
	genre.Pop, genre.Rock, genre.HipHop, genre.RnB,
	genre.EDM, genre.House, genre.Trance, genre.Techno, genre.DnB,
	genre.Metal, genre.Ambient, genre.Cyberpunk,
}

func main() {
	var listDevices bool
	flag.BoolVar(&listDevices, "list-devices", false, "list available PortAudio devices and exit")

	cfg := config.ParseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logOutput := os.Stdout
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	if cfg.Visualize && !cfg.Debug {
		logLevel = slog.LevelWarn
	}
	if cfg.Visualize {
		logOutput = os.Stderr
		fmt.Fprintln(os.Stderr, "Visualizer active; logs limited to warnings on stderr. Use --debug to see debug output.")
	}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if cfg.Demo {
		if err := runDemo(ctx, logger, cfg); err != nil && !eris.Is(err, context.Canceled) {
			logger.Error("demo run failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if err := portaudio.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "portaudio failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enumerate devices: %v\n", err)
		os.Exit(1)
	}

	if listDevices {
		defaultDevice, _ := portaudio.DefaultInputDevice()
		for idx, dev := range devices {
			fmt.Printf(
				"%3d: %-40s  default:%-5t  sample_rate:%.0f  max_in:%d  latency_low:%.1fms  latency_high:%.1fms\n",
				idx,
				dev.Name, defaultDevice != nil && idx == defaultDevice.Index,
				dev.DefaultSampleRate,
				dev.MaxInputChannels,
				dev.DefaultLowInputLatency.Seconds()*1000,
				dev.DefaultHighInputLatency.Seconds()*1000,
			)
		}
		return
	}

	defaultDevice, err := portaudio.DefaultInputDevice()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get default input device: %v\n", err)
		os.Exit(1)
	}

	device, err := selectDevice(devices, defaultDevice.Index, cfg.DeviceIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to select device: %v\n", err)
		os.Exit(1)
	}
	if device.MaxInputChannels < 1 {
		fmt.Fprintf(os.Stderr, "device %s has no input channels; select a loopback/monitor device\n", device.Name)
		os.Exit(1)
	}

	needsGenreSetup := !cfg.AutoGenre
	needsDeviceSetup := cfg.DeviceIndex < 0
	if needsGenreSetup || needsDeviceSetup {
		setup, err := runInteractiveSetup(cfg, devices, needsGenreSetup, needsDeviceSetup)
		if err != nil {
			if err == ui.ErrSelectionAborted {
				return
			}
			if err != ui.ErrNoInteractiveTTY {
				fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
				os.Exit(1)
			}
		} else {
			if needsGenreSetup {
				cfg.Genre = genreOrder[setup.GenreIndex]
			}
			if needsDeviceSetup {
				device = devices[setup.DeviceIndex]
			}
		}
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = device.DefaultSampleRate
	}
	if cfg.Channels > int(device.MaxInputChannels) {
		logger.Warn("requested channels exceed device capabilities",
			slog.Int("requested", cfg.Channels),
			slog.Int("max", int(device.MaxInputChannels)))
		cfg.Channels = int(device.MaxInputChannels)
	}

	eng := engine.New(logger, cfg)

	if err := runLive(ctx, logger, eng, device, cfg); err != nil && !eris.Is(err, context.Canceled) {
		logger.Error("audio reactive loop failed", slog.Any("error", err))
		os.Exit(1)
	}
}

