package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"

	"github.com/cybre/reactive-light-engine/internal/config"
	"github.com/cybre/reactive-light-engine/internal/ui"
)

func runInteractiveSetup(cfg config.Options, devices []*portaudio.DeviceInfo, needGenre, needDevice bool) (ui.SetupResult, error) {
	genreOpts := buildGenreOptions()
	deviceOpts := buildDeviceOptions(devices)

	initialGenre := 0
	for i, g := range genreOrder {
		if g == cfg.Genre {
			initialGenre = i
			break
		}
	}

	return ui.RunSetup(genreOpts, deviceOpts, ui.SetupConfig{
		RequireGenre:  needGenre,
		RequireDevice: needDevice,
		InitialGenre:  initialGenre,
		InitialDevice: 0,
	})
}

func buildGenreOptions() []ui.Option {
	options := make([]ui.Option, len(genreOrder))
	for i, g := range genreOrder {
		options[i] = ui.Option{Label: string(g)}
	}
	return options
}

func buildDeviceOptions(devices []*portaudio.DeviceInfo) []ui.Option {
	options := make([]ui.Option, len(devices))
	for i, dev := range devices {
		options[i] = ui.Option{
			Label: fmt.Sprintf(
				"[%d] %s · %.0fHz · in:%d · latency:%.1fms",
				i,
				dev.Name,
				dev.DefaultSampleRate,
				dev.MaxInputChannels,
				dev.DefaultLowInputLatency.Seconds()*1000,
			),
		}
	}
	return options
}

func selectDevice(devices []*portaudio.DeviceInfo, defaultIndex, requested int) (*portaudio.DeviceInfo, error) {
	if requested >= 0 {
		if requested >= len(devices) {
			return nil, eris.Errorf("device index %d out of range (%d devices available)", requested, len(devices))
		}
		return devices[requested], nil
	}
	if defaultIndex >= 0 && defaultIndex < len(devices) {
		return devices[defaultIndex], nil
	}
	if len(devices) > 0 {
		return devices[0], nil
	}
	return nil, eris.New("no audio input devices available")
}
