package core

import (
	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/cybre/reactive-light-engine/internal/utils"
)

const (
	silenceFrames      = 6
	energyDecay        = 0.88
	floorDecay         = 0.86
	energySnapFloor    = 0.002
	floorSnapFloor     = 0.001
	energyRiseAlpha    = 0.26
	energyFallAlpha    = 0.12
	quietCapBase       = 0.05
	quietCapSpan       = 0.72
)

// EnergyFollower keeps a smoothed "energy" value and an "energyFloor"
// that clamps it from below (spec.md §4.2). Nothing in the follower
// raises energyFloor: it starts at 0 and only the silence decay touches
// it, so it stays at 0 and does not track quiet passages.
type EnergyFollower struct {
	energy      float64
	energyFloor float64
	silentRun   int
	lastBeatEnergy float64
}

// Output is the per-tick result of the energy follower.
type EnergyOutput struct {
	Energy      float64
	EnergyFloor float64
	Intensity   float64
}

// Step advances the follower by one AudioFrame.
//
// midiBias/oscBias are the decayed external biases the engine tracks from
// MidiNote/MidiCc/OscEnergy pushes; dropActive disables the quiet cap
// (spec.md §4.2 says the cap only applies "under non-drop conditions").
func (e *EnergyFollower) Step(f AudioFrame, p genre.Profile, midiBias, oscBias float64, dropActive bool) EnergyOutput {
	silent := f.RMS == 0 && f.Peak == 0 && f.Transient == 0 && f.SpectralFlux == 0

	if silent {
		e.silentRun++
	} else {
		e.silentRun = 0
	}

	if e.silentRun >= silenceFrames {
		e.energy *= energyDecay
		e.energyFloor *= floorDecay
		if e.energy < energySnapFloor {
			e.energy = 0
		}
		if e.energyFloor < floorSnapFloor {
			e.energyFloor = 0
		}
	} else {
		target := e.computeTarget(f, p, midiBias, oscBias, dropActive)

		alpha := energyFallAlpha
		if target > e.energy {
			alpha = energyRiseAlpha
		}
		e.energy += alpha * (target - e.energy)
	}

	e.energy = utils.Clamp(e.energy, e.energyFloor, 1.2)

	intensity := utils.Clamp(
		e.energy*0.68+
			f.Transient*0.2+
			maxFloat(0, f.Peak-f.RMS)*0.12+
			f.SpectralFlux*p.IntensityFlux+
			f.BandHigh*p.IntensityHigh,
		0, 1)

	return EnergyOutput{Energy: e.energy, EnergyFloor: e.energyFloor, Intensity: intensity}
}

func (e *EnergyFollower) computeTarget(f AudioFrame, p genre.Profile, midiBias, oscBias float64, dropActive bool) float64 {
	vocalPenalty := p.VocalPenalty * midOnlyDominance(f)

	target := f.RMS*p.AudioGain +
		f.Peak*p.PeakLift +
		f.Transient*p.TransientLift +
		f.ZCR*p.ZcrLift +
		(f.BandLow*p.BandLiftLow+f.BandMid*p.BandLiftMid+f.BandHigh*p.BandLiftHigh) +
		f.SpectralFlux*p.FluxLift -
		vocalPenalty +
		midiBias + oscBias

	target = utils.Clamp(target, 0, 1.2)

	if !dropActive {
		quietByRms := linearGate(f.RMS, p.Quiet.Rms, p.Quiet.Rms*3)
		quietByTransient := linearGate(f.Transient, p.Quiet.Transient, p.Quiet.Transient*3)
		quietByFlux := linearGate(f.SpectralFlux, p.Quiet.Flux, p.Quiet.Flux*3)
		quietDrive := maxFloat(quietByRms, maxFloat(quietByTransient, quietByFlux))

		cap := quietCapBase + quietDrive*quietCapSpan
		if target > cap {
			target = cap
		}

		microFloor := f.Transient*0.06 + f.SpectralFlux*0.05 + (f.BandLow+f.BandMid+f.BandHigh)*0.01
		if target < microFloor {
			target = microFloor
		}
	}

	return target
}

// midOnlyDominance rewards percussive support (bass+high presence) and
// penalizes frames where mid energy dominates without supporting bands,
// the "vocal penalty" spec.md §4.2 describes.
func midOnlyDominance(f AudioFrame) float64 {
	support := f.BandLow + f.BandHigh
	if support <= 1e-6 {
		return f.BandMid
	}
	dominance := f.BandMid - support/2
	if dominance < 0 {
		return 0
	}
	return utils.Clamp(dominance, 0, 1)
}

// linearGate maps v linearly from 0 at `gate` to 1 at `ceiling`.
func linearGate(v, gate, ceiling float64) float64 {
	if v <= gate {
		return 0
	}
	if ceiling <= gate {
		return 1
	}
	return utils.Clamp((v-gate)/(ceiling-gate), 0, 1)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
