package core

import (
	"math"
	"time"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/cybre/reactive-light-engine/internal/utils"
)

const (
	onsetRingCapacity = 760
	onsetRecomputeMs  = 180
	minCandidateBPM   = 70
	maxCandidateBPM   = 190
	ibiRingCapacity   = 16
	octavePromoteCorrRatio = 0.84
	percussiveEvidenceGate = 0.22
)

// drums approximates the teacher's "low-band energy as percussive proxy":
// the core has no independent drum-stem signal, so low-band energy plus
// transient stands in for "percussive support" everywhere spec.md uses
// the word "drums" (tracker election, motion blending, fast-hit gating).
func drums(f AudioFrame) float64 {
	return utils.Clamp(f.BandLow*0.7+f.Transient*0.3, 0, 1.2)
}

// OnsetTempoEstimator maintains a rolling onset series and periodically
// recomputes a BPM + confidence via circular autocorrelation (spec.md
// §4.3 "onset-tempo estimator"). Grounded on the teacher pack's
// autocorrelation-over-candidate-lags approach (other_examples bpm.go),
// adapted to operate on pre-extracted per-frame features instead of raw
// PCM, and to re-evaluate on a timer instead of once over a whole buffer.
type OnsetTempoEstimator struct {
	ring        []float64
	ringHead    int
	ringLen     int
	frameMs     float64
	sinceEval   float64
	bpm         float64
	confidence  float64
	percussive  float64
}

// NewOnsetTempoEstimator constructs an estimator for the given nominal
// per-frame duration.
func NewOnsetTempoEstimator(frameMs float64) *OnsetTempoEstimator {
	return &OnsetTempoEstimator{
		ring:    make([]float64, onsetRingCapacity),
		frameMs: frameMs,
	}
}

// Push appends one frame's onset strength and, every onsetRecomputeMs,
// recomputes BPM/confidence.
func (o *OnsetTempoEstimator) Push(f AudioFrame, dtMs float64) {
	lowRise := utils.Clamp(f.BandLow, 0, 1)
	onset := f.SpectralFlux*0.52 + f.Transient*0.4 + lowRise*0.34 + maxFloat(0, f.Peak-f.RMS)*0.08

	o.ring[o.ringHead] = onset
	o.ringHead = (o.ringHead + 1) % onsetRingCapacity
	if o.ringLen < onsetRingCapacity {
		o.ringLen++
	}

	o.percussive = o.percussive*0.9 + drums(f)*0.1

	o.sinceEval += dtMs
	if o.sinceEval >= onsetRecomputeMs && o.ringLen >= 64 {
		o.sinceEval = 0
		o.recompute()
	}
}

// BPM returns the current onset-tempo BPM estimate (0 if there's
// insufficient history), and its confidence in [0, 1].
func (o *OnsetTempoEstimator) BPM() (bpm, confidence float64) {
	return o.bpm, o.confidence
}

func (o *OnsetTempoEstimator) ordered() []float64 {
	out := make([]float64, o.ringLen)
	start := o.ringHead - o.ringLen
	for i := 0; i < o.ringLen; i++ {
		idx := ((start+i)%onsetRingCapacity + onsetRingCapacity) % onsetRingCapacity
		out[i] = o.ring[idx]
	}
	return out
}

func (o *OnsetTempoEstimator) recompute() {
	series := o.ordered()
	n := len(series)
	if n < 64 || o.frameMs <= 0 {
		return
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	if variance <= 1e-9 {
		return
	}

	type scored struct {
		bpm  float64
		lag  int
		corr float64
	}
	var candidates []scored

	for bpmCandidate := minCandidateBPM; bpmCandidate <= maxCandidateBPM; bpmCandidate++ {
		lag := int(math.Round((60000.0 / float64(bpmCandidate)) / o.frameMs))
		if lag < 1 || lag >= n {
			continue
		}
		corr := pearsonAtLag(series, mean, variance, lag)
		candidates = append(candidates, scored{bpm: float64(bpmCandidate), lag: lag, corr: corr})
	}
	if len(candidates) == 0 {
		return
	}

	bestIdx := 0
	for i, c := range candidates {
		if c.corr > candidates[bestIdx].corr {
			bestIdx = i
		}
	}
	best := candidates[bestIdx]

	secondBest := -1.0
	for i, c := range candidates {
		if i == bestIdx {
			continue
		}
		if c.corr > secondBest {
			secondBest = c.corr
		}
	}
	if secondBest < -1 {
		secondBest = best.corr
	}

	confidence := utils.Clamp(best.corr*0.65+(best.corr-secondBest)*0.9, 0, 1)
	bpm := best.bpm

	// Octave correction: promote to 2x when percussive evidence supports
	// it and the doubled lag's correlation is within 84% of the base
	// correlation (spec.md §9 ambiguity note 3 — left as documented,
	// including the soft-percussive half-time acceptance it calls out).
	doubledBPM := bpm * 2
	if doubledBPM <= maxCandidateBPM && o.percussive >= percussiveEvidenceGate {
		doubledLag := int(math.Round((60000.0 / doubledBPM) / o.frameMs))
		if doubledLag >= 1 && doubledLag < n {
			doubledCorr := pearsonAtLag(series, mean, variance, doubledLag)
			if doubledCorr >= best.corr*octavePromoteCorrRatio {
				bpm = doubledBPM
			}
		}
	}

	o.bpm = bpm
	o.confidence = confidence
}

// pearsonAtLag computes the Pearson correlation of series against itself
// shifted circularly by lag, reusing the precomputed mean/variance.
func pearsonAtLag(series []float64, mean, variance float64, lag int) float64 {
	n := len(series)
	var cov float64
	for i := 0; i < n; i++ {
		j := (i + lag) % n
		cov += (series[i] - mean) * (series[j] - mean)
	}
	return cov / variance
}

// BeatEvent is the output of one tick's beat-onset decision.
type BeatEvent struct {
	Beat          bool
	Confidence    float64
	IntervalMs    float64
	BPM           float64
	OnsetBPM      float64
	OnsetConf     float64
	NextBeatEtaMs float64
}

// BeatTracker performs per-tick beat onset detection, BPM stabilization
// via a ring of recent inter-beat intervals, and owns the onset-tempo
// estimator (spec.md §4.3).
type BeatTracker struct {
	onset *OnsetTempoEstimator

	lastBeatAt     time.Time
	lastBeatEnergy float64
	sinceLastMs    float64
	stableBPM      float64
	ibiRing        []float64
	ibiIndex       int
	ibiFilled      int
	confidence     float64
}

// NewBeatTracker constructs a BeatTracker for the given nominal per-frame
// duration in ms.
func NewBeatTracker(frameMs float64) *BeatTracker {
	return &BeatTracker{
		onset:   NewOnsetTempoEstimator(frameMs),
		ibiRing: make([]float64, ibiRingCapacity),
	}
}

var ratioCandidates = []float64{0.5, 2.0 / 3, 0.75, 5.0 / 6, 1.0, 1.2, 4.0 / 3, 1.5, 2.0}

// Step advances the tracker by one frame. energy comes from the
// EnergyFollower so the detector shares the same smoothed signal the rest
// of the core reacts to.
func (bt *BeatTracker) Step(f AudioFrame, p genre.Profile, energy float64, now time.Time, dtMs float64) BeatEvent {
	bt.onset.Push(f, dtMs)
	onsetBPM, onsetConf := bt.onset.BPM()
	bt.sinceLastMs += dtMs

	bpmForGap := bt.stableBPM
	if bpmForGap <= 0 {
		bpmForGap = onsetBPM
	}
	if bpmForGap <= 0 {
		bpmForGap = 120
	}
	predictedMs := utils.Clamp((60000/bpmForGap)*p.Reference.BeatGapScale, 128, 520)

	if bt.sinceLastMs < predictedMs*0.5 {
		bt.confidence *= 0.985
		return BeatEvent{Confidence: bt.confidence, IntervalMs: bt.sinceLastMs, BPM: bt.stableBPM, OnsetBPM: onsetBPM, OnsetConf: onsetConf, NextBeatEtaMs: maxFloat(0, predictedMs-bt.sinceLastMs)}
	}

	threshold := (p.BeatThreshold + p.Reference.BeatThresholdBias) - f.Transient*0.12 - f.SpectralFlux*0.1
	riseGate := (p.BeatRiseGate + p.Reference.BeatRiseBias) - maxFloat(0, bt.sinceLastMs-predictedMs)/predictedMs*0.08

	rise := energy - bt.lastBeatEnergy
	thresholdHit := energy > threshold && rise > riseGate

	drumHit := drums(f)
	fastHit := drumHit > 0.26 && (f.Transient > 0.15 || f.SpectralFlux > 0.13) && energy > 0.9*threshold

	overdue := bt.sinceLastMs > predictedMs*2 && energy > threshold*0.6

	accept := thresholdHit || fastHit || overdue
	if bt.sinceLastMs < predictedMs {
		accept = fastHit
	}

	if !accept {
		bt.confidence *= 0.99
		return BeatEvent{Confidence: bt.confidence, IntervalMs: bt.sinceLastMs, BPM: bt.stableBPM, OnsetBPM: onsetBPM, OnsetConf: onsetConf, NextBeatEtaMs: maxFloat(0, predictedMs-bt.sinceLastMs)}
	}

	interval := bt.normalizeInterval(bt.sinceLastMs, onsetBPM)
	bt.pushIBI(interval)
	bt.stableBPM = bt.stabilize(bt.estimateFromRing())

	bt.lastBeatEnergy = energy
	bt.sinceLastMs = 0
	bt.confidence = utils.Clamp(bt.confidence*0.6+0.4, 0, 1)

	nextGap := utils.Clamp((60000/maxFloat(bt.stableBPM, 1))*p.Reference.BeatGapScale, 128, 520)
	return BeatEvent{
		Beat:          true,
		Confidence:    bt.confidence,
		IntervalMs:    interval,
		BPM:           bt.stableBPM,
		OnsetBPM:      onsetBPM,
		OnsetConf:     onsetConf,
		NextBeatEtaMs: nextGap,
	}
}

// normalizeInterval searches the documented ratio set against a blended
// hint (median IBI, current stable BPM, onset BPM) and returns the raw
// gap rescaled by whichever ratio produces the smallest combined penalty.
func (bt *BeatTracker) normalizeInterval(rawMs, onsetBPM float64) float64 {
	hintMs := bt.hintIntervalMs(onsetBPM)
	if hintMs <= 0 {
		return rawMs
	}

	bestRatio := 1.0
	bestPenalty := math.MaxFloat64
	for _, ratio := range ratioCandidates {
		candidateMs := rawMs / ratio
		logDrift := math.Abs(math.Log(candidateMs / hintMs))
		bpmDistance := math.Abs(60000/candidateMs - 60000/hintMs) / 60
		penalty := logDrift + bpmDistance*0.5
		if penalty < bestPenalty {
			bestPenalty = penalty
			bestRatio = ratio
		}
	}
	return rawMs / bestRatio
}

func (bt *BeatTracker) hintIntervalMs(onsetBPM float64) float64 {
	median := bt.medianIBI()
	var sum, count float64
	if median > 0 {
		sum += median
		count++
	}
	if bt.stableBPM > 0 {
		sum += 60000 / bt.stableBPM
		count++
	}
	if onsetBPM > 0 {
		sum += 60000 / onsetBPM
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

func (bt *BeatTracker) medianIBI() float64 {
	if bt.ibiFilled == 0 {
		return 0
	}
	vals := append([]float64(nil), bt.ibiRing[:bt.ibiFilled]...)
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j-1] > vals[j]; j-- {
			vals[j-1], vals[j] = vals[j], vals[j-1]
		}
	}
	return vals[len(vals)/2]
}

func (bt *BeatTracker) pushIBI(intervalMs float64) {
	bt.ibiRing[bt.ibiIndex] = intervalMs
	bt.ibiIndex = (bt.ibiIndex + 1) % ibiRingCapacity
	if bt.ibiFilled < ibiRingCapacity {
		bt.ibiFilled++
	}
}

func (bt *BeatTracker) estimateFromRing() float64 {
	median := bt.medianIBI()
	if median <= 0 {
		return bt.stableBPM
	}
	return 60000 / median
}

// stabilize damps BPM jumps via harmonic-ratio continuity: if the new
// estimate is close to a simple ratio (1/2, 2/3, 1, 3/2, 2) of the previous
// stable BPM, the previous BPM is trusted more heavily to avoid chatter.
func (bt *BeatTracker) stabilize(newBPM float64) float64 {
	if newBPM <= 0 {
		return bt.stableBPM
	}
	if bt.stableBPM <= 0 {
		return newBPM
	}
	for _, ratio := range []float64{0.5, 2.0 / 3, 1, 1.5, 2} {
		if math.Abs(newBPM-bt.stableBPM*ratio) < bt.stableBPM*ratio*0.03 {
			return bt.stableBPM*0.7 + newBPM*0.3
		}
	}
	return bt.stableBPM*0.35 + newBPM*0.65
}
