package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// OnsetEnvelope computes a spectral-flux onset strength curve, one value
// per analysis hop. Positive magnitude increases between consecutive
// FFT frames are summed per frame.
func OnsetEnvelope(samples []float64) []float64 {
	if len(samples) < frameSize {
		return nil
	}

	window := hannWindow(frameSize)
	frames := (len(samples) - frameSize) / hopSize
	var prev []float64
	onsets := make([]float64, 0, frames)

	for f := 0; f < frames; f++ {
		start := f * hopSize
		frame := make([]float64, frameSize)
		for i := 0; i < frameSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}

		spectrum := fft.FFTReal(frame)
		mags := make([]float64, frameSize/2)
		for i := range mags {
			mags[i] = cmplx.Abs(spectrum[i])
		}

		var flux float64
		if prev != nil {
			for i := range mags {
				if diff := mags[i] - prev[i]; diff > 0 {
					flux += diff
				}
			}
		}
		onsets = append(onsets, flux)
		prev = mags
	}

	return onsets
}

// MidBandEnergy returns per-hop energy restricted to the 300-3000 Hz
// band, a cheap stand-in for vocal presence.
func MidBandEnergy(samples []float64) []float64 {
	if len(samples) < frameSize {
		return nil
	}

	window := hannWindow(frameSize)
	frames := (len(samples) - frameSize) / hopSize
	binHz := float64(sampleRate) / frameSize
	lowBin := int(300 / binHz)
	highBin := int(3000 / binHz)
	if highBin > frameSize/2 {
		highBin = frameSize / 2
	}

	energies := make([]float64, 0, frames)
	for f := 0; f < frames; f++ {
		start := f * hopSize
		frame := make([]float64, frameSize)
		for i := 0; i < frameSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}

		spectrum := fft.FFTReal(frame)
		var energy float64
		for i := lowBin; i < highBin; i++ {
			energy += cmplx.Abs(spectrum[i])
		}
		energies = append(energies, energy)
	}

	return energies
}

// EstimateTempo picks the BPM whose beat period best matches the onset
// envelope autocorrelation, scanning 60-200 BPM.
func EstimateTempo(onsets []float64, sr, hop int) float64 {
	if len(onsets) == 0 {
		return 96.0
	}

	hopsPerSecond := float64(sr) / float64(hop)
	minLag := int(hopsPerSecond * 60.0 / 200.0)
	maxLag := int(hopsPerSecond * 60.0 / 60.0)
	if maxLag >= len(onsets) {
		maxLag = len(onsets) - 1
	}
	if minLag < 1 {
		minLag = 1
	}
	if minLag >= maxLag {
		return 96.0
	}

	bestLag, bestScore := minLag, math.Inf(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		var score float64
		for i := lag; i < len(onsets); i++ {
			score += onsets[i] * onsets[i-lag]
		}
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	tempo := 60.0 * hopsPerSecond / float64(bestLag)
	return math.Max(60.0, math.Min(200.0, tempo))
}

// BeatGrid anchors a fixed beat grid on the phase offset where the
// onset envelope is strongest, then emits beat times up to duration.
func BeatGrid(onsets []float64, tempo float64, sr, hop int, duration float64) []float64 {
	if tempo <= 0 || duration <= 0 {
		return nil
	}

	interval := 60.0 / tempo
	hopsPerSecond := float64(sr) / float64(hop)
	lag := int(interval * hopsPerSecond)
	if lag < 1 || len(onsets) == 0 {
		return DistributeBeats(duration, tempo)
	}

	// Score every candidate phase by summing onset strength along its grid.
	bestPhase, bestScore := 0, math.Inf(-1)
	for phase := 0; phase < lag; phase++ {
		var score float64
		for i := phase; i < len(onsets); i += lag {
			score += onsets[i]
		}
		if score > bestScore {
			bestScore = score
			bestPhase = phase
		}
	}

	offset := float64(bestPhase) / hopsPerSecond
	var beats []float64
	for t := offset; t < duration; t += interval {
		beats = append(beats, math.Round(t*100)/100)
	}
	return beats
}

// NormalizeCurve rescales values to [0,1] and resamples the curve to
// target points. Empty input yields a flat 0.5 curve.
func NormalizeCurve(values []float64, target int) []float64 {
	if target <= 0 {
		return nil
	}
	if len(values) == 0 {
		flat := make([]float64, target)
		for i := range flat {
			flat[i] = 0.5
		}
		return flat
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	normalized := make([]float64, len(values))
	for i, v := range values {
		normalized[i] = (v - minVal) / (maxVal - minVal + 1e-9)
	}

	if len(normalized) == target {
		return normalized
	}

	resampled := make([]float64, target)
	step := float64(len(normalized)) / float64(target)
	if step < 1 {
		step = 1
	}
	for i := 0; i < target; i++ {
		idx := int(float64(i) * step)
		if idx >= len(normalized) {
			idx = len(normalized) - 1
		}
		resampled[i] = normalized[idx]
	}
	return resampled
}

func hannWindow(size int) []float64 {
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return window
}
