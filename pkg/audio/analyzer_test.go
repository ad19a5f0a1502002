package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreFromTempo(t *testing.T) {
	assert.Equal(t, "electronic", GenreFromTempo(140))
	assert.Equal(t, "pop", GenreFromTempo(120))
	assert.Equal(t, "rnb", GenreFromTempo(100))
	assert.Equal(t, "ballad", GenreFromTempo(80))
	assert.Equal(t, "ballad", GenreFromTempo(90))
}

func TestDistributeBeats(t *testing.T) {
	beats := DistributeBeats(10, 120) // one beat every 0.5s
	require.Len(t, beats, 20)
	assert.Equal(t, 0.0, beats[0])
	assert.InDelta(t, 0.5, beats[1], 0.001)
	assert.InDelta(t, 9.5, beats[19], 0.001)
}

func TestDistributeBeatsZeroDuration(t *testing.T) {
	assert.Nil(t, DistributeBeats(0, 120))
	assert.Nil(t, DistributeBeats(-1, 120))
}

func TestNormalizeCurve(t *testing.T) {
	curve := NormalizeCurve([]float64{0, 5, 10}, 3)
	require.Len(t, curve, 3)
	assert.InDelta(t, 0.0, curve[0], 0.001)
	assert.InDelta(t, 0.5, curve[1], 0.001)
	assert.InDelta(t, 1.0, curve[2], 0.001)
}

func TestNormalizeCurveEmptyInput(t *testing.T) {
	curve := NormalizeCurve(nil, 4)
	require.Len(t, curve, 4)
	for _, v := range curve {
		assert.Equal(t, 0.5, v)
	}
}

func TestNormalizeCurveDownsamples(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i)
	}
	curve := NormalizeCurve(values, 200)
	require.Len(t, curve, 200)
	assert.LessOrEqual(t, curve[0], curve[199])
}

func TestEstimateTempoImpulseTrain(t *testing.T) {
	// Onset envelope with a spike every 100 BPM beat: at 22050/512
	// hops per second, one beat is ~25.8 hops.
	hopsPerSecond := float64(sampleRate) / float64(hopSize)
	beatHops := hopsPerSecond * 60.0 / 100.0

	onsets := make([]float64, 2000)
	for i := 0; ; i++ {
		idx := int(float64(i) * beatHops)
		if idx >= len(onsets) {
			break
		}
		onsets[idx] = 1.0
	}

	tempo := EstimateTempo(onsets, sampleRate, hopSize)
	assert.InDelta(t, 100.0, tempo, 6.0)
}

func TestEstimateTempoEmpty(t *testing.T) {
	assert.Equal(t, 96.0, EstimateTempo(nil, sampleRate, hopSize))
}

func TestBeatGridCoversDuration(t *testing.T) {
	onsets := make([]float64, 500)
	beats := BeatGrid(onsets, 120, sampleRate, hopSize, 10)
	require.NotEmpty(t, beats)
	assert.Less(t, beats[len(beats)-1], 10.0)
	if len(beats) > 1 {
		assert.InDelta(t, 0.5, beats[1]-beats[0], 0.02)
	}
}

func TestBeatGridZeroTempo(t *testing.T) {
	assert.Nil(t, BeatGrid(nil, 0, sampleRate, hopSize, 10))
}

func TestOnsetEnvelopeSilenceVsNoise(t *testing.T) {
	silence := make([]float64, frameSize*8)
	onsets := OnsetEnvelope(silence)
	require.NotEmpty(t, onsets)
	for _, v := range onsets {
		assert.InDelta(t, 0.0, v, 1e-9)
	}
}

func TestOnsetEnvelopeTooShort(t *testing.T) {
	assert.Nil(t, OnsetEnvelope(make([]float64, frameSize-1)))
}

func TestMidBandEnergyRespondsToTone(t *testing.T) {
	// 1 kHz sits inside the 300-3000 Hz band.
	samples := make([]float64, frameSize*8)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / sampleRate)
	}
	energies := MidBandEnergy(samples)
	require.NotEmpty(t, energies)
	assert.Greater(t, energies[len(energies)-1], 1.0)
}

// withoutTools forces the analyzer down to the file-size tier.
func withoutTools(az *Analyzer) *Analyzer {
	az.lookPath = func(string) (string, error) {
		return "", fmt.Errorf("not found")
	}
	return az
}

func TestAnalyzeTierNone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	// 1 MB file ~ 10 seconds at the fallback bytes-per-second guess.
	require.NoError(t, os.WriteFile(path, make([]byte, 1_000_000), 0644))

	az := withoutTools(NewAnalyzer())
	analysis, err := az.Analyze(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, TierNone, analysis.Tier)
	assert.InDelta(t, 10.0, analysis.Duration, 0.01)
	assert.GreaterOrEqual(t, analysis.Tempo, 72.0)
	assert.LessOrEqual(t, analysis.Tempo, 140.0)
	assert.NotEmpty(t, analysis.Beats)
	require.Len(t, analysis.Energy, curvePoints)
	assert.Equal(t, 0.5, analysis.Energy[0])
	assert.NotEmpty(t, analysis.GenreHint)
}

func TestAnalyzeMissingFile(t *testing.T) {
	az := withoutTools(NewAnalyzer())
	_, err := az.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	analysis := &MusicAnalysis{Duration: 180, Tempo: 120, GenreHint: "pop", Tier: TierProbe}
	s := analysis.Summary()
	assert.Contains(t, s, "120.0 BPM")
	assert.Contains(t, s, "pop")
}
