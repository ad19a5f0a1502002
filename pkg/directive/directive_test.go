package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricmotion/pkg/audio"
	"lyricmotion/pkg/palette"
)

func analysisFixture() *audio.MusicAnalysis {
	return &audio.MusicAnalysis{
		Tempo:     120,
		Beats:     []float64{0, 0.5, 1.0, 1.5},
		Energy:    []float64{0.9, 0.2, 0.9, 0.2},
		Duration:  10,
		GenreHint: "pop",
		Tier:      audio.TierFull,
	}
}

func TestGenerateTiming(t *testing.T) {
	lines := []string{"one two three", "four five"}
	ds := Generate(lines, analysisFixture(), palette.Fallback)
	require.Len(t, ds, 2)

	// Lines land on beats while beats last.
	assert.Equal(t, 0.0, ds[0].Line.Start)
	assert.Equal(t, 0.5, ds[1].Line.Start)

	// Duration is word-count scaled but never under two beats.
	assert.InDelta(t, 1.0, ds[0].Line.End-ds[0].Line.Start, 0.001) // 2-beat floor
	assert.InDelta(t, 1.0, ds[1].Line.End-ds[1].Line.Start, 0.001)
}

func TestGenerateChainsPastBeats(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e", "f"}
	ds := Generate(lines, analysisFixture(), palette.Fallback)
	require.Len(t, ds, 6)

	// Once beats run out, each line starts where the previous ended.
	assert.Equal(t, ds[3].Line.End, ds[4].Line.Start)
	assert.Equal(t, ds[4].Line.End, ds[5].Line.Start)
}

func TestGenerateAnchorsAlternate(t *testing.T) {
	ds := Generate([]string{"a", "b", "c"}, analysisFixture(), palette.Fallback)
	require.Len(t, ds, 3)
	assert.Equal(t, AnchorCenter, ds[0].Line.Anchor)
	assert.Equal(t, AnchorBottom, ds[1].Line.Anchor)
	assert.Equal(t, AnchorCenter, ds[2].Line.Anchor)
}

func TestGenerateEmphasizesRepeats(t *testing.T) {
	pal := palette.Palette{Primary: "#aaaaaa", Accent: "#ff0000"}
	ds := Generate([]string{"chorus", "verse", "chorus"}, analysisFixture(), pal)
	require.Len(t, ds, 3)

	assert.True(t, ds[0].Line.Emphasis)
	assert.Equal(t, "#ff0000", ds[0].Line.Color)
	assert.False(t, ds[1].Line.Emphasis)
	assert.Equal(t, "#aaaaaa", ds[1].Line.Color)
	assert.True(t, ds[2].Line.Emphasis)
}

func TestGenerateNoBeatsFallback(t *testing.T) {
	analysis := analysisFixture()
	analysis.Beats = nil
	ds := Generate([]string{"line"}, analysis, palette.Fallback)
	require.Len(t, ds, 1)

	assert.Equal(t, 0.0, ds[0].Line.Start)
	assert.Greater(t, ds[0].Line.End, ds[0].Line.Start)
}

func TestGenerateStyleFollowsEnergy(t *testing.T) {
	ds := Generate([]string{"a", "b"}, analysisFixture(), palette.Fallback)
	require.Len(t, ds, 2)

	// pop genre: high intensity rises, low intensity fades.
	assert.Equal(t, "rise", ds[0].Style)
	assert.Equal(t, "fade", ds[1].Style)
}

func TestPickStyle(t *testing.T) {
	assert.Equal(t, "flash", PickStyle("electronic", 0.7))
	assert.Equal(t, "slide", PickStyle("electronic", 0.3))
	assert.Equal(t, "rise", PickStyle("pop", 0.6))
	assert.Equal(t, "fade", PickStyle("pop", 0.4))
	assert.Equal(t, "drift", PickStyle("rnb", 0.6))
	assert.Equal(t, "soft-fade", PickStyle("rnb", 0.4))
	assert.Equal(t, "slow-fade", PickStyle("ballad", 0.9))
	assert.Equal(t, "slow-fade", PickStyle("unknown", 0.9))
}
