// Package directive assigns each formatted lyric line its timing,
// placement, color, and animation style from the music analysis.
package directive

import (
	"strings"

	"lyricmotion/pkg/audio"
	"lyricmotion/pkg/palette"
)

// Anchors for on-screen placement.
const (
	AnchorCenter = "center"
	AnchorBottom = "bottom"
)

// LyricLine is a formatted line with its resolved timing and look.
type LyricLine struct {
	RawText  string   `json:"raw_text"`
	Words    []string `json:"words"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Emphasis bool     `json:"emphasis"`
	Anchor   string   `json:"anchor"`
	Color    string   `json:"color"`
}

// Directive pairs a lyric line with its chosen animation.
type Directive struct {
	Line      LyricLine `json:"line"`
	Style     string    `json:"style"`
	Intensity float64   `json:"intensity"`
}

// Generate builds one directive per display line. Lines land on beats
// while beats last, then chain after the previous line; repeated lines
// are emphasized and drawn in the accent color.
func Generate(lines []string, analysis *audio.MusicAnalysis, pal palette.Palette) []Directive {
	beats := analysis.Beats
	if len(beats) == 0 {
		beats = []float64{0, analysis.Duration}
	}

	beatInterval := 60.0 / analysis.Tempo
	if len(beats) > 1 {
		beatInterval = beats[1] - beats[0]
	}

	counts := make(map[string]int, len(lines))
	for _, line := range lines {
		counts[line]++
	}

	directives := make([]Directive, 0, len(lines))
	cursor := 0.0
	for idx, line := range lines {
		words := strings.Fields(line)
		duration := beatInterval * float64(len(words)) * 0.6
		if min := beatInterval * 2; duration < min {
			duration = min
		}

		start := cursor
		if idx < len(beats) {
			start = beats[idx]
		}
		end := start + duration

		emphasis := counts[line] > 1
		anchor := AnchorCenter
		if idx%2 == 1 {
			anchor = AnchorBottom
		}

		directives = append(directives, Directive{
			Line: LyricLine{
				RawText:  line,
				Words:    words,
				Start:    start,
				End:      end,
				Emphasis: emphasis,
				Anchor:   anchor,
				Color:    pal.Pick(emphasis),
			},
			Style:     PickStyle(analysis.GenreHint, intensityAt(analysis.Energy, idx)),
			Intensity: intensityAt(analysis.Energy, idx),
		})
		cursor = end
	}
	return directives
}

// PickStyle looks up the animation style for a genre at an intensity.
func PickStyle(genre string, intensity float64) string {
	switch genre {
	case "electronic":
		if intensity > 0.6 {
			return "flash"
		}
		return "slide"
	case "pop":
		if intensity > 0.5 {
			return "rise"
		}
		return "fade"
	case "rnb":
		if intensity > 0.5 {
			return "drift"
		}
		return "soft-fade"
	default:
		return "slow-fade"
	}
}

// intensityAt loops the energy curve over line indices.
func intensityAt(energy []float64, idx int) float64 {
	if len(energy) == 0 {
		return 0.5
	}
	return energy[idx%len(energy)]
}
