// Package storyboard serializes a generated timeline to JSON, the
// degraded output when no renderer is available and the preview payload
// for the dashboard.
package storyboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"lyricmotion/pkg/audio"
	"lyricmotion/pkg/directive"
)

// Entry is one timed line of the storyboard timeline.
type Entry struct {
	Text   string  `json:"text"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Style  string  `json:"style"`
	Color  string  `json:"color"`
	Anchor string  `json:"anchor"`
}

// Storyboard is the full document: the analysis that produced the
// timeline plus the timeline itself.
type Storyboard struct {
	Analysis *audio.MusicAnalysis `json:"analysis"`
	Timeline []Entry              `json:"timeline"`
}

// Build assembles a storyboard from directives.
func Build(directives []directive.Directive, analysis *audio.MusicAnalysis) *Storyboard {
	timeline := make([]Entry, 0, len(directives))
	for _, d := range directives {
		timeline = append(timeline, Entry{
			Text:   d.Line.RawText,
			Start:  d.Line.Start,
			End:    d.Line.End,
			Style:  d.Style,
			Color:  d.Line.Color,
			Anchor: d.Line.Anchor,
		})
	}
	return &Storyboard{Analysis: analysis, Timeline: timeline}
}

// Marshal renders indented JSON with Persian text kept verbatim rather
// than ASCII-escaped.
func (s *Storyboard) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to marshal storyboard: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the storyboard JSON to path.
func (s *Storyboard) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write storyboard: %w", err)
	}
	return nil
}

// Load reads a storyboard JSON file back.
func Load(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read storyboard: %w", err)
	}
	var s Storyboard
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse storyboard: %w", err)
	}
	return &s, nil
}
