package video

import (
	"fmt"
	"os"
	"strings"

	"lyricmotion/pkg/directive"
)

// SubtitleOptions holds the look of the burned lyric overlay.
type SubtitleOptions struct {
	FontFamily string
	FontSize   int
	PlayResX   int
	PlayResY   int
}

// DefaultSubtitleOptions returns the overlay defaults.
func DefaultSubtitleOptions() *SubtitleOptions {
	return &SubtitleOptions{
		FontFamily: "Vazir",
		FontSize:   96,
		PlayResX:   1920,
		PlayResY:   1080,
	}
}

// WriteASS renders the directive timeline as an ASS subtitle file.
// Each animation style maps to ASS override tags; anchors map to the
// center (5) and bottom-center (2) alignments.
func WriteASS(path string, directives []directive.Directive, options *SubtitleOptions) error {
	if options == nil {
		options = DefaultSubtitleOptions()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `[Script Info]
Title: lyricmotion timeline
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
WrapStyle: 2

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Center,%s,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H64000000,0,0,0,0,100,100,0,0,1,3,0,5,60,60,40,1
Style: Bottom,%s,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H64000000,0,0,0,0,100,100,0,0,1,3,0,2,60,60,80,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`, options.PlayResX, options.PlayResY, options.FontFamily, options.FontSize, options.FontFamily, options.FontSize)

	for _, d := range directives {
		styleName := "Center"
		if d.Line.Anchor == directive.AnchorBottom {
			styleName = "Bottom"
		}
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s%s\n",
			assTime(d.Line.Start),
			assTime(d.Line.End),
			styleName,
			overrideTags(d, options),
			escapeASSText(d.Line.RawText),
		)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}

// overrideTags maps an animation style to its ASS tag prefix.
func overrideTags(d directive.Directive, options *SubtitleOptions) string {
	color := assColor(d.Line.Color)

	x := options.PlayResX / 2
	y := options.PlayResY / 2
	if d.Line.Anchor == directive.AnchorBottom {
		y = options.PlayResY - 120
	}

	switch d.Style {
	case "flash":
		return fmt.Sprintf("{\\fad(100,100)%s}", color)
	case "slide":
		return fmt.Sprintf("{\\move(%d,%d,%d,%d,0,400)\\fad(200,200)%s}", x-40, y, x, y, color)
	case "rise":
		return fmt.Sprintf("{\\move(%d,%d,%d,%d,0,400)\\fad(200,200)%s}", x, y+40, x, y, color)
	case "drift":
		durMS := int((d.Line.End - d.Line.Start) * 1000)
		return fmt.Sprintf("{\\move(%d,%d,%d,%d,0,%d)\\fad(300,300)%s}", x, y, x+30, y, durMS, color)
	case "soft-fade":
		return fmt.Sprintf("{\\fad(600,600)%s}", color)
	case "slow-fade":
		return fmt.Sprintf("{\\fad(800,800)%s}", color)
	default: // fade
		return fmt.Sprintf("{\\fad(400,400)%s}", color)
	}
}

// assTime formats seconds as H:MM:SS.CC centisecond timestamps.
func assTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int(seconds*100 + 0.5)
	h := cs / 360000
	m := (cs / 6000) % 60
	s := (cs / 100) % 60
	c := cs % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, c)
}

// assColor converts #rrggbb to the ASS &H00BBGGRR& primary color tag.
func assColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return ""
	}
	return fmt.Sprintf("\\c&H00%s%s%s&", strings.ToUpper(hex[4:6]), strings.ToUpper(hex[2:4]), strings.ToUpper(hex[0:2]))
}

func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "{", "(")
	text = strings.ReplaceAll(text, "}", ")")
	return strings.ReplaceAll(text, "\n", "\\N")
}
