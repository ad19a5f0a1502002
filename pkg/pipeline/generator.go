// Package pipeline wires music analysis, lyric formatting, directive
// generation, and rendering into the fully automatic generator. When
// FFmpeg is not available the pipeline degrades to writing a JSON
// storyboard instead of a video.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"lyricmotion/pkg/audio"
	"lyricmotion/pkg/directive"
	"lyricmotion/pkg/palette"
	"lyricmotion/pkg/persian"
	"lyricmotion/pkg/storyboard"
	"lyricmotion/pkg/video"
)

// Phase names reported through the progress callback.
const (
	PhaseAnalyze    = "Analyzing music"
	PhaseFormat     = "Formatting lyrics"
	PhaseDirectives = "Generating animations"
	PhaseRender     = "Rendering video"
)

// ProgressFunc receives phase transitions and a 0-100 percentage.
type ProgressFunc func(phase string, percent int)

// Inputs are the three source files of a run.
type Inputs struct {
	LyricsPath string
	MusicPath  string
	VideoPath  string
}

// Options tune the output of a run. Zero values mean the renderer
// defaults (1080p30 mp4, full-length background, unit volume).
type Options struct {
	Width     int
	Height    int
	FPS       int
	Format    string
	Font      string
	FontSize  int
	TrimStart float64
	TrimEnd   float64
	Volume    float64
}

// Result describes what a run produced.
type Result struct {
	OutputPath string               `json:"output_path"`
	Storyboard bool                 `json:"storyboard"`
	Analysis   *audio.MusicAnalysis `json:"analysis"`
	LineCount  int                  `json:"line_count"`
}

// Generator is the automatic lyric video generator.
type Generator struct {
	analyzer  *audio.Analyzer
	palettes  *palette.Extractor
	renderer  *video.Renderer
	outputDir string
	progress  ProgressFunc
}

// NewGenerator creates a generator writing artifacts under outputDir.
func NewGenerator(outputDir, tempDir string) *Generator {
	return &Generator{
		analyzer:  audio.NewAnalyzer(),
		palettes:  palette.NewExtractor(tempDir),
		renderer:  video.NewRenderer(outputDir),
		outputDir: outputDir,
	}
}

// OnProgress installs a progress callback.
func (g *Generator) OnProgress(fn ProgressFunc) {
	g.progress = fn
}

// Run executes the full pipeline and returns the produced artifact.
func (g *Generator) Run(ctx context.Context, in Inputs, opts Options) (*Result, error) {
	g.report(PhaseAnalyze, 0)

	// Music analysis and palette extraction are independent; run both
	// while we have the chance.
	var analysis *audio.MusicAnalysis
	var pal palette.Palette

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		analysis, err = g.analyzer.Analyze(egCtx, in.MusicPath)
		return err
	})
	eg.Go(func() error {
		pal = g.palettes.Extract(egCtx, in.VideoPath)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("music analysis failed: %w", err)
	}
	log.Printf("Music analysis: %s", analysis.Summary())

	g.report(PhaseFormat, 30)
	lines, err := persian.FormatLyricsFile(in.LyricsPath)
	if err != nil {
		return nil, fmt.Errorf("lyrics formatting failed: %w", err)
	}
	log.Printf("Formatted %d display lines", len(lines))

	g.report(PhaseDirectives, 45)
	directives := directive.Generate(lines, analysis, pal)

	g.report(PhaseRender, 55)
	result := &Result{Analysis: analysis, LineCount: len(lines)}

	if !g.renderer.Available() {
		log.Println("FFmpeg unavailable, writing storyboard instead of rendering")
		outPath := filepath.Join(g.outputDir, "auto_generated_storyboard.json")
		board := storyboard.Build(directives, analysis)
		if err := board.WriteFile(outPath); err != nil {
			return nil, err
		}
		result.OutputPath = outPath
		result.Storyboard = true
		g.report(PhaseRender, 100)
		return result, nil
	}

	g.applyOptions(opts)

	assPath := filepath.Join(g.renderer.TempDir, "timeline.ass")
	subOpts := video.DefaultSubtitleOptions()
	subOpts.PlayResX = g.renderer.Width
	subOpts.PlayResY = g.renderer.Height
	if opts.Font != "" {
		subOpts.FontFamily = opts.Font
	}
	if opts.FontSize > 0 {
		subOpts.FontSize = opts.FontSize
	}
	if err := video.WriteASS(assPath, directives, subOpts); err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = "mp4"
	}
	outPath := filepath.Join(g.outputDir, "auto_generated_video."+format)
	rendered, err := g.renderer.Render(ctx, &video.RenderOptions{
		VideoPath:  in.VideoPath,
		MusicPath:  in.MusicPath,
		TrimStart:  opts.TrimStart,
		TrimEnd:    opts.TrimEnd,
		Volume:     opts.Volume,
		ASSPath:    assPath,
		Duration:   analysis.Duration,
		Format:     format,
		OutputPath: outPath,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering failed: %w", err)
	}

	result.OutputPath = rendered
	g.report(PhaseRender, 100)
	return result, nil
}

func (g *Generator) applyOptions(opts Options) {
	if opts.Width > 0 && opts.Height > 0 {
		g.renderer.Width = opts.Width
		g.renderer.Height = opts.Height
	}
	if opts.FPS > 0 {
		g.renderer.FPS = opts.FPS
	}
}

func (g *Generator) report(phase string, percent int) {
	if g.progress != nil {
		g.progress(phase, percent)
	}
}
