package video

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Renderer composes the final lyric video with FFmpeg.
type Renderer struct {
	Width     int
	Height    int
	FPS       int
	OutputDir string
	TempDir   string

	lookPath func(string) (string, error)
}

// RenderOptions contains all parameters for one render.
type RenderOptions struct {
	// Inputs
	VideoPath string
	MusicPath string

	// Background trim and mix
	TrimStart float64
	TrimEnd   float64
	Volume    float64

	// Overlay
	ASSPath string

	// Output
	Duration   float64
	Format     string // "mp4" or "gif"
	OutputPath string
}

// NewRenderer creates a renderer with 1080p30 defaults.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{
		Width:     1920,
		Height:    1080,
		FPS:       30,
		OutputDir: outputDir,
		TempDir:   filepath.Join(outputDir, "temp"),
		lookPath:  exec.LookPath,
	}
}

// Available reports whether FFmpeg can be invoked.
func (r *Renderer) Available() bool {
	_, err := r.lookPath("ffmpeg")
	return err == nil
}

// Render runs the single-pass composition: background video scaled and
// cropped to the target frame, ASS lyrics burned in, music mixed at the
// requested volume.
func (r *Renderer) Render(ctx context.Context, opts *RenderOptions) (string, error) {
	startTime := time.Now()
	defer func() {
		log.Printf("Video rendering took: %.1fs", time.Since(startTime).Seconds())
	}()

	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(r.TempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	args := r.BuildArgs(opts)
	log.Printf("Running: ffmpeg %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg render failed: %w, output: %s", err, tail(string(output), 2000))
	}

	return opts.OutputPath, nil
}

// BuildArgs assembles the ffmpeg argument list. Split out so tests can
// check the command without invoking ffmpeg.
func (r *Renderer) BuildArgs(opts *RenderOptions) []string {
	var args []string

	// Input 0: background video, trimmed at the demuxer when requested.
	if opts.TrimStart > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.2f", opts.TrimStart))
	}
	if opts.TrimEnd > opts.TrimStart {
		args = append(args, "-to", fmt.Sprintf("%.2f", opts.TrimEnd))
	}
	args = append(args, "-stream_loop", "-1", "-i", opts.VideoPath)

	// Input 1: music track.
	args = append(args, "-i", opts.MusicPath)

	videoChain := fmt.Sprintf(
		"[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,fps=%d",
		r.Width, r.Height, r.Width, r.Height, r.FPS,
	)
	if opts.ASSPath != "" {
		videoChain += fmt.Sprintf(",ass=%s", escapeFilterPath(opts.ASSPath))
	}
	videoChain += "[v]"

	// gif carries no audio; a labeled [a] output nothing consumes would
	// make ffmpeg reject the whole graph.
	filterGraph := videoChain
	if opts.Format != "gif" {
		volume := opts.Volume
		if volume <= 0 {
			volume = 1.0
		}
		filterGraph += fmt.Sprintf(";[1:a]volume=%.2f[a]", volume)
	}
	args = append(args, "-filter_complex", filterGraph)

	if opts.Format == "gif" {
		args = append(args, "-map", "[v]", "-f", "gif")
	} else {
		args = append(args,
			"-map", "[v]", "-map", "[a]",
			"-c:v", "libx264",
			"-preset", "medium",
			"-crf", "18",
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
			"-b:a", "192k",
		)
	}

	if opts.Duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.2f", opts.Duration))
	}
	args = append(args, "-shortest", "-y", opts.OutputPath)
	return args
}

// escapeFilterPath escapes a path for use inside a filter graph.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	return "'" + path + "'"
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
