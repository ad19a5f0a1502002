// Package palette derives a small color scheme from a reference video
// frame so overlaid lyrics pick up the footage's tone.
package palette

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

// Palette is the 3-color scheme used by the directive generator.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Fallback is used when no frame can be extracted.
var Fallback = Palette{Primary: "#d5c4a1", Secondary: "#83a598", Accent: "#fb4934"}

// Extractor extracts and caches palettes per video path. Safe for
// concurrent render jobs.
type Extractor struct {
	tempDir  string
	lookPath func(string) (string, error)

	mu    sync.Mutex
	cache map[string]Palette
}

// NewExtractor creates an extractor that writes temporary frames under
// tempDir.
func NewExtractor(tempDir string) *Extractor {
	return &Extractor{
		tempDir:  tempDir,
		lookPath: exec.LookPath,
		cache:    make(map[string]Palette),
	}
}

// Extract returns the palette for a video, hitting the cache first.
// Any failure degrades to the fixed fallback triple.
func (e *Extractor) Extract(ctx context.Context, videoPath string) Palette {
	e.mu.Lock()
	if p, ok := e.cache[videoPath]; ok {
		e.mu.Unlock()
		return p
	}
	e.mu.Unlock()

	p, err := e.extract(ctx, videoPath)
	if err != nil {
		log.Printf("Palette extraction failed for %s (%v), using fallback", videoPath, err)
		p = Fallback
	}

	e.mu.Lock()
	e.cache[videoPath] = p
	e.mu.Unlock()
	return p
}

func (e *Extractor) extract(ctx context.Context, videoPath string) (Palette, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return Palette{}, fmt.Errorf("video not accessible: %w", err)
	}
	if _, err := e.lookPath("ffmpeg"); err != nil {
		return Palette{}, fmt.Errorf("ffmpeg not available: %w", err)
	}

	if err := os.MkdirAll(e.tempDir, 0755); err != nil {
		return Palette{}, fmt.Errorf("failed to create temp directory: %w", err)
	}
	framePath := filepath.Join(e.tempDir, fmt.Sprintf("palette_%x.png", hashPath(videoPath)))
	defer os.Remove(framePath)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", "1",
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", "scale=8:8",
		"-y", framePath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return Palette{}, fmt.Errorf("frame extraction failed: %w, output: %s", err, string(output))
	}

	file, err := os.Open(framePath)
	if err != nil {
		return Palette{}, fmt.Errorf("failed to open extracted frame: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return Palette{}, fmt.Errorf("failed to decode frame: %w", err)
	}

	return FromImage(img), nil
}

// FromImage averages the pixels of a (small) image into the scheme:
// primary is the average, secondary a dimmed cool shift, accent the
// inverse.
func FromImage(img image.Image) Palette {
	bounds := img.Bounds()
	var rSum, gSum, bSum, count float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rSum += float64(r >> 8)
			gSum += float64(g >> 8)
			bSum += float64(b >> 8)
			count++
		}
	}
	if count == 0 {
		return Fallback
	}

	avgR, avgG, avgB := rSum/count, gSum/count, bSum/count
	return Palette{
		Primary:   rgbToHex(avgR, avgG, avgB),
		Secondary: rgbToHex(avgR*0.8, avgG*0.8, avgB*0.9),
		Accent:    rgbToHex(255-avgR, 255-avgG, 255-avgB),
	}
}

// Pick returns the line color: accent for emphasized lines, primary
// otherwise.
func (p Palette) Pick(emphasis bool) string {
	if emphasis {
		return p.Accent
	}
	return p.Primary
}

func rgbToHex(r, g, b float64) string {
	clamp := func(v float64) int {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return int(v)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

func hashPath(path string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(path); i++ {
		h ^= uint32(path[i])
		h *= 16777619
	}
	return h
}
