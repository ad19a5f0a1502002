// Command autogen renders a Persian lyric video fully automatically
// from a lyrics file, a music track, and a background video. When
// FFmpeg is not installed it writes a JSON storyboard instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lyricmotion/pkg/pipeline"
)

func main() {
	lyricsPath := flag.String("lyrics", "", "Path to the lyrics text file")
	musicPath := flag.String("music", "", "Path to the music file (mp3/wav)")
	videoPath := flag.String("video", "", "Path to the background video file")
	outDir := flag.String("out", ".", "Output directory")
	format := flag.String("format", "mp4", "Output format (mp4 or gif)")
	flag.Parse()

	if *lyricsPath == "" || *musicPath == "" || *videoPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: autogen --lyrics FILE --music FILE --video FILE [--out DIR] [--format mp4|gif]")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	generator := pipeline.NewGenerator(*outDir, *outDir)
	generator.OnProgress(func(phase string, percent int) {
		log.Printf("[%3d%%] %s", percent, phase)
	})

	result, err := generator.Run(ctx, pipeline.Inputs{
		LyricsPath: *lyricsPath,
		MusicPath:  *musicPath,
		VideoPath:  *videoPath,
	}, pipeline.Options{Format: *format})
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	if result.Storyboard {
		fmt.Printf("Storyboard written to %s (install ffmpeg for a rendered video)\n", result.OutputPath)
	} else {
		fmt.Printf("Video created automatically at %s\n", result.OutputPath)
	}
}
