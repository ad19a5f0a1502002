package worker

import (
	"context"
	"fmt"
	"log"

	"lyricmotion/config"
	"lyricmotion/internal/models"
	"lyricmotion/internal/services"
	"lyricmotion/pkg/logger"
	"lyricmotion/pkg/pipeline"
)

// Processor runs the automatic generation pipeline for one queue item.
type Processor struct {
	projectRepo ProjectStore
	broadcaster *services.ProgressBroadcaster
	config      *config.Config
}

// ProjectStore is the slice of the project repository the processor
// needs; kept as an interface so processor tests don't need sqlite.
type ProjectStore interface {
	GetByID(id int64) (*models.Project, error)
}

// NewProcessor creates a new processor
func NewProcessor(projectRepo ProjectStore, broadcaster *services.ProgressBroadcaster, cfg *config.Config) *Processor {
	return &Processor{
		projectRepo: projectRepo,
		broadcaster: broadcaster,
		config:      cfg,
	}
}

// Process executes the pipeline for a project and records the produced
// artifact on the queue item.
func (p *Processor) Process(ctx context.Context, item *models.QueueItem, project *models.Project) error {
	log.Printf("Starting render pipeline for project: %s", project.Title)

	// Reload to pick up settings changed since the job was queued.
	fresh, err := p.projectRepo.GetByID(project.ID)
	if err != nil {
		return fmt.Errorf("failed to reload project: %w", err)
	}
	if fresh != nil {
		project = fresh
	}

	if project.MusicPath == "" {
		return fmt.Errorf("project has no music file")
	}
	if project.LyricsPath == "" {
		return fmt.Errorf("project has no lyrics file")
	}

	renderLog, err := logger.NewRenderLogger(p.config.LogsPath, project.ID)
	if err != nil {
		log.Printf("Warning: failed to create render logger: %v", err)
		renderLog = nil
	}
	if renderLog != nil {
		renderLog.Property("Title", project.Title)
		renderLog.Property("Resolution", project.Resolution)
		renderLog.Property("Format", project.OutputFormat)
		defer func() {
			if r := recover(); r != nil {
				renderLog.Error("Pipeline panicked: %v", r)
				renderLog.Close(false, fmt.Sprintf("Panic: %v", r))
				panic(r)
			}
		}()
	}

	res := p.config.ResolutionByLabel(project.Resolution)
	generator := pipeline.NewGenerator(p.config.OutputPath, p.config.TempPath)
	generator.OnProgress(func(phase string, percent int) {
		p.updateProgress(item, phase, scalePercent(percent))
		if renderLog != nil {
			renderLog.Phase(phase)
		}
	})

	result, err := generator.Run(ctx,
		pipeline.Inputs{
			LyricsPath: project.LyricsPath,
			MusicPath:  project.MusicPath,
			VideoPath:  project.VideoPath,
		},
		pipeline.Options{
			Width:     res.Width,
			Height:    res.Height,
			FPS:       project.FPS,
			Format:    project.OutputFormat,
			Font:      project.Font,
			FontSize:  project.FontSize,
			TrimStart: project.VideoStart,
			TrimEnd:   project.VideoEnd,
			Volume:    project.VideoVolume,
		},
	)
	if err != nil {
		if renderLog != nil {
			renderLog.Error("Pipeline failed: %v", err)
			renderLog.Close(false, err.Error())
		}
		return err
	}

	item.OutputPath = result.OutputPath
	item.IsStoryboard = result.Storyboard

	if renderLog != nil {
		renderLog.Property("Output", result.OutputPath)
		renderLog.Property("Storyboard", result.Storyboard)
		renderLog.Property("Lines", result.LineCount)
		renderLog.Close(true, "Pipeline completed")
	}
	return nil
}

// updateProgress broadcasts a progress update for the item.
func (p *Processor) updateProgress(item *models.QueueItem, step string, progress int) {
	item.CurrentStep = step
	item.Progress = progress
	p.broadcaster.BroadcastFromQueueItem(item, step)
}

// scalePercent maps pipeline-internal 0-100 into the 5-95 band so the
// worker owns the endpoints.
func scalePercent(percent int) int {
	scaled := 5 + percent*90/100
	if scaled > 95 {
		scaled = 95
	}
	return scaled
}
