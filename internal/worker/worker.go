package worker

import (
	"context"
	"log"
	"time"

	"lyricmotion/config"
	"lyricmotion/internal/database"
	"lyricmotion/internal/models"
	"lyricmotion/internal/services"
)

// Worker polls the render queue and processes jobs one at a time.
type Worker struct {
	queueRepo    *database.QueueRepository
	projectRepo  *database.ProjectRepository
	broadcaster  *services.ProgressBroadcaster
	processor    *Processor
	pollInterval time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewWorker creates a new render queue worker
func NewWorker(
	queueRepo *database.QueueRepository,
	projectRepo *database.ProjectRepository,
	broadcaster *services.ProgressBroadcaster,
	cfg *config.Config,
	pollInterval time.Duration,
) *Worker {
	processor := NewProcessor(projectRepo, broadcaster, cfg)
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		queueRepo:    queueRepo,
		projectRepo:  projectRepo,
		broadcaster:  broadcaster,
		processor:    processor,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins processing queue items. Blocks until Stop is called.
func (w *Worker) Start() {
	log.Println("Render queue worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.processNext()

	for {
		select {
		case <-w.ctx.Done():
			log.Println("Render queue worker stopped")
			return
		case <-ticker.C:
			w.processNext()
		}
	}
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	log.Println("Stopping render queue worker...")
	w.cancel()
}

// processNext processes the next pending queue item
func (w *Worker) processNext() {
	item, err := w.queueRepo.GetNextPending()
	if err != nil {
		log.Printf("Error getting next pending item: %v", err)
		return
	}
	if item == nil {
		return
	}

	log.Printf("Processing queue item %d (project %d)", item.ID, item.ProjectID)

	project, err := w.projectRepo.GetByID(item.ProjectID)
	if err != nil {
		log.Printf("Error getting project %d: %v", item.ProjectID, err)
		w.failQueueItem(item, "Failed to load project data")
		return
	}
	if project == nil {
		log.Printf("Project %d not found", item.ProjectID)
		w.failQueueItem(item, "Project not found")
		return
	}

	now := time.Now()
	item.Status = models.StatusProcessing
	item.StartedAt = &now
	item.Progress = 0
	item.CurrentStep = "Starting"
	if err := w.queueRepo.Update(item); err != nil {
		log.Printf("Error updating queue item: %v", err)
		return
	}
	w.broadcaster.BroadcastFromQueueItem(item, "Render started")

	if err := w.processor.Process(w.ctx, item, project); err != nil {
		log.Printf("Error processing queue item %d: %v", item.ID, err)
		w.failQueueItem(item, err.Error())
		return
	}

	completed := time.Now()
	item.Status = models.StatusCompleted
	item.CompletedAt = &completed
	item.Progress = 100
	item.CurrentStep = "Completed"
	if err := w.queueRepo.Update(item); err != nil {
		log.Printf("Error updating completed queue item: %v", err)
		return
	}

	w.broadcaster.BroadcastFromQueueItem(item, "Render completed successfully")
	log.Printf("Queue item %d completed successfully", item.ID)
}

// failQueueItem marks a queue item as failed
func (w *Worker) failQueueItem(item *models.QueueItem, errorMsg string) {
	item.Status = models.StatusFailed
	item.ErrorMessage = errorMsg
	completed := time.Now()
	item.CompletedAt = &completed

	if err := w.queueRepo.Update(item); err != nil {
		log.Printf("Error updating failed queue item: %v", err)
		return
	}

	w.broadcaster.BroadcastFromQueueItem(item, "Render failed")
	log.Printf("Queue item %d failed: %s", item.ID, errorMsg)
}
