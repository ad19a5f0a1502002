package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lyricmotion/internal/database"
	"lyricmotion/internal/models"
	"lyricmotion/internal/services"
)

// QueueHandler handles render queue requests
type QueueHandler struct {
	queueRepo   *database.QueueRepository
	projectRepo *database.ProjectRepository
	broadcaster *services.ProgressBroadcaster
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(
	queueRepo *database.QueueRepository,
	projectRepo *database.ProjectRepository,
	broadcaster *services.ProgressBroadcaster,
) *QueueHandler {
	return &QueueHandler{
		queueRepo:   queueRepo,
		projectRepo: projectRepo,
		broadcaster: broadcaster,
	}
}

// GetAll returns all queue items
func (h *QueueHandler) GetAll(c *gin.Context) {
	items, err := h.queueRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": items})
}

// GetByID returns a queue item by ID
func (h *QueueHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	item, err := h.queueRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Queue item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create enqueues a render for a project. A render already in flight is
// not an error; the new job simply waits its turn.
func (h *QueueHandler) Create(c *gin.Context) {
	var req struct {
		ProjectID int64 `json:"project_id" binding:"required"`
		Priority  int   `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectRepo.GetByID(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if project.MusicPath == "" || project.LyricsPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project needs music and lyrics files before rendering"})
		return
	}

	item := models.QueueItem{
		ProjectID: req.ProjectID,
		Status:    models.StatusQueued,
		Priority:  req.Priority,
	}
	if err := h.queueRepo.Create(&item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.broadcaster.BroadcastFromQueueItem(&item, "Render queued")
	c.JSON(http.StatusCreated, item)
}

// Delete removes a queue item
func (h *QueueHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	if err := h.queueRepo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Queue item deleted"})
}
