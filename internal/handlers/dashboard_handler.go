package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"lyricmotion/config"
	"lyricmotion/internal/database"
	"lyricmotion/pkg/storyboard"
)

// DashboardHandler serves summary data and render artifacts.
type DashboardHandler struct {
	projectRepo *database.ProjectRepository
	queueRepo   *database.QueueRepository
	config      *config.Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	projectRepo *database.ProjectRepository,
	queueRepo *database.QueueRepository,
	cfg *config.Config,
) *DashboardHandler {
	return &DashboardHandler{
		projectRepo: projectRepo,
		queueRepo:   queueRepo,
		config:      cfg,
	}
}

// Summary returns project and queue counts for the dashboard header.
func (h *DashboardHandler) Summary(c *gin.Context) {
	projectCount, err := h.projectRepo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	queueCounts, err := h.queueRepo.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projectCount,
		"queue":    queueCounts,
	})
}

// GetRenderLog returns the render log for a project.
func (h *DashboardHandler) GetRenderLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	logPath := filepath.Join(h.config.LogsPath, fmt.Sprintf("%d", id), "log.txt")
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No render log found for this project"})
		return
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read log: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": id,
		"log":        string(content),
	})
}

// Download streams a finished render artifact (video or storyboard).
func (h *DashboardHandler) Download(c *gin.Context) {
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
	if item == nil || item.OutputPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No output for this queue item"})
		return
	}
	if _, err := os.Stat(item.OutputPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Output file missing on disk"})
		return
	}

	c.FileAttachment(item.OutputPath, filepath.Base(item.OutputPath))
}

// GetStoryboard returns the parsed storyboard document for a queue item
// whose render degraded to the JSON fallback, so the dashboard can
// preview the timeline inline.
func (h *DashboardHandler) GetStoryboard(c *gin.Context) {
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
	if item == nil || !item.IsStoryboard || item.OutputPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No storyboard for this queue item"})
		return
	}

	board, err := storyboard.Load(item.OutputPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to load storyboard: %v", err)})
		return
	}

	c.JSON(http.StatusOK, board)
}
