package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lyricmotion/config"
	"lyricmotion/internal/database"
)

// Upload kinds and their accepted extensions.
var uploadKinds = map[string][]string{
	"lyrics": {".txt", ".lrc"},
	"music":  {".mp3", ".wav", ".flac", ".m4a", ".ogg"},
	"video":  {".mp4", ".mov", ".avi", ".mkv", ".webm"},
}

// UploadHandler handles source file uploads for projects.
type UploadHandler struct {
	projectRepo *database.ProjectRepository
	config      *config.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(projectRepo *database.ProjectRepository, cfg *config.Config) *UploadHandler {
	return &UploadHandler{projectRepo: projectRepo, config: cfg}
}

// Upload stores a lyrics/music/video file for a project and records its
// path on the project row.
func (h *UploadHandler) Upload(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	kind := c.Param("kind")
	exts, ok := uploadKinds[kind]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown upload kind %q", kind)})
		return
	}

	project, err := h.projectRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !contains(exts, ext) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unsupported %s extension %q (accepted: %s)", kind, ext, strings.Join(exts, ", ")),
		})
		return
	}

	projectDir := filepath.Join(h.config.UploadsPath, fmt.Sprintf("project_%d", id))
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create upload directory: %v", err)})
		return
	}

	destPath := filepath.Join(projectDir, fmt.Sprintf("%s_%s%s", kind, uuid.New().String()[:8], ext))
	if err := c.SaveUploadedFile(file, destPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save file: %v", err)})
		return
	}

	switch kind {
	case "lyrics":
		project.LyricsPath = destPath
	case "music":
		project.MusicPath = destPath
	case "video":
		project.VideoPath = destPath
	}
	if err := h.projectRepo.Update(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded",
		"kind":    kind,
		"path":    destPath,
		"size":    file.Size,
	})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
