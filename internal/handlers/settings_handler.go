package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lyricmotion/config"
	"lyricmotion/internal/database"
	"lyricmotion/internal/models"
	"lyricmotion/pkg/persian"
)

// SettingsHandler serves the configurable choice lists and the stored
// application settings.
type SettingsHandler struct {
	repo   *database.SettingsRepository
	config *config.Config
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(repo *database.SettingsRepository, cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{repo: repo, config: cfg}
}

// GetOptions returns the choice lists offered by the dashboard widgets.
func (h *SettingsHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fonts":             h.config.Fonts,
		"resolutions":       h.config.Resolutions,
		"fps_options":       h.config.FPSOptions,
		"output_formats":    h.config.OutputFormats,
		"transition_styles": h.config.TransitionStyles,
		"animation_styles":  h.config.AnimationStyles,
		"sample_text":       h.config.SampleText,
	})
}

// Get returns the stored settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.repo.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update updates the stored settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.Update(&settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

// PreviewText shapes raw Persian text into its display lines, backing
// the live text preview pane.
func (h *SettingsHandler) PreviewText(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := persian.FormatLyrics(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}
