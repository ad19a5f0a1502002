package handlers

import (
	"fmt"
	"os"

	"lyricmotion/internal/models"
)

// validateProject enforces the same constraints the manual UI did:
// non-negative trim times with start before end, and volume within the
// unit range.
func validateProject(p *models.Project) error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if p.VideoStart < 0 || p.VideoEnd < 0 {
		return fmt.Errorf("start and end times must be non-negative")
	}
	if p.VideoEnd > 0 && p.VideoStart > p.VideoEnd {
		return fmt.Errorf("start time cannot exceed end time")
	}
	if p.VideoVolume < 0 || p.VideoVolume > 1 {
		return fmt.Errorf("volume must be between 0 and 1")
	}
	if p.VideoPath != "" {
		if _, err := os.Stat(p.VideoPath); err != nil {
			return fmt.Errorf("video file not found: %s", p.VideoPath)
		}
	}
	return nil
}
