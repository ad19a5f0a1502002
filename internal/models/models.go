package models

import "time"

// Project holds everything the dashboard configures for one lyric
// video: text, look, background video treatment, and export settings.
type Project struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Text styling
	Font      string `json:"font" db:"font"`
	FontSize  int    `json:"font_size" db:"font_size"`
	TextColor string `json:"text_color" db:"text_color"`

	// Animation
	AnimationStyle  string  `json:"animation_style" db:"animation_style"`
	TransitionStyle string  `json:"transition_style" db:"transition_style"`
	DurationSeconds float64 `json:"duration_seconds" db:"duration_seconds"`

	// Source files
	LyricsPath string `json:"lyrics_path" db:"lyrics_path"`
	MusicPath  string `json:"music_path" db:"music_path"`
	VideoPath  string `json:"video_path" db:"video_path"`

	// Background video treatment
	VideoStart  float64 `json:"video_start" db:"video_start"`
	VideoEnd    float64 `json:"video_end" db:"video_end"`
	VideoVolume float64 `json:"video_volume" db:"video_volume"`

	// Export settings
	Resolution   string `json:"resolution" db:"resolution"`
	FPS          int    `json:"fps" db:"fps"`
	OutputFormat string `json:"output_format" db:"output_format"`
}

// QueueItem represents a render job in the processing queue.
type QueueItem struct {
	ID        int64  `json:"id" db:"id"`
	ProjectID int64  `json:"project_id" db:"project_id"`
	Status    string `json:"status" db:"status"`
	Priority  int    `json:"priority" db:"priority"`

	CurrentStep  string `json:"current_step" db:"current_step"`
	Progress     int    `json:"progress" db:"progress"`
	ErrorMessage string `json:"error_message" db:"error_message"`

	OutputPath   string `json:"output_path" db:"output_path"`
	IsStoryboard bool   `json:"is_storyboard" db:"is_storyboard"`

	QueuedAt    time.Time  `json:"queued_at" db:"queued_at"`
	StartedAt   *time.Time `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
}

// Settings are the single-row application settings.
type Settings struct {
	ID          int64     `json:"id" db:"id"`
	DefaultFont string    `json:"default_font" db:"default_font"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Queue status constants
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
