package database

import (
	"database/sql"

	"lyricmotion/internal/models"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, title, body, font, font_size, text_color,
	animation_style, transition_style, duration_seconds,
	COALESCE(lyrics_path, '') as lyrics_path,
	COALESCE(music_path, '') as music_path,
	COALESCE(video_path, '') as video_path,
	video_start, video_end, video_volume,
	resolution, fps, output_format,
	created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Body, &p.Font, &p.FontSize, &p.TextColor,
		&p.AnimationStyle, &p.TransitionStyle, &p.DurationSeconds,
		&p.LyricsPath, &p.MusicPath, &p.VideoPath,
		&p.VideoStart, &p.VideoEnd, &p.VideoVolume,
		&p.Resolution, &p.FPS, &p.OutputFormat,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns all projects, most recently updated first.
func (r *ProjectRepository) GetAll() ([]models.Project, error) {
	rows, err := r.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// GetByID returns a project by ID, nil when absent.
func (r *ProjectRepository) GetByID(id int64) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create creates a new project
func (r *ProjectRepository) Create(p *models.Project) error {
	query := `INSERT INTO projects (title, body, font, font_size, text_color,
		animation_style, transition_style, duration_seconds,
		lyrics_path, music_path, video_path,
		video_start, video_end, video_volume,
		resolution, fps, output_format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query,
		p.Title, p.Body, p.Font, p.FontSize, p.TextColor,
		p.AnimationStyle, p.TransitionStyle, p.DurationSeconds,
		p.LyricsPath, p.MusicPath, p.VideoPath,
		p.VideoStart, p.VideoEnd, p.VideoVolume,
		p.Resolution, p.FPS, p.OutputFormat,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Update updates an existing project
func (r *ProjectRepository) Update(p *models.Project) error {
	query := `UPDATE projects SET title=?, body=?, font=?, font_size=?, text_color=?,
		animation_style=?, transition_style=?, duration_seconds=?,
		lyrics_path=?, music_path=?, video_path=?,
		video_start=?, video_end=?, video_volume=?,
		resolution=?, fps=?, output_format=?,
		updated_at=CURRENT_TIMESTAMP
		WHERE id=?`

	_, err := r.db.Exec(query,
		p.Title, p.Body, p.Font, p.FontSize, p.TextColor,
		p.AnimationStyle, p.TransitionStyle, p.DurationSeconds,
		p.LyricsPath, p.MusicPath, p.VideoPath,
		p.VideoStart, p.VideoEnd, p.VideoVolume,
		p.Resolution, p.FPS, p.OutputFormat,
		p.ID,
	)
	return err
}

// Delete removes a project
func (r *ProjectRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM projects WHERE id=?", id)
	return err
}

// Count returns the number of projects.
func (r *ProjectRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}
