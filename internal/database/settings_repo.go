package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"lyricmotion/internal/models"
)

// SettingsRepository handles the single-row application settings.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the application settings (always ID = 1), creating the
// defaults on first use.
func (r *SettingsRepository) Get() (*models.Settings, error) {
	query := `SELECT id, default_font, storage_path, created_at, updated_at FROM settings WHERE id = 1`

	var settings models.Settings
	err := r.db.QueryRow(query).Scan(
		&settings.ID,
		&settings.DefaultFont,
		&settings.StoragePath,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return r.createDefault()
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update updates the application settings
func (r *SettingsRepository) Update(settings *models.Settings) error {
	query := `UPDATE settings
		SET default_font = ?, storage_path = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`

	_, err := r.db.Exec(query, settings.DefaultFont, expandHome(settings.StoragePath))
	return err
}

func (r *SettingsRepository) createDefault() (*models.Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "/tmp"
	}
	defaultPath := filepath.Join(homeDir, "lyricmotion", "storage")

	query := `INSERT INTO settings (id, default_font, storage_path)
		VALUES (1, 'Vazir', ?)
		ON CONFLICT(id) DO UPDATE SET storage_path = excluded.storage_path`

	if _, err := r.db.Exec(query, defaultPath); err != nil {
		return nil, err
	}
	return r.Get()
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
