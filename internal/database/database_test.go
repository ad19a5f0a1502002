package database

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricmotion/internal/models"
)

// openTestDB initializes a throwaway database with the real schema.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, ExecSchema("../../scripts/schema.sql"))
	t.Cleanup(func() { Close() })
	return DB
}

func sampleProject() *models.Project {
	return &models.Project{
		Title:           "شب و مهتاب",
		Body:            "سلام دنیا\nشب بخیر",
		Font:            "Vazir",
		FontSize:        96,
		TextColor:       "#ffffff",
		AnimationStyle:  "fade",
		TransitionStyle: "smooth",
		DurationSeconds: 180,
		Resolution:      "1080p",
		FPS:             30,
		OutputFormat:    "mp4",
		VideoVolume:     0.8,
	}
}

func TestProjectCRUD(t *testing.T) {
	repo := NewProjectRepository(openTestDB(t))

	p := sampleProject()
	require.NoError(t, repo.Create(p))
	require.NotZero(t, p.ID)

	loaded, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "شب و مهتاب", loaded.Title)
	assert.Equal(t, 96, loaded.FontSize)
	assert.Equal(t, 0.8, loaded.VideoVolume)
	assert.Empty(t, loaded.LyricsPath)

	loaded.Title = "renamed"
	loaded.MusicPath = "/music/song.mp3"
	require.NoError(t, repo.Update(loaded))

	updated, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "/music/song.mp3", updated.MusicPath)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(p.ID))
	gone, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestProjectGetByIDMissing(t *testing.T) {
	repo := NewProjectRepository(openTestDB(t))

	p, err := repo.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProjectGetAllOrder(t *testing.T) {
	repo := NewProjectRepository(openTestDB(t))

	first := sampleProject()
	first.Title = "first"
	require.NoError(t, repo.Create(first))

	second := sampleProject()
	second.Title = "second"
	require.NoError(t, repo.Create(second))

	// Touching the older project bumps it to the front.
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, repo.Update(first))

	projects, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "first", projects[0].Title)
}

func TestQueueLifecycle(t *testing.T) {
	db := openTestDB(t)
	projects := NewProjectRepository(db)
	queue := NewQueueRepository(db)

	p := sampleProject()
	require.NoError(t, projects.Create(p))

	item := &models.QueueItem{ProjectID: p.ID, Status: models.StatusQueued}
	require.NoError(t, queue.Create(item))
	require.NotZero(t, item.ID)

	next, err := queue.GetNextPending()
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, item.ID, next.ID)

	now := time.Now()
	next.Status = models.StatusProcessing
	next.CurrentStep = "Analyzing music"
	next.Progress = 10
	next.StartedAt = &now
	require.NoError(t, queue.Update(next))

	drained, err := queue.GetNextPending()
	require.NoError(t, err)
	assert.Nil(t, drained)

	loaded, err := queue.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, loaded.Status)
	assert.Equal(t, "Analyzing music", loaded.CurrentStep)
	require.NotNil(t, loaded.StartedAt)

	counts, err := queue.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.StatusProcessing])
}

func TestQueuePriorityOrder(t *testing.T) {
	db := openTestDB(t)
	projects := NewProjectRepository(db)
	queue := NewQueueRepository(db)

	p := sampleProject()
	require.NoError(t, projects.Create(p))

	low := &models.QueueItem{ProjectID: p.ID, Status: models.StatusQueued, Priority: 0}
	require.NoError(t, queue.Create(low))
	high := &models.QueueItem{ProjectID: p.ID, Status: models.StatusQueued, Priority: 5}
	require.NoError(t, queue.Create(high))

	next, err := queue.GetNextPending()
	require.NoError(t, err)
	assert.Equal(t, high.ID, next.ID)
}

func TestQueueDeleteCascadesFromProject(t *testing.T) {
	db := openTestDB(t)
	projects := NewProjectRepository(db)
	queue := NewQueueRepository(db)

	// Foreign keys are opt-in per connection in sqlite, so pin the pool
	// to one connection before enabling them.
	db.SetMaxOpenConns(1)
	_, err := db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	p := sampleProject()
	require.NoError(t, projects.Create(p))
	item := &models.QueueItem{ProjectID: p.ID, Status: models.StatusQueued}
	require.NoError(t, queue.Create(item))

	require.NoError(t, projects.Delete(p.ID))

	items, err := queue.GetAll()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSettingsDefaults(t *testing.T) {
	repo := NewSettingsRepository(openTestDB(t))

	settings, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "Vazir", settings.DefaultFont)
	assert.NotEmpty(t, settings.StoragePath)

	settings.DefaultFont = "Sahel"
	require.NoError(t, repo.Update(settings))

	reloaded, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, "Sahel", reloaded.DefaultFont)
}
