package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricmotion/internal/database"
	"lyricmotion/internal/models"
	"lyricmotion/internal/services"
)

func queueRouter(t *testing.T) (*gin.Engine, *services.ProgressBroadcaster) {
	setupDB(t)
	broadcaster := services.NewProgressBroadcaster()
	h := NewQueueHandler(
		database.NewQueueRepository(database.DB),
		database.NewProjectRepository(database.DB),
		broadcaster,
	)

	router := gin.New()
	router.GET("/queue", h.GetAll)
	router.GET("/queue/:id", h.GetByID)
	router.POST("/queue", h.Create)
	router.DELETE("/queue/:id", h.Delete)
	return router, broadcaster
}

// createRenderableProject inserts a project that has the source files a
// render needs.
func createRenderableProject(t *testing.T) int64 {
	t.Helper()

	dir := t.TempDir()
	lyrics := filepath.Join(dir, "lyrics.txt")
	require.NoError(t, os.WriteFile(lyrics, []byte("سلام\n"), 0644))
	music := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(music, []byte("stub"), 0644))

	p := &models.Project{Title: "renderable", LyricsPath: lyrics, MusicPath: music}
	require.NoError(t, database.NewProjectRepository(database.DB).Create(p))
	return p.ID
}

func TestQueueCreate(t *testing.T) {
	router, broadcaster := queueRouter(t)
	projectID := createRenderableProject(t)

	client := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(client)

	w := doJSON(router, http.MethodPost, "/queue", gin.H{"project_id": projectID})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.QueueItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, models.StatusQueued, item.Status)

	// Enqueueing announces itself to progress subscribers.
	update := <-client
	assert.Equal(t, item.ID, update.QueueID)
	assert.Equal(t, "Render queued", update.Message)
}

func TestQueueCreateRequiresSourceFiles(t *testing.T) {
	router, _ := queueRouter(t)

	p := &models.Project{Title: "bare"}
	require.NoError(t, database.NewProjectRepository(database.DB).Create(p))

	w := doJSON(router, http.MethodPost, "/queue", gin.H{"project_id": p.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "music and lyrics")
}

func TestQueueCreateMissingProject(t *testing.T) {
	router, _ := queueRouter(t)

	w := doJSON(router, http.MethodPost, "/queue", gin.H{"project_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueueCreateAllowsRepeatedEnqueue(t *testing.T) {
	router, _ := queueRouter(t)
	projectID := createRenderableProject(t)

	w := doJSON(router, http.MethodPost, "/queue", gin.H{"project_id": projectID})
	require.Equal(t, http.StatusCreated, w.Code)

	// A second enqueue for the same project waits its turn, not an error.
	w = doJSON(router, http.MethodPost, "/queue", gin.H{"project_id": projectID})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/queue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Queue []models.QueueItem `json:"queue"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Queue, 2)
}

func TestQueueDelete(t *testing.T) {
	router, _ := queueRouter(t)
	projectID := createRenderableProject(t)

	w := doJSON(router, http.MethodPost, "/queue", gin.H{"project_id": projectID})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.QueueItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = doJSON(router, http.MethodDelete, "/queue/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/queue/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
