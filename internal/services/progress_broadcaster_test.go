package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricmotion/internal/models"
)

func TestSubscribeAndBroadcast(t *testing.T) {
	pb := NewProgressBroadcaster()
	client := pb.Subscribe()
	defer pb.Unsubscribe(client)

	assert.Equal(t, 1, pb.ClientCount())

	pb.Broadcast(ProgressUpdate{QueueID: 7, Status: models.StatusProcessing, Progress: 42})

	select {
	case update := <-client:
		assert.Equal(t, int64(7), update.QueueID)
		assert.Equal(t, 42, update.Progress)
		assert.False(t, update.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	pb := NewProgressBroadcaster()
	client := pb.Subscribe()
	pb.Unsubscribe(client)

	assert.Equal(t, 0, pb.ClientCount())
	_, open := <-client
	assert.False(t, open)

	// Double unsubscribe is a no-op, not a double close.
	pb.Unsubscribe(client)
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	pb := NewProgressBroadcaster()
	client := pb.Subscribe()
	defer pb.Unsubscribe(client)

	// Fill the buffer and then some; Broadcast must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			pb.Broadcast(ProgressUpdate{QueueID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full client")
	}
}

func TestBroadcastFromQueueItem(t *testing.T) {
	pb := NewProgressBroadcaster()
	client := pb.Subscribe()
	defer pb.Unsubscribe(client)

	item := &models.QueueItem{
		ID:          3,
		ProjectID:   11,
		Status:      models.StatusProcessing,
		CurrentStep: "Rendering video",
		Progress:    60,
	}
	pb.BroadcastFromQueueItem(item, "halfway there")

	update := <-client
	assert.Equal(t, int64(3), update.QueueID)
	assert.Equal(t, int64(11), update.ProjectID)
	assert.Equal(t, "Rendering video", update.CurrentStep)
	assert.Equal(t, "halfway there", update.Message)
}

func TestFormatSSE(t *testing.T) {
	frame := FormatSSE(ProgressUpdate{QueueID: 5, Status: models.StatusQueued})

	require.True(t, strings.HasPrefix(frame, "data: "))
	require.True(t, strings.HasSuffix(frame, "\n\n"))
	assert.Contains(t, frame, `"queue_id":5`)
	assert.Contains(t, frame, `"status":"queued"`)
}
