package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"lyricmotion/internal/models"
)

// ProgressUpdate represents a render progress event.
type ProgressUpdate struct {
	QueueID      int64     `json:"queue_id"`
	ProjectID    int64     `json:"project_id"`
	Status       string    `json:"status"`
	CurrentStep  string    `json:"current_step"`
	Progress     int       `json:"progress"`
	Message      string    `json:"message"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ProgressBroadcaster fans render progress out to SSE subscribers.
type ProgressBroadcaster struct {
	clients map[chan ProgressUpdate]bool
	mutex   sync.RWMutex
}

// NewProgressBroadcaster creates a new progress broadcaster
func NewProgressBroadcaster() *ProgressBroadcaster {
	return &ProgressBroadcaster{
		clients: make(map[chan ProgressUpdate]bool),
	}
}

// Subscribe adds a new client to receive progress updates
func (pb *ProgressBroadcaster) Subscribe() chan ProgressUpdate {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	client := make(chan ProgressUpdate, 10)
	pb.clients[client] = true
	log.Printf("Client subscribed to progress updates. Total clients: %d", len(pb.clients))
	return client
}

// Unsubscribe removes a client from receiving updates
func (pb *ProgressBroadcaster) Unsubscribe(client chan ProgressUpdate) {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	if _, ok := pb.clients[client]; ok {
		delete(pb.clients, client)
		close(client)
		log.Printf("Client unsubscribed from progress updates. Total clients: %d", len(pb.clients))
	}
}

// Broadcast sends a progress update to all connected clients. Clients
// with a full buffer are skipped rather than blocked on.
func (pb *ProgressBroadcaster) Broadcast(update ProgressUpdate) {
	pb.mutex.RLock()
	defer pb.mutex.RUnlock()

	update.Timestamp = time.Now()

	for client := range pb.clients {
		select {
		case client <- update:
		default:
			log.Printf("Warning: Client buffer full, skipping update for queue_id=%d", update.QueueID)
		}
	}
}

// BroadcastFromQueueItem converts a queue item to a progress update and
// broadcasts it.
func (pb *ProgressBroadcaster) BroadcastFromQueueItem(item *models.QueueItem, message string) {
	pb.Broadcast(ProgressUpdate{
		QueueID:      item.ID,
		ProjectID:    item.ProjectID,
		Status:       item.Status,
		CurrentStep:  item.CurrentStep,
		Progress:     item.Progress,
		Message:      message,
		ErrorMessage: item.ErrorMessage,
	})
}

// ClientCount returns the number of connected clients
func (pb *ProgressBroadcaster) ClientCount() int {
	pb.mutex.RLock()
	defer pb.mutex.RUnlock()
	return len(pb.clients)
}

// FormatSSE formats a progress update as a Server-Sent Event frame.
func FormatSSE(update ProgressUpdate) string {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling SSE data: %v", err)
		return ""
	}
	return "data: " + string(data) + "\n\n"
}
