package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lyricmotion/internal/services"
)

// ProgressHandler streams render progress over Server-Sent Events.
type ProgressHandler struct {
	broadcaster *services.ProgressBroadcaster
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(broadcaster *services.ProgressBroadcaster) *ProgressHandler {
	return &ProgressHandler{broadcaster: broadcaster}
}

// StreamProgress streams every progress update.
func (h *ProgressHandler) StreamProgress(c *gin.Context) {
	h.stream(c, 0)
}

// StreamQueueProgress streams progress for a single queue item.
func (h *ProgressHandler) StreamQueueProgress(c *gin.Context) {
	queueID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}
	h.stream(c, queueID)
}

// stream pumps SSE frames until the client goes away. queueID zero
// means no filtering.
func (h *ProgressHandler) stream(c *gin.Context, queueID int64) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(clientChan)

	clientGone := c.Request.Context().Done()

	c.Writer.Write([]byte("data: {\"message\":\"connected\",\"timestamp\":\"" + time.Now().Format(time.RFC3339) + "\"}\n\n"))
	c.Writer.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-clientGone:
			log.Println("Client disconnected from progress stream")
			return
		case update := <-clientChan:
			if queueID != 0 && update.QueueID != queueID {
				continue
			}
			data := services.FormatSSE(update)
			if data == "" {
				continue
			}
			if _, err := c.Writer.Write([]byte(data)); err != nil {
				if err != io.EOF {
					log.Printf("Error writing SSE data: %v", err)
				}
				return
			}
			c.Writer.Flush()
		case <-keepalive.C:
			c.Writer.Write([]byte(": keepalive\n\n"))
			c.Writer.Flush()
		}
	}
}

// GetStats returns broadcaster statistics
func (h *ProgressHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected_clients": h.broadcaster.ClientCount(),
		"timestamp":         time.Now(),
	})
}
