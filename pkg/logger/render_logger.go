package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RenderLogger writes a verbose per-project log of a render run, kept
// separate from server logs so a failed job can be inspected after the
// fact.
type RenderLogger struct {
	projectID int64
	logPath   string
	file      *os.File
	mu        sync.Mutex
	startTime time.Time
}

// NewRenderLogger creates (and truncates) storage/logs/<project>/log.txt.
func NewRenderLogger(logsPath string, projectID int64) (*RenderLogger, error) {
	logDir := filepath.Join(logsPath, fmt.Sprintf("%d", projectID))
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "log.txt")
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	rl := &RenderLogger{
		projectID: projectID,
		logPath:   logPath,
		file:      file,
		startTime: time.Now(),
	}

	fmt.Fprintf(file, "LYRICMOTION RENDER LOG\nProject ID: %d\nStarted: %s\n\n",
		projectID, rl.startTime.Format("2006-01-02 15:04:05 MST"))
	file.Sync()
	return rl, nil
}

// Phase marks the start of a pipeline phase.
func (rl *RenderLogger) Phase(name string) {
	rl.write(fmt.Sprintf("========== PHASE: %s ==========", name))
}

// Info logs an informational message.
func (rl *RenderLogger) Info(format string, args ...interface{}) {
	rl.write("INFO: " + fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (rl *RenderLogger) Error(format string, args ...interface{}) {
	rl.write("ERROR: " + fmt.Sprintf(format, args...))
}

// Property logs a key-value property of the run.
func (rl *RenderLogger) Property(key string, value interface{}) {
	rl.write(fmt.Sprintf("PROPERTY: %s = %v", key, value))
}

// Close writes the footer and closes the file.
func (rl *RenderLogger) Close(success bool, finalMessage string) error {
	status := "COMPLETED"
	if !success {
		status = "FAILED"
	}
	rl.write(fmt.Sprintf("RENDER %s after %s: %s",
		status, time.Since(rl.startTime).Round(time.Millisecond), finalMessage))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.file.Close()
}

// LogPath returns the path to the log file.
func (rl *RenderLogger) LogPath() string {
	return rl.logPath
}

func (rl *RenderLogger) write(line string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	fmt.Fprintf(rl.file, "[%s] %s\n", elapsed, line)
	rl.file.Sync()
}
