package database

import (
	"database/sql"

	"lyricmotion/internal/models"
)

// QueueRepository handles render queue database operations
type QueueRepository struct {
	db *sql.DB
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db *sql.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

const queueColumns = `id, project_id, status, priority,
	COALESCE(current_step, '') as current_step,
	COALESCE(progress, 0) as progress,
	COALESCE(error_message, '') as error_message,
	COALESCE(output_path, '') as output_path,
	COALESCE(is_storyboard, 0) as is_storyboard,
	queued_at, started_at, completed_at`

func scanQueueItem(row interface{ Scan(...interface{}) error }) (*models.QueueItem, error) {
	var item models.QueueItem
	err := row.Scan(
		&item.ID, &item.ProjectID, &item.Status, &item.Priority,
		&item.CurrentStep, &item.Progress, &item.ErrorMessage,
		&item.OutputPath, &item.IsStoryboard,
		&item.QueuedAt, &item.StartedAt, &item.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetAll returns all queue items, highest priority first.
func (r *QueueRepository) GetAll() ([]models.QueueItem, error) {
	rows, err := r.db.Query(`SELECT ` + queueColumns + ` FROM queue ORDER BY priority DESC, queued_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetByID returns a queue item by ID, nil when absent.
func (r *QueueRepository) GetByID(id int64) (*models.QueueItem, error) {
	item, err := scanQueueItem(r.db.QueryRow(`SELECT `+queueColumns+` FROM queue WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create creates a new queue item
func (r *QueueRepository) Create(item *models.QueueItem) error {
	result, err := r.db.Exec(
		`INSERT INTO queue (project_id, status, priority) VALUES (?, ?, ?)`,
		item.ProjectID, item.Status, item.Priority,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

// Update updates an existing queue item
func (r *QueueRepository) Update(item *models.QueueItem) error {
	query := `UPDATE queue SET status=?, priority=?,
		current_step=?, progress=?, error_message=?,
		output_path=?, is_storyboard=?,
		started_at=?, completed_at=?
		WHERE id=?`

	_, err := r.db.Exec(query,
		item.Status, item.Priority,
		item.CurrentStep, item.Progress, item.ErrorMessage,
		item.OutputPath, item.IsStoryboard,
		item.StartedAt, item.CompletedAt,
		item.ID,
	)
	return err
}

// Delete removes a queue item
func (r *QueueRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM queue WHERE id=?", id)
	return err
}

// GetNextPending returns the next queued item, nil when the queue is
// drained.
func (r *QueueRepository) GetNextPending() (*models.QueueItem, error) {
	item, err := scanQueueItem(r.db.QueryRow(
		`SELECT `+queueColumns+` FROM queue
		WHERE status = ?
		ORDER BY priority DESC, queued_at ASC
		LIMIT 1`, models.StatusQueued))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CountByStatus returns queue item counts keyed by status.
func (r *QueueRepository) CountByStatus() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM queue GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
