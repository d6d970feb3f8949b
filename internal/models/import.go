package models

import "time"

// ImportStats summarises a catalog import
type ImportStats struct {
	BasicsRead   int64         `json:"basics_read"`
	RatingsRead  int64         `json:"ratings_read"`
	FilmsWritten int64         `json:"films_written"`
	Skipped      int64         `json:"skipped"`
	DataVersion  time.Time     `json:"data_version"`
	Duration     time.Duration `json:"duration"`
}

// ImportRun is one recorded catalog import
type ImportRun struct {
	ID          int64  `json:"id" db:"id"`
	Status      string `json:"status" db:"status"` // running, completed, failed
	DataVersion string `json:"data_version" db:"data_version"`

	BasicsRead   int64 `json:"basics_read" db:"basics_read"`
	RatingsRead  int64 `json:"ratings_read" db:"ratings_read"`
	FilmsWritten int64 `json:"films_written" db:"films_written"`
	Skipped      int64 `json:"skipped" db:"skipped"`

	StartTime    int64  `json:"start_time" db:"start_time"`       // Unix timestamp
	EndTime      int64  `json:"end_time,omitempty" db:"end_time"` // Unix timestamp
	ErrorMessage string `json:"error_message,omitempty" db:"error_message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ImportStatus constants
const (
	ImportStatusRunning   = "running"
	ImportStatusCompleted = "completed"
	ImportStatusFailed    = "failed"
)
