package models

import "time"

// Task records one unit of work (an import, a segment search or a correction
// run) and its outcome.
type Task struct {
	ID       int64  `json:"id" db:"id"`
	Kind     string `json:"kind" db:"kind"`
	TargetID int64  `json:"targetId,omitempty" db:"target_id"` // activity or route id

	Status       string `json:"status" db:"status"`
	ErrorMessage string `json:"errorMessage,omitempty" db:"error_message"`
	Result       string `json:"result,omitempty" db:"result"`

	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

// TaskKind constants
const (
	TaskKindImport           = "import"
	TaskKindSegmentSearch    = "segment_search"
	TaskKindGainLossRefilter = "gainloss_refilter"
	TaskKindAltitudeCorrect  = "altitude_correction"
)

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// IsTerminal reports whether the task finished, successfully or not.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}
