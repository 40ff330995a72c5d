package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/trackcore-go/internal/models"
)

// TaskRepository handles database operations for task records
type TaskRepository struct {
	db DBTX
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a pending task and sets its ID.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (kind, target_id, status, error_message, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.Kind, task.TargetID, task.Status, task.ErrorMessage, task.Result, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = id
	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, kind, target_id, status, error_message, result, created_at, completed_at
		FROM tasks WHERE id = ?
	`, id).Scan(
		&task.ID, &task.Kind, &task.TargetID, &task.Status,
		&task.ErrorMessage, &task.Result, &task.CreatedAt, &task.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// MarkRunning moves a task to running.
func (r *TaskRepository) MarkRunning(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE tasks SET status = ? WHERE id = ?", models.TaskStatusRunning, id)
	if err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}
	return requireAffected(res, "task", id)
}

// MarkCompleted finishes a task with a short result summary.
func (r *TaskRepository) MarkCompleted(ctx context.Context, id int64, result string) error {
	return r.finish(ctx, id, models.TaskStatusCompleted, result, "")
}

// MarkFailed finishes a task with an error message.
func (r *TaskRepository) MarkFailed(ctx context.Context, id int64, message string) error {
	return r.finish(ctx, id, models.TaskStatusFailed, "", message)
}

func (r *TaskRepository) finish(ctx context.Context, id int64, status, result, message string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, result = ?, error_message = ?, completed_at = ? WHERE id = ?
	`, status, result, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish task: %w", err)
	}
	return requireAffected(res, "task", id)
}
