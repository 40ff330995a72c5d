// Package service wires ingestion, matching, correction and export to the
// sqlite repositories.
package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/repository"
)

// TaskService records units of work and exposes them for polling.
type TaskService struct {
	repo *repository.TaskRepository
	log  *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(db *sql.DB, log *zap.Logger) *TaskService {
	return &TaskService{repo: repository.NewTaskRepository(db), log: log}
}

// Get retrieves a task by ID
func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// Run records fn as a task of the given kind. The task moves to running
// before fn is called and ends completed with fn's summary or failed with
// its error. The error of fn is returned unchanged.
func (s *TaskService) Run(ctx context.Context, kind string, targetID int64, fn func(ctx context.Context) (string, error)) (*models.Task, error) {
	task := &models.Task{Kind: kind, TargetID: targetID}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	log := s.log.With(zap.Int64("task", task.ID), zap.String("kind", kind), zap.Int64("target", targetID))

	if err := s.repo.MarkRunning(ctx, task.ID); err != nil {
		return task, err
	}
	task.Status = models.TaskStatusRunning
	log.Debug("task started")

	summary, err := fn(ctx)
	if err != nil {
		log.Warn("task failed", zap.Error(err))
		task.Status, task.ErrorMessage = models.TaskStatusFailed, err.Error()
		if markErr := s.repo.MarkFailed(context.WithoutCancel(ctx), task.ID, err.Error()); markErr != nil {
			log.Error("failed to record task failure", zap.Error(markErr))
		}
		return task, err
	}

	task.Status, task.Result = models.TaskStatusCompleted, summary
	if err := s.repo.MarkCompleted(ctx, task.ID, summary); err != nil {
		return task, fmt.Errorf("failed to record task result: %w", err)
	}
	log.Info("task completed", zap.String("result", summary))
	return task, nil
}
