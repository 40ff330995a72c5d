package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/database"
	"github.com/jengzang/trackcore-go/internal/ingest"
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/repository"
	"github.com/jengzang/trackcore-go/internal/stats"
)

// ImportService turns GPX and FIT recordings into stored activities.
type ImportService struct {
	db       *sql.DB
	segments *SegmentService
	tasks    *TaskService
	log      *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(db *sql.DB, segments *SegmentService, tasks *TaskService, log *zap.Logger) *ImportService {
	return &ImportService{db: db, segments: segments, tasks: tasks, log: log}
}

// Import decodes a recording, stores it as an activity with its points and
// searches every stored route in it. The activity is returned even when the
// segment search fails; that failure is only logged.
func (s *ImportService) Import(ctx context.Context, filename string, r io.Reader) (*models.Activity, error) {
	var activity *models.Activity
	_, err := s.tasks.Run(ctx, models.TaskKindImport, 0, func(ctx context.Context) (string, error) {
		res, err := ingest.Parse(r, filename)
		if err != nil {
			return "", err
		}

		activity = newActivity(filename, res)
		err = database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
			if err := repository.NewActivityRepository(tx).Create(ctx, activity); err != nil {
				return err
			}
			return repository.NewTrackRepository(tx).InsertBatch(ctx, activity.ID, res.Points)
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("activity %d: %s, %d points", activity.ID, res.Format, len(res.Points)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", filepath.Base(filename), err)
	}

	s.log.Info("activity imported",
		zap.Int64("activity", activity.ID),
		zap.String("name", activity.Name),
		zap.String("category", string(activity.Category)),
		zap.Float64("distance", activity.Stats.Distance))

	if _, err := s.segments.SearchActivity(ctx, activity.ID); err != nil {
		s.log.Warn("segment search after import failed", zap.Int64("activity", activity.ID), zap.Error(err))
	}
	return activity, nil
}

// ImportFile imports the recording at path.
func (s *ImportService) ImportFile(ctx context.Context, path string) (*models.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, path, f)
}

func newActivity(filename string, res *ingest.Result) *models.Activity {
	meta := res.Metadata
	name := meta.Name
	if name == "" {
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	category := meta.Category
	if category == "" {
		category = models.CategoryUnknown
	}

	return &models.Activity{
		UUID:         uuid.NewString(),
		Name:         name,
		Description:  meta.Description,
		Category:     category,
		RecordedWith: meta.RecordedWith,
		Source:       meta.Source,
		Stats:        stats.Compute(res.Points),
	}
}
