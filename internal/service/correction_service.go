package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/correction"
	"github.com/jengzang/trackcore-go/internal/database"
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/repository"
)

// ErrNoElevationService is returned by CorrectAltitude when no elevation
// service is configured.
var ErrNoElevationService = errors.New("no elevation service configured")

// CorrectionService runs the elevation correction tasks on stored
// activities.
type CorrectionService struct {
	db         *sql.DB
	activities *repository.ActivityRepository
	tracks     *repository.TrackRepository
	lookup     correction.ElevationLookup
	tasks      *TaskService
	log        *zap.Logger
}

// NewCorrectionService creates a new correction service. lookup may be nil,
// in which case altitude correction is unavailable.
func NewCorrectionService(db *sql.DB, lookup correction.ElevationLookup, tasks *TaskService, log *zap.Logger) *CorrectionService {
	return &CorrectionService{
		db:         db,
		activities: repository.NewActivityRepository(db),
		tracks:     repository.NewTrackRepository(db),
		lookup:     lookup,
		tasks:      tasks,
		log:        log,
	}
}

// RefilterGainLoss recomputes the elevation totals of an activity from its
// stored per-point deltas. Points are left untouched.
func (s *CorrectionService) RefilterGainLoss(ctx context.Context, id int64) (*models.Activity, error) {
	activity, points, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.tasks.Run(ctx, models.TaskKindGainLossRefilter, id, func(ctx context.Context) (string, error) {
		res := correction.RefilterGainLoss(points)
		activity.Stats.ElevationGain = models.Float(res.Gain)
		activity.Stats.ElevationLoss = models.Float(res.Loss)
		if err := s.activities.UpdateStats(ctx, id, activity.Stats); err != nil {
			return "", err
		}
		return fmt.Sprintf("gain %.1f m, loss %.1f m", res.Gain, res.Loss), nil
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// CorrectAltitude replaces the recorded altitudes of an activity with the
// ones of the elevation service and recomputes its elevation statistics.
// Points and statistics are written in one transaction, after every
// elevation has been fetched.
func (s *CorrectionService) CorrectAltitude(ctx context.Context, id int64) (*models.Activity, error) {
	if s.lookup == nil {
		return nil, ErrNoElevationService
	}
	activity, points, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.tasks.Run(ctx, models.TaskKindAltitudeCorrect, id, func(ctx context.Context) (string, error) {
		res, err := correction.CorrectAltitude(ctx, points, s.lookup)
		if err != nil {
			return "", err
		}

		activity.Stats.ElevationGain = models.Float(res.Gain)
		activity.Stats.ElevationLoss = models.Float(res.Loss)
		activity.Stats.MinAltitude = res.MinAltitude
		activity.Stats.MaxAltitude = res.MaxAltitude

		err = database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
			if err := repository.NewTrackRepository(tx).UpdateElevation(ctx, res.Points); err != nil {
				return err
			}
			return repository.NewActivityRepository(tx).UpdateStats(ctx, id, activity.Stats)
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d points, gain %.1f m, loss %.1f m", len(res.Points), res.Gain, res.Loss), nil
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *CorrectionService) load(ctx context.Context, id int64) (*models.Activity, []models.TrackPoint, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	points, err := s.tracks.ListByActivity(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return activity, points, nil
}
