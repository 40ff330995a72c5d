package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/repository"
	"github.com/jengzang/trackcore-go/internal/stats"
)

// ActivityService handles business logic for stored activities
type ActivityService struct {
	activities *repository.ActivityRepository
	tracks     *repository.TrackRepository
}

// NewActivityService creates a new activity service
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{
		activities: repository.NewActivityRepository(db),
		tracks:     repository.NewTrackRepository(db),
	}
}

// List retrieves activities with filtering and pagination
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int64, error) {
	return s.activities.List(ctx, filter)
}

// Get retrieves a single activity by ID
func (s *ActivityService) Get(ctx context.Context, id int64) (*models.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

// Delete removes an activity with its points and segment tracks
func (s *ActivityService) Delete(ctx context.Context, id int64) error {
	return s.activities.Delete(ctx, id)
}

// Points retrieves one page of an activity's track points
func (s *ActivityService) Points(ctx context.Context, id int64, page, pageSize int) (*models.TrackPointsResponse, error) {
	if _, err := s.activities.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.tracks.ListPage(ctx, id, page, pageSize)
}

// Intervals splits an activity into slices of the given length in meters.
func (s *ActivityService) Intervals(ctx context.Context, id int64, meters float64) ([]models.Interval, error) {
	if meters <= 0 {
		return nil, fmt.Errorf("interval length must be positive, got %g", meters)
	}
	activity, points, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return stats.ComputeIntervals(points, meters, activity.Category), nil
}

// HrZones reports the time spent in each heart-rate zone of an activity.
func (s *ActivityService) HrZones(ctx context.Context, id int64, thresholds []float64) (*models.HrZones, error) {
	_, points, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	zones := stats.ComputeHrZones(points, thresholds)
	return &zones, nil
}

func (s *ActivityService) load(ctx context.Context, id int64) (*models.Activity, []models.TrackPoint, error) {
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
