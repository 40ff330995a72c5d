package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/database"
	"github.com/jengzang/trackcore-go/internal/matching"
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/repository"
	"github.com/jengzang/trackcore-go/internal/smoothing"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

// SegmentService manages routes and the segment tracks found for them.
type SegmentService struct {
	routes   *repository.RouteRepository
	segments *repository.SegmentRepository
	db       *sql.DB
	tasks    *TaskService
	log      *zap.Logger
}

// NewSegmentService creates a new segment service
func NewSegmentService(db *sql.DB, tasks *TaskService, log *zap.Logger) *SegmentService {
	return &SegmentService{
		routes:   repository.NewRouteRepository(db),
		segments: repository.NewSegmentRepository(db),
		db:       db,
		tasks:    tasks,
		log:      log,
	}
}

// CreateRoute stores a route, deriving its distance and elevation totals
// from the waypoints, and searches it in every stored activity. A failed
// search is logged and recorded in its task; the route stays stored.
func (s *SegmentService) CreateRoute(ctx context.Context, route *models.Route) error {
	if len(route.Points) == 0 {
		return matching.ErrEmptyRoute
	}

	if route.UUID == "" {
		route.UUID = uuid.NewString()
	}
	if route.Category == "" {
		route.Category = models.CategoryUnknown
	}
	route.Distance = spatial.PathLength(lo.Map(route.Points, func(p models.RoutePoint, _ int) spatial.Point {
		return spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
	}))
	gl := smoothing.NewGainLoss()
	for _, p := range route.Points {
		if p.Altitude != nil {
			gl.Add(*p.Altitude)
		}
	}
	route.ElevationGain, route.ElevationLoss = gl.Totals()

	if err := s.routes.Create(ctx, route); err != nil {
		return err
	}
	s.log.Info("route created", zap.Int64("route", route.ID), zap.String("name", route.Name),
		zap.Int("waypoints", len(route.Points)), zap.Float64("distance", route.Distance))

	if _, err := s.SearchRoute(ctx, route.ID); err != nil {
		s.log.Warn("segment search after route creation failed", zap.Int64("route", route.ID), zap.Error(err))
	}
	return nil
}

// GetRoute retrieves a route with its waypoints
func (s *SegmentService) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	return s.routes.GetByID(ctx, id)
}

// ListRoutes returns every route with its waypoints
func (s *SegmentService) ListRoutes(ctx context.Context) ([]models.Route, error) {
	return s.routes.List(ctx)
}

// DeleteRoute removes a route and, by cascade, its segment tracks
func (s *SegmentService) DeleteRoute(ctx context.Context, id int64) error {
	return s.routes.Delete(ctx, id)
}

// SearchRoute replaces the segment tracks of a route with a fresh search
// over all activities. The replacement commits only when the whole search
// succeeds; otherwise the previous tracks are kept.
func (s *SegmentService) SearchRoute(ctx context.Context, routeID int64) ([]models.SegmentTrack, error) {
	route, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	var found []models.SegmentTrack
	_, err = s.tasks.Run(ctx, models.TaskKindSegmentSearch, routeID, func(ctx context.Context) (string, error) {
		err := database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
			if err := repository.NewSegmentRepository(tx).DeleteByRoute(ctx, routeID); err != nil {
				return err
			}
			tracks, err := matching.NewMatcher(repository.NewMatchStore(tx)).SearchRoute(ctx, route)
			if err != nil {
				return err
			}
			found = tracks
			return nil
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d segment tracks", len(found)), nil
	})
	return found, err
}

// SearchActivity replaces the segment tracks of an activity with a fresh
// search for every stored route. Every route is tried, but the replacement
// commits only when none of them failed.
func (s *SegmentService) SearchActivity(ctx context.Context, activityID int64) ([]models.SegmentTrack, error) {
	var found []models.SegmentTrack
	_, err := s.tasks.Run(ctx, models.TaskKindSegmentSearch, activityID, func(ctx context.Context) (string, error) {
		routes, err := s.routes.List(ctx)
		if err != nil {
			return "", err
		}
		err = database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
			if err := repository.NewSegmentRepository(tx).DeleteByActivity(ctx, activityID); err != nil {
				return err
			}
			tracks, err := matching.NewMatcher(repository.NewMatchStore(tx)).SearchActivity(ctx, routes, activityID)
			if err != nil {
				return err
			}
			found = tracks
			return nil
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d segment tracks over %d routes", len(found), len(routes)), nil
	})
	return found, err
}

// Leaderboard returns the fastest efforts on a route
func (s *SegmentService) Leaderboard(ctx context.Context, routeID int64, limit int) ([]models.SegmentTrack, error) {
	if _, err := s.routes.GetByID(ctx, routeID); err != nil {
		return nil, err
	}
	return s.segments.Leaderboard(ctx, routeID, limit)
}

// ActivitySegments returns the segment tracks found in an activity
func (s *SegmentService) ActivitySegments(ctx context.Context, activityID int64) ([]models.SegmentTrack, error) {
	return s.segments.ListByActivity(ctx, activityID)
}
