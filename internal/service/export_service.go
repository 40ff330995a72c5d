package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jengzang/trackcore-go/internal/fitenc"
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/repository"
)

// ExportService encodes routes as FIT segment files.
type ExportService struct {
	routes   *repository.RouteRepository
	segments *repository.SegmentRepository
	tracks   *repository.TrackRepository
	schema   *fitenc.Schema
	now      func() time.Time
}

// NewExportService creates a new export service
func NewExportService(db *sql.DB) *ExportService {
	return &ExportService{
		routes:   repository.NewRouteRepository(db),
		segments: repository.NewSegmentRepository(db),
		tracks:   repository.NewTrackRepository(db),
		schema:   fitenc.NewSegmentSchema(),
		now:      time.Now,
	}
}

// SegmentFIT builds the FIT segment file of a route with its fastest
// efforts. The fastest effort's points give the leader times per waypoint.
func (s *ExportService) SegmentFIT(ctx context.Context, routeID int64) (*models.Route, []byte, error) {
	route, err := s.routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, nil, err
	}
	leaders, err := s.segments.Leaderboard(ctx, routeID, fitenc.MaxLeaders)
	if err != nil {
		return nil, nil, err
	}

	sf := fitenc.SegmentFile{Route: route, Leaders: leaders, Created: s.now()}
	if len(leaders) > 0 {
		best := leaders[0]
		sf.LeaderPoints, err = s.tracks.PointsBetween(ctx, best.ActivityID, best.StartPointID, best.EndPointID)
		if err != nil {
			return nil, nil, err
		}
	}

	data, err := fitenc.BuildSegmentFile(s.schema, sf)
	if err != nil {
		return nil, nil, err
	}
	return route, data, nil
}
