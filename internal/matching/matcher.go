package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/spatial"
	"github.com/jengzang/trackcore-go/internal/stats"
)

const (
	// SearchRadius is the radius in meters around a route's first and last
	// waypoint in which start and end candidates are looked up.
	SearchRadius = 10.0
	// SearchInflation grows SearchRadius by this fraction.
	SearchInflation = 0.1
	// MaxFrechetDistance is the largest accepted distance in meters between
	// a route and a candidate.
	MaxFrechetDistance = 50.0
	// ClusterGap merges start candidates of one activity that are at most
	// this many milliseconds apart.
	ClusterGap = int64(60 * 1000)
)

// ErrEmptyRoute is returned for a route without waypoints.
var ErrEmptyRoute = errors.New("route has no waypoints")

// Queries are the persistence reads and writes of one match attempt.
type Queries interface {
	// PointsInBox returns the points inside box ordered by time. An
	// activityID of 0 searches every activity.
	PointsInBox(ctx context.Context, box spatial.Box, activityID int64) ([]models.TrackPoint, error)
	// FirstPointAfter returns the earliest point of the activity inside box
	// whose time is greater than after, or nil.
	FirstPointAfter(ctx context.Context, box spatial.Box, activityID int64, after int64) (*models.TrackPoint, error)
	// PointsBetween returns the points of the activity with ids in
	// [startID, endID] ordered by id.
	PointsBetween(ctx context.Context, activityID, startID, endID int64) ([]models.TrackPoint, error)
	// InsertSegmentTrack stores track and sets its id.
	InsertSegmentTrack(ctx context.Context, track *models.SegmentTrack) error
}

// Store is Queries plus the ability to run a group of them atomically.
type Store interface {
	Queries
	Atomic(ctx context.Context, fn func(q Queries) error) error
}

// Matcher detects routes in activities and stores each confirmed occurrence
// as a SegmentTrack.
type Matcher struct {
	store Store
}

// NewMatcher creates a Matcher on top of store.
func NewMatcher(store Store) *Matcher {
	return &Matcher{store: store}
}

// SearchRoute looks for route in every stored activity.
func (m *Matcher) SearchRoute(ctx context.Context, route *models.Route) ([]models.SegmentTrack, error) {
	return m.Match(ctx, route, 0)
}

// SearchActivity looks for every route in one activity. A failing route
// does not stop the others; all failures are returned joined.
func (m *Matcher) SearchActivity(ctx context.Context, routes []models.Route, activityID int64) ([]models.SegmentTrack, error) {
	var (
		found []models.SegmentTrack
		errs  []error
	)
	for i := range routes {
		tracks, err := m.Match(ctx, &routes[i], activityID)
		if err != nil {
			errs = append(errs, fmt.Errorf("route %d: %w", routes[i].ID, err))
			continue
		}
		found = append(found, tracks...)
	}
	return found, errors.Join(errs...)
}

// Match finds the occurrences of route, in one activity or, with an
// activityID of 0, in all of them. Each start candidate is resolved in its
// own transaction.
func (m *Matcher) Match(ctx context.Context, route *models.Route, activityID int64) ([]models.SegmentTrack, error) {
	if len(route.Points) == 0 {
		return nil, ErrEmptyRoute
	}

	first, last := route.Points[0], route.Points[len(route.Points)-1]
	startBox := spatial.InflatedBox(first.Latitude, first.Longitude, SearchRadius, SearchInflation)
	endBox := spatial.InflatedBox(last.Latitude, last.Longitude, SearchRadius, SearchInflation)

	candidates, err := m.store.PointsInBox(ctx, startBox, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query start candidates: %w", err)
	}

	polyline := lo.Map(route.Points, func(p models.RoutePoint, _ int) spatial.Point {
		return spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
	})

	var found []models.SegmentTrack
	for _, start := range StartCandidates(candidates) {
		var track *models.SegmentTrack
		err := m.store.Atomic(ctx, func(q Queries) error {
			var err error
			track, err = attempt(ctx, q, route.ID, polyline, start, endBox)
			return err
		})
		if err != nil {
			return found, fmt.Errorf("failed to match from point %d: %w", start.ID, err)
		}
		if track != nil {
			found = append(found, *track)
		}
	}
	return found, nil
}

func attempt(ctx context.Context, q Queries, routeID int64, polyline []spatial.Point, start models.TrackPoint, endBox spatial.Box) (*models.SegmentTrack, error) {
	end, err := q.FirstPointAfter(ctx, endBox, start.ActivityID, start.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to query end candidate: %w", err)
	}
	if end == nil || end.ID <= start.ID {
		return nil, nil
	}

	points, err := q.PointsBetween(ctx, start.ActivityID, start.ID, end.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate points: %w", err)
	}

	candidate := lo.Map(points, func(p models.TrackPoint, _ int) spatial.Point {
		return spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
	})
	if Frechet(polyline, candidate) >= MaxFrechetDistance {
		return nil, nil
	}

	track := newSegmentTrack(routeID, start, *end, stats.Compute(points))
	if err := q.InsertSegmentTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to insert segment track: %w", err)
	}
	return track, nil
}

func newSegmentTrack(routeID int64, start, end models.TrackPoint, s models.Stats) *models.SegmentTrack {
	return &models.SegmentTrack{
		RouteID:      routeID,
		ActivityID:   start.ActivityID,
		StartPointID: start.ID,
		EndPointID:   end.ID,
		StartTime:    start.Time,
		Time:         end.Time - start.Time,
		Distance:     s.Distance,
		AvgSpeed:     s.AvgSpeed,
		MaxSpeed:     s.MaxSpeed,
		AvgHeartRate: s.AvgHeartRate,
		MaxHeartRate: s.MaxHeartRate,
		AvgCadence:   s.AvgCadence,
		MaxCadence:   s.MaxCadence,
	}
}

// StartCandidates collapses time-ordered points near a route start into one
// candidate per pass: points of the same activity at most ClusterGap apart
// form a cluster, represented by its latest point. The result is ordered by
// time.
func StartCandidates(points []models.TrackPoint) []models.TrackPoint {
	var out []models.TrackPoint
	for _, group := range lo.GroupBy(points, func(p models.TrackPoint) int64 { return p.ActivityID }) {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Time < group[j].Time })

		rep := group[0]
		for _, p := range group[1:] {
			if p.Time-rep.Time > ClusterGap {
				out = append(out, rep)
			}
			rep = p
		}
		out = append(out, rep)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}
