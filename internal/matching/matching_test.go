package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

// metersPerDegreeLat is the length of one degree of latitude on the sphere
// used by spatial.HaversineDistance.
const metersPerDegreeLat = spatial.EarthRadiusMeters * 3.141592653589793 / 180

func northLine(n int, lat, lon float64) []spatial.Point {
	out := make([]spatial.Point, n)
	for i := range out {
		out[i] = spatial.Point{Lat: lat + float64(i)*0.0001, Lon: lon}
	}
	return out
}

func shifted(points []spatial.Point, meters float64) []spatial.Point {
	out := make([]spatial.Point, len(points))
	for i, p := range points {
		out[i] = spatial.Point{Lat: p.Lat + meters/metersPerDegreeLat, Lon: p.Lon}
	}
	return out
}

func TestFrechet(t *testing.T) {
	route := northLine(11, 46.5, 7.1)

	assert.Zero(t, Frechet(route, route))
	assert.InDelta(t, 60.0, Frechet(route, shifted(route, 60)), 0.5)
	assert.GreaterOrEqual(t, Frechet(route, shifted(route, 60)), MaxFrechetDistance)
	assert.Less(t, Frechet(route, shifted(route, 10)), MaxFrechetDistance)

	// a denser sampling of the same line stays close
	dense := make([]spatial.Point, 0, 21)
	for i := 0; i <= 20; i++ {
		dense = append(dense, spatial.Point{Lat: 46.5 + float64(i)*0.00005, Lon: 7.1})
	}
	assert.Less(t, Frechet(route, dense), 6.0)

	assert.InDelta(t, Frechet(route, dense), Frechet(dense, route), 1e-9)
	assert.True(t, Frechet(nil, route) > 1e300)
}

type memStore struct {
	points    []models.TrackPoint
	tracks    []models.SegmentTrack
	insertErr error
}

func (s *memStore) add(activityID int64, lat, lon float64, at int64) {
	s.points = append(s.points, models.TrackPoint{
		ID:         int64(len(s.points) + 1),
		ActivityID: activityID,
		Segment:    1,
		Latitude:   lat,
		Longitude:  lon,
		Time:       at,
		Speed:      models.Float(1.1),
		HeartRate:  models.Float(150),
	})
}

func (s *memStore) PointsInBox(_ context.Context, box spatial.Box, activityID int64) ([]models.TrackPoint, error) {
	var out []models.TrackPoint
	for _, p := range s.points {
		if (activityID == 0 || p.ActivityID == activityID) && box.Contains(p.Latitude, p.Longitude) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) FirstPointAfter(_ context.Context, box spatial.Box, activityID int64, after int64) (*models.TrackPoint, error) {
	var best *models.TrackPoint
	for i := range s.points {
		p := &s.points[i]
		if p.ActivityID != activityID || p.Time <= after || !box.Contains(p.Latitude, p.Longitude) {
			continue
		}
		if best == nil || p.Time < best.Time {
			best = p
		}
	}
	return best, nil
}

func (s *memStore) PointsBetween(_ context.Context, activityID, startID, endID int64) ([]models.TrackPoint, error) {
	var out []models.TrackPoint
	for _, p := range s.points {
		if p.ActivityID == activityID && p.ID >= startID && p.ID <= endID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) InsertSegmentTrack(_ context.Context, track *models.SegmentTrack) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	track.ID = int64(len(s.tracks) + 1)
	s.tracks = append(s.tracks, *track)
	return nil
}

func (s *memStore) Atomic(_ context.Context, fn func(q Queries) error) error {
	return fn(s)
}

func testRoute() *models.Route {
	route := &models.Route{ID: 7, Name: "river climb"}
	for i, p := range northLine(11, 46.5, 7.1) {
		route.Points = append(route.Points, models.RoutePoint{Seq: i, Latitude: p.Lat, Longitude: p.Lon})
	}
	return route
}

func populate(s *memStore) {
	// activity 1: jitter at the start, then a clean pass
	s.add(1, 46.49995, 7.1, 0)
	for i, p := range northLine(11, 46.5, 7.1) {
		s.add(1, p.Lat, p.Lon, int64(10+i*10)*1000)
	}

	// activity 2: starts and ends on the route but detours 100 m east
	for i, p := range northLine(11, 46.5, 7.1) {
		lon := p.Lon
		if i >= 3 && i <= 7 {
			lon += 100 / (metersPerDegreeLat * 0.688)
		}
		s.add(2, p.Lat, lon, int64(i*10)*1000)
	}

	// activity 3: two passes twenty minutes apart
	for pass := 0; pass < 2; pass++ {
		for i, p := range northLine(11, 46.5, 7.1) {
			s.add(3, p.Lat, p.Lon, int64(pass*1200+i*10)*1000)
		}
	}
}

func TestMatcherSearchRoute(t *testing.T) {
	store := &memStore{}
	populate(store)

	tracks, err := NewMatcher(store).SearchRoute(context.Background(), testRoute())
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Len(t, store.tracks, 3)

	// ordered by start time: activity 3 starts at 0, activity 1 at 10 s
	first := tracks[1]
	assert.Equal(t, int64(7), first.RouteID)
	assert.Equal(t, int64(1), first.ActivityID)
	assert.Equal(t, int64(2), first.StartPointID, "the latest point of the start cluster is used")
	assert.Equal(t, int64(12), first.EndPointID)
	assert.Equal(t, int64(10000), first.StartTime)
	assert.Equal(t, int64(100000), first.Time)
	assert.InDelta(t, spatial.PathLength(northLine(11, 46.5, 7.1)), first.Distance, 1e-6)
	require.NotNil(t, first.AvgHeartRate)
	assert.Equal(t, 150.0, *first.AvgHeartRate)

	for _, tr := range tracks {
		assert.NotEqual(t, int64(2), tr.ActivityID)
		assert.Less(t, tr.StartPointID, tr.EndPointID)
	}
	assert.Equal(t, int64(3), tracks[0].ActivityID)
	assert.Equal(t, int64(3), tracks[2].ActivityID)
	assert.Equal(t, int64(1200000), tracks[2].StartTime)
}

func TestMatcherSearchActivity(t *testing.T) {
	store := &memStore{}
	populate(store)

	routes := []models.Route{{ID: 1, Name: "empty"}, *testRoute()}
	tracks, err := NewMatcher(store).SearchActivity(context.Background(), routes, 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyRoute)
	require.Len(t, tracks, 2, "a failing route does not stop the others")
	for _, tr := range tracks {
		assert.Equal(t, int64(3), tr.ActivityID)
	}
}

func TestMatcherInsertFailure(t *testing.T) {
	boom := errors.New("disk full")
	store := &memStore{insertErr: boom}
	populate(store)

	_, err := NewMatcher(store).Match(context.Background(), testRoute(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestStartCandidates(t *testing.T) {
	points := []models.TrackPoint{
		{ID: 1, ActivityID: 1, Time: 0},
		{ID: 2, ActivityID: 1, Time: 30000},
		{ID: 3, ActivityID: 2, Time: 40000},
		{ID: 4, ActivityID: 1, Time: 80000},
		{ID: 5, ActivityID: 1, Time: 200000},
	}

	got := StartCandidates(points)

	ids := make([]int64, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Equal(t, []int64{3, 4, 5}, ids)
	assert.Empty(t, StartCandidates(nil))
}
