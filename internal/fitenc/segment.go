package fitenc

import (
	"errors"
	"fmt"
	"time"

	"github.com/tormoder/fit"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/smoothing"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

// MaxLeaders is the largest number of leaderboard entries written.
const MaxLeaders = 5

const softwareVersion = 100

// ErrNoWaypoints is returned for a route without waypoints.
var ErrNoWaypoints = errors.New("route has no waypoints")

// SegmentFile is the content of an exported segment.
type SegmentFile struct {
	Route *models.Route
	// Leaders are the ranked efforts on the route, fastest first.
	Leaders []models.SegmentTrack
	// LeaderPoints are the track points of the fastest effort. They give
	// the leader's time at every waypoint.
	LeaderPoints []models.TrackPoint
	Created      time.Time
}

// BuildSegmentFile encodes a route and its leaderboard as a FIT segment
// file.
func BuildSegmentFile(schema *Schema, sf SegmentFile) ([]byte, error) {
	route := sf.Route
	if route == nil || len(route.Points) == 0 {
		return nil, ErrNoWaypoints
	}
	created := Timestamp(sf.Created)
	first, last := route.Points[0], route.Points[len(route.Points)-1]

	leaders := sf.Leaders
	if len(leaders) > MaxLeaders {
		leaders = leaders[:MaxLeaders]
	}

	enc := NewEncoder(schema)
	write := func(message string, fields Fields) error {
		if err := enc.Write(message, fields); err != nil {
			return fmt.Errorf("failed to encode %s: %w", message, err)
		}
		return nil
	}

	if err := write(FileID, Fields{
		"type":         uint8(fit.FileTypeSegment),
		"manufacturer": uint16(fit.ManufacturerDevelopment),
		"product":      0,
		"time_created": created,
	}); err != nil {
		return nil, err
	}
	if err := write(FileCreator, Fields{"software_version": softwareVersion}); err != nil {
		return nil, err
	}

	sport := uint8(Sport(route.Category))
	segmentID := Fields{
		"name":    route.Name,
		"uuid":    route.UUID,
		"sport":   sport,
		"enabled": true,
	}
	if len(leaders) > 0 {
		segmentID["default_race_leader"] = 0
	}
	if err := write(SegmentID, segmentID); err != nil {
		return nil, err
	}

	ascent, descent := waypointGainLoss(route.Points)
	bounds := spatial.Bounds(waypointPolyline(route.Points))
	lap := Fields{
		"message_index":       0,
		"timestamp":           created,
		"event":               uint8(fit.EventLap),
		"event_type":          uint8(fit.EventTypeStop),
		"start_time":          created,
		"start_position_lat":  first.Latitude,
		"start_position_long": first.Longitude,
		"end_position_lat":    last.Latitude,
		"end_position_long":   last.Longitude,
		"total_distance":      route.Distance,
		"total_ascent":        ascent,
		"total_descent":       descent,
		"sport":               sport,
		"nec_lat":             bounds.MaxLat,
		"nec_long":            bounds.MaxLon,
		"swc_lat":             bounds.MinLat,
		"swc_long":            bounds.MinLon,
		"name":                route.Name,
	}
	if len(leaders) > 0 {
		best := leaders[0]
		seconds := float64(best.Time) / 1000
		lap["total_elapsed_time"] = seconds
		lap["total_timer_time"] = seconds
		lap["avg_speed"] = best.AvgSpeed
		lap["max_speed"] = best.MaxSpeed
		lap["avg_heart_rate"] = best.AvgHeartRate
		lap["max_heart_rate"] = best.MaxHeartRate
		lap["avg_cadence"] = best.AvgCadence
		lap["max_cadence"] = best.MaxCadence
	}
	if err := write(SegmentLap, lap); err != nil {
		return nil, err
	}

	for i, l := range leaders {
		if err := write(SegmentLeaderboardEntry, Fields{
			"message_index":      i,
			"name":               fmt.Sprintf("Activity %d", l.ActivityID),
			"type":               uint8(fit.SegmentLeaderboardTypeOverall),
			"activity_id":        l.ActivityID,
			"segment_time":       float64(l.Time) / 1000,
			"activity_id_string": fmt.Sprintf("%d", l.ActivityID),
		}); err != nil {
			return nil, err
		}
	}

	var leaderTimes []float64
	if len(leaders) > 0 && len(sf.LeaderPoints) > 0 {
		leaderTimes = LeaderTimes(route.Points, sf.LeaderPoints)
	}

	var distance float64
	for i, p := range route.Points {
		if i > 0 {
			prev := route.Points[i-1]
			distance += spatial.HaversineDistance(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
		}
		point := Fields{
			"message_index": i,
			"position_lat":  p.Latitude,
			"position_long": p.Longitude,
			"distance":      distance,
			"altitude":      p.Altitude,
		}
		if leaderTimes != nil {
			point["leader_time"] = leaderTimes[i]
		}
		if err := write(SegmentPoint, point); err != nil {
			return nil, err
		}
	}

	return enc.Bytes(), nil
}

// LeaderTimes returns, for every waypoint, the seconds the leader needed
// from the start to the nearest of its points. Points are matched in order,
// so times never decrease.
func LeaderTimes(waypoints []models.RoutePoint, leader []models.TrackPoint) []float64 {
	out := make([]float64, len(waypoints))
	if len(leader) == 0 {
		return out
	}

	start := leader[0].Time
	cursor := 0
	for i, w := range waypoints {
		best, bestDist := cursor, -1.0
		for j := cursor; j < len(leader); j++ {
			d := spatial.HaversineDistance(w.Latitude, w.Longitude, leader[j].Latitude, leader[j].Longitude)
			if bestDist < 0 || d < bestDist {
				best, bestDist = j, d
			}
		}
		cursor = best
		out[i] = float64(leader[best].Time-start) / 1000
	}
	return out
}

// waypointGainLoss runs the route altitudes through the same accumulator
// used on recorded tracks.
func waypointGainLoss(points []models.RoutePoint) (gain, loss float64) {
	gl := smoothing.NewGainLoss()
	for _, p := range points {
		if p.Altitude != nil {
			gl.Add(*p.Altitude)
		}
	}
	return gl.Totals()
}

func waypointPolyline(points []models.RoutePoint) []spatial.Point {
	out := make([]spatial.Point, len(points))
	for i, p := range points {
		out[i] = spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
	}
	return out
}

// Sport maps a category to the FIT sport enum.
func Sport(c models.Category) fit.Sport {
	switch c {
	case models.CategoryRunning:
		return fit.SportRunning
	case models.CategoryCycling, models.CategoryMTB:
		return fit.SportCycling
	case models.CategorySwimming:
		return fit.SportSwimming
	case models.CategoryWalking:
		return fit.SportWalking
	case models.CategorySkiing:
		return fit.SportCrossCountrySkiing
	case models.CategoryHiking:
		return fit.SportHiking
	case models.CategoryDriving:
		return fit.SportDriving
	}
	return fit.SportGeneric
}
