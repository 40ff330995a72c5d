package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/trackcore-go/internal/models"
)

const segmentTrackColumns = `id, route_id, activity_id, start_point_id, end_point_id, start_time, time,
	distance, avg_speed, max_speed, avg_heart_rate, max_heart_rate, avg_cadence, max_cadence, created_at`

// SegmentRepository handles database operations for segment tracks, the
// detected occurrences of routes in activities
type SegmentRepository struct {
	db DBTX
}

// NewSegmentRepository creates a new segment track repository
func NewSegmentRepository(db DBTX) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// Insert stores a segment track and sets its ID.
func (r *SegmentRepository) Insert(ctx context.Context, t *models.SegmentTrack) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO segment_tracks (
			route_id, activity_id, start_point_id, end_point_id, start_time, time,
			distance, avg_speed, max_speed, avg_heart_rate, max_heart_rate, avg_cadence, max_cadence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.RouteID, t.ActivityID, t.StartPointID, t.EndPointID, t.StartTime, t.Time,
		t.Distance, t.AvgSpeed, t.MaxSpeed, t.AvgHeartRate, t.MaxHeartRate, t.AvgCadence, t.MaxCadence, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert segment track: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	t.ID = id
	return nil
}

func (r *SegmentRepository) query(ctx context.Context, query string, args ...any) ([]models.SegmentTrack, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.SegmentTrack
	for rows.Next() {
		var t models.SegmentTrack
		err := rows.Scan(
			&t.ID, &t.RouteID, &t.ActivityID, &t.StartPointID, &t.EndPointID, &t.StartTime, &t.Time,
			&t.Distance, &t.AvgSpeed, &t.MaxSpeed, &t.AvgHeartRate, &t.MaxHeartRate, &t.AvgCadence, &t.MaxCadence,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate segment tracks: %w", err)
	}
	return tracks, nil
}

// Leaderboard returns the efforts on a route, fastest first. A limit of 0
// returns all of them.
func (r *SegmentRepository) Leaderboard(ctx context.Context, routeID int64, limit int) ([]models.SegmentTrack, error) {
	query := `SELECT ` + segmentTrackColumns + ` FROM segment_tracks WHERE route_id = ? ORDER BY time, start_time`
	args := []any{routeID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

// ListByActivity returns the segment tracks found in an activity in the
// order they were ridden.
func (r *SegmentRepository) ListByActivity(ctx context.Context, activityID int64) ([]models.SegmentTrack, error) {
	query := `SELECT ` + segmentTrackColumns + ` FROM segment_tracks WHERE activity_id = ? ORDER BY start_time`
	return r.query(ctx, query, activityID)
}

// DeleteByRoute removes every segment track of a route.
func (r *SegmentRepository) DeleteByRoute(ctx context.Context, routeID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM segment_tracks WHERE route_id = ?", routeID); err != nil {
		return fmt.Errorf("failed to delete segment tracks: %w", err)
	}
	return nil
}

// DeleteByActivity removes every segment track of an activity.
func (r *SegmentRepository) DeleteByActivity(ctx context.Context, activityID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM segment_tracks WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("failed to delete segment tracks: %w", err)
	}
	return nil
}
