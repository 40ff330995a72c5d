package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/spatial"
)

const trackPointColumns = `id, activity_id, segment, latitude, longitude, time,
	speed, altitude, elevation_gain, elevation_loss, heart_rate, cadence, power, temperature`

// TrackRepository handles database operations for track points
type TrackRepository struct {
	db DBTX
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db DBTX) *TrackRepository {
	return &TrackRepository{db: db}
}

func scanTrackPoint(row scanner, p *models.TrackPoint) error {
	return row.Scan(
		&p.ID, &p.ActivityID, &p.Segment, &p.Latitude, &p.Longitude, &p.Time,
		&p.Speed, &p.Altitude, &p.ElevationGain, &p.ElevationLoss,
		&p.HeartRate, &p.Cadence, &p.Power, &p.Temperature,
	)
}

func (r *TrackRepository) queryPoints(ctx context.Context, query string, args ...any) ([]models.TrackPoint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track points: %w", err)
	}
	defer rows.Close()

	var points []models.TrackPoint
	for rows.Next() {
		var p models.TrackPoint
		if err := scanTrackPoint(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan track point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track points: %w", err)
	}
	return points, nil
}

// InsertBatch stores the points of an activity in order and sets their IDs,
// so ids increase with time.
func (r *TrackRepository) InsertBatch(ctx context.Context, activityID int64, points []models.TrackPoint) error {
	query := `
		INSERT INTO trackpoints (
			activity_id, segment, latitude, longitude, time,
			speed, altitude, elevation_gain, elevation_loss, heart_rate, cadence, power, temperature
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range points {
		p := &points[i]
		p.ActivityID = activityID

		res, err := stmt.ExecContext(ctx,
			p.ActivityID, p.Segment, p.Latitude, p.Longitude, p.Time,
			p.Speed, p.Altitude, p.ElevationGain, p.ElevationLoss,
			p.HeartRate, p.Cadence, p.Power, p.Temperature,
		)
		if err != nil {
			return fmt.Errorf("failed to insert track point %d: %w", i, err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}
	return nil
}

// ListByActivity returns every point of an activity ordered by time.
func (r *TrackRepository) ListByActivity(ctx context.Context, activityID int64) ([]models.TrackPoint, error) {
	query := `SELECT ` + trackPointColumns + ` FROM trackpoints WHERE activity_id = ? ORDER BY time, id`
	return r.queryPoints(ctx, query, activityID)
}

// ListPage returns one page of the points of an activity ordered by time.
func (r *TrackRepository) ListPage(ctx context.Context, activityID int64, page, pageSize int) (*models.TrackPointsResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1000
	}
	if pageSize > 10000 {
		pageSize = 10000
	}

	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trackpoints WHERE activity_id = ?", activityID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count track points: %w", err)
	}

	query := `SELECT ` + trackPointColumns + ` FROM trackpoints WHERE activity_id = ? ORDER BY time, id LIMIT ? OFFSET ?`
	points, err := r.queryPoints(ctx, query, activityID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	return &models.TrackPointsResponse{
		Data:       points,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// PointsInBox returns the points inside box ordered by time. An activityID
// of 0 searches all activities.
func (r *TrackRepository) PointsInBox(ctx context.Context, box spatial.Box, activityID int64) ([]models.TrackPoint, error) {
	query := `SELECT ` + trackPointColumns + ` FROM trackpoints
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?`
	args := []any{box.MinLat, box.MaxLat, box.MinLon, box.MaxLon}
	if activityID != 0 {
		query += " AND activity_id = ?"
		args = append(args, activityID)
	}
	query += " ORDER BY time, id"
	return r.queryPoints(ctx, query, args...)
}

// FirstPointAfter returns the earliest point of an activity inside box whose
// time is greater than after, or nil.
func (r *TrackRepository) FirstPointAfter(ctx context.Context, box spatial.Box, activityID int64, after int64) (*models.TrackPoint, error) {
	query := `SELECT ` + trackPointColumns + ` FROM trackpoints
		WHERE activity_id = ? AND time > ?
		  AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
		ORDER BY time, id LIMIT 1`
	points, err := r.queryPoints(ctx, query, activityID, after, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}
	return &points[0], nil
}

// PointsBetween returns the points of an activity with ids in
// [startID, endID] ordered by id.
func (r *TrackRepository) PointsBetween(ctx context.Context, activityID, startID, endID int64) ([]models.TrackPoint, error) {
	query := `SELECT ` + trackPointColumns + ` FROM trackpoints
		WHERE activity_id = ? AND id BETWEEN ? AND ? ORDER BY id`
	return r.queryPoints(ctx, query, activityID, startID, endID)
}

// UpdateElevation writes the altitude and gain/loss deltas of points back by
// id.
func (r *TrackRepository) UpdateElevation(ctx context.Context, points []models.TrackPoint) error {
	stmt, err := r.db.PrepareContext(ctx,
		`UPDATE trackpoints SET altitude = ?, elevation_gain = ?, elevation_loss = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.Altitude, p.ElevationGain, p.ElevationLoss, p.ID); err != nil {
			return fmt.Errorf("failed to update track point %d: %w", p.ID, err)
		}
	}
	return nil
}
