package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/trackcore-go/internal/models"
)

const activityColumns = `id, uuid, name, description, category, recorded_with, source,
	start_time, end_time, total_time, moving_time, distance, max_speed, avg_speed, avg_moving_speed,
	min_altitude, max_altitude, elevation_gain, elevation_loss,
	avg_heart_rate, max_heart_rate, avg_cadence, max_cadence, avg_power, max_power,
	avg_temperature, min_temperature, max_temperature, created_at`

// ActivityRepository handles database operations for activities
type ActivityRepository struct {
	db DBTX
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func statsArgs(s *models.Stats) []any {
	return []any{
		s.StartTime, s.EndTime, s.TotalTime, s.MovingTime, s.Distance, s.MaxSpeed, s.AvgSpeed, s.AvgMovingSpeed,
		s.MinAltitude, s.MaxAltitude, s.ElevationGain, s.ElevationLoss,
		s.AvgHeartRate, s.MaxHeartRate, s.AvgCadence, s.MaxCadence, s.AvgPower, s.MaxPower,
		s.AvgTemperature, s.MinTemperature, s.MaxTemperature,
	}
}

func scanActivity(row scanner) (*models.Activity, error) {
	var a models.Activity
	s := &a.Stats
	err := row.Scan(
		&a.ID, &a.UUID, &a.Name, &a.Description, &a.Category, &a.RecordedWith, &a.Source,
		&s.StartTime, &s.EndTime, &s.TotalTime, &s.MovingTime, &s.Distance, &s.MaxSpeed, &s.AvgSpeed, &s.AvgMovingSpeed,
		&s.MinAltitude, &s.MaxAltitude, &s.ElevationGain, &s.ElevationLoss,
		&s.AvgHeartRate, &s.MaxHeartRate, &s.AvgCadence, &s.MaxCadence, &s.AvgPower, &s.MaxPower,
		&s.AvgTemperature, &s.MinTemperature, &s.MaxTemperature, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an activity with its stats and sets its ID.
func (r *ActivityRepository) Create(ctx context.Context, a *models.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO activities (
			uuid, name, description, category, recorded_with, source,
			start_time, end_time, total_time, moving_time, distance, max_speed, avg_speed, avg_moving_speed,
			min_altitude, max_altitude, elevation_gain, elevation_loss,
			avg_heart_rate, max_heart_rate, avg_cadence, max_cadence, avg_power, max_power,
			avg_temperature, min_temperature, max_temperature, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []any{a.UUID, a.Name, a.Description, a.Category, a.RecordedWith, a.Source}
	args = append(args, statsArgs(&a.Stats)...)
	args = append(args, a.CreatedAt)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	a.ID = id
	return nil
}

// GetByID retrieves an activity by ID
func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("activity", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// List retrieves activities, newest first, with optional category filter
// and pagination.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int64, error) {
	where := ""
	var args []any
	if filter.Category != "" {
		where = " WHERE category = ?"
		args = append(args, filter.Category)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > 500 {
		filter.PageSize = 500
	}

	query := `SELECT ` + activityColumns + ` FROM activities` + where +
		` ORDER BY start_time DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return activities, total, nil
}

// UpdateStats overwrites the stored statistics of an activity.
func (r *ActivityRepository) UpdateStats(ctx context.Context, id int64, s models.Stats) error {
	query := `
		UPDATE activities SET
			start_time = ?, end_time = ?, total_time = ?, moving_time = ?, distance = ?,
			max_speed = ?, avg_speed = ?, avg_moving_speed = ?,
			min_altitude = ?, max_altitude = ?, elevation_gain = ?, elevation_loss = ?,
			avg_heart_rate = ?, max_heart_rate = ?, avg_cadence = ?, max_cadence = ?,
			avg_power = ?, max_power = ?,
			avg_temperature = ?, min_temperature = ?, max_temperature = ?
		WHERE id = ?
	`
	args := append(statsArgs(&s), id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update activity stats: %w", err)
	}
	return requireAffected(res, "activity", id)
}

// Delete removes an activity together with its points and segment tracks.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return requireAffected(res, "activity", id)
}
