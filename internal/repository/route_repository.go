package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/trackcore-go/internal/models"
)

const routeColumns = `id, uuid, name, category, distance, elevation_gain, elevation_loss, created_at`

// RouteRepository handles database operations for routes and their
// waypoints
type RouteRepository struct {
	db DBTX
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db DBTX) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a route and its waypoints and sets their IDs.
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) error {
	if route.CreatedAt.IsZero() {
		route.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO routes (uuid, name, category, distance, elevation_gain, elevation_loss, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, route.UUID, route.Name, route.Category, route.Distance, route.ElevationGain, route.ElevationLoss, route.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	if route.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	stmt, err := r.db.PrepareContext(ctx, `
		INSERT INTO route_points (route_id, seq, latitude, longitude, altitude) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range route.Points {
		p := &route.Points[i]
		p.RouteID, p.Seq = route.ID, i

		res, err := stmt.ExecContext(ctx, p.RouteID, p.Seq, p.Latitude, p.Longitude, p.Altitude)
		if err != nil {
			return fmt.Errorf("failed to insert route point %d: %w", i, err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}
	return nil
}

func scanRoute(row scanner) (*models.Route, error) {
	var route models.Route
	err := row.Scan(&route.ID, &route.UUID, &route.Name, &route.Category,
		&route.Distance, &route.ElevationGain, &route.ElevationLoss, &route.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// GetByID retrieves a route with its waypoints.
func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*models.Route, error) {
	route, err := scanRoute(r.db.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("route", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	if route.Points, err = r.points(ctx, id); err != nil {
		return nil, err
	}
	return route, nil
}

// List retrieves every route with its waypoints, oldest first.
func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}

	var routes []models.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, *route)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate routes: %w", err)
	}

	for i := range routes {
		if routes[i].Points, err = r.points(ctx, routes[i].ID); err != nil {
			return nil, err
		}
	}
	return routes, nil
}

func (r *RouteRepository) points(ctx context.Context, routeID int64) ([]models.RoutePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, route_id, seq, latitude, longitude, altitude
		FROM route_points WHERE route_id = ? ORDER BY seq
	`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query route points: %w", err)
	}
	defer rows.Close()

	var points []models.RoutePoint
	for rows.Next() {
		var p models.RoutePoint
		if err := rows.Scan(&p.ID, &p.RouteID, &p.Seq, &p.Latitude, &p.Longitude, &p.Altitude); err != nil {
			return nil, fmt.Errorf("failed to scan route point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Delete removes a route with its waypoints and segment tracks.
func (r *RouteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM routes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	return requireAffected(res, "route", id)
}
