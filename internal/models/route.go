package models

import "time"

// Route is a named, reusable sub-route ("geographic segment") defined by an
// ordered waypoint list.
type Route struct {
	ID       int64    `json:"id" db:"id"`
	UUID     string   `json:"uuid" db:"uuid"`
	Name     string   `json:"name" db:"name"`
	Category Category `json:"category" db:"category"`

	Distance      float64 `json:"distance" db:"distance"`
	ElevationGain float64 `json:"elevationGain" db:"elevation_gain"`
	ElevationLoss float64 `json:"elevationLoss" db:"elevation_loss"`

	Points []RoutePoint `json:"points,omitempty"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RoutePoint is one waypoint of a Route.
type RoutePoint struct {
	ID        int64    `json:"id" db:"id"`
	RouteID   int64    `json:"routeId" db:"route_id"`
	Seq       int      `json:"seq" db:"seq"`
	Latitude  float64  `json:"latitude" db:"latitude"`
	Longitude float64  `json:"longitude" db:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty" db:"altitude"`
}
