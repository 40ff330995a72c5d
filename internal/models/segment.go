package models

import "time"

// SegmentTrack is one detected occurrence of a Route inside an Activity.
type SegmentTrack struct {
	ID         int64 `json:"id" db:"id"`
	RouteID    int64 `json:"routeId" db:"route_id"`
	ActivityID int64 `json:"activityId" db:"activity_id"`

	StartPointID int64 `json:"startPointId" db:"start_point_id"`
	EndPointID   int64 `json:"endPointId" db:"end_point_id"`
	StartTime    int64 `json:"startTime" db:"start_time"` // Unix milliseconds
	Time         int64 `json:"time" db:"time"`            // elapsed milliseconds

	Distance     float64  `json:"distance" db:"distance"`
	AvgSpeed     *float64 `json:"avgSpeed,omitempty" db:"avg_speed"`
	MaxSpeed     *float64 `json:"maxSpeed,omitempty" db:"max_speed"`
	AvgHeartRate *float64 `json:"avgHeartRate,omitempty" db:"avg_heart_rate"`
	MaxHeartRate *float64 `json:"maxHeartRate,omitempty" db:"max_heart_rate"`
	AvgCadence   *float64 `json:"avgCadence,omitempty" db:"avg_cadence"`
	MaxCadence   *float64 `json:"maxCadence,omitempty" db:"max_cadence"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
