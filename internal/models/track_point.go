package models

// TrackPoint represents one GPS/sensor sample of an activity.
// Every field except Lat, Lon and Time is optional and stays nil when the
// recording did not carry it.
type TrackPoint struct {
	ID         int64 `json:"id" db:"id"`
	ActivityID int64 `json:"activityId" db:"activity_id"`
	Segment    int   `json:"segment" db:"segment"` // temporal segment number, 1-based

	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Time      int64   `json:"time" db:"time"` // Unix milliseconds

	Speed         *float64 `json:"speed,omitempty" db:"speed"` // m/s
	Altitude      *float64 `json:"altitude,omitempty" db:"altitude"`
	ElevationGain *float64 `json:"elevationGain,omitempty" db:"elevation_gain"`
	ElevationLoss *float64 `json:"elevationLoss,omitempty" db:"elevation_loss"`
	HeartRate     *float64 `json:"heartRate,omitempty" db:"heart_rate"`
	Cadence       *float64 `json:"cadence,omitempty" db:"cadence"`
	Power         *float64 `json:"power,omitempty" db:"power"`
	Temperature   *float64 `json:"temperature,omitempty" db:"temperature"`
}

// Float returns a pointer to a copy of v.
func Float(v float64) *float64 {
	return &v
}

// TrackPointsResponse represents a paginated response of track points
type TrackPointsResponse struct {
	Data       []TrackPoint `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}
