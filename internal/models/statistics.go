package models

// Stats holds the derived metrics of an activity or of an ad-hoc point range.
// Times are Unix milliseconds, durations milliseconds, distances meters and
// speeds m/s. Pointer fields are nil when undefined.
type Stats struct {
	StartTime  *int64 `json:"startTime,omitempty" db:"start_time"`
	EndTime    *int64 `json:"endTime,omitempty" db:"end_time"`
	TotalTime  int64  `json:"totalTime" db:"total_time"`
	MovingTime int64  `json:"movingTime" db:"moving_time"`

	Distance       float64  `json:"distance" db:"distance"`
	MaxSpeed       *float64 `json:"maxSpeed,omitempty" db:"max_speed"`
	AvgSpeed       *float64 `json:"avgSpeed,omitempty" db:"avg_speed"`
	AvgMovingSpeed *float64 `json:"avgMovingSpeed,omitempty" db:"avg_moving_speed"`

	MinAltitude   *float64 `json:"minAltitude,omitempty" db:"min_altitude"`
	MaxAltitude   *float64 `json:"maxAltitude,omitempty" db:"max_altitude"`
	ElevationGain *float64 `json:"elevationGain,omitempty" db:"elevation_gain"`
	ElevationLoss *float64 `json:"elevationLoss,omitempty" db:"elevation_loss"`

	AvgHeartRate   *float64 `json:"avgHeartRate,omitempty" db:"avg_heart_rate"`
	MaxHeartRate   *float64 `json:"maxHeartRate,omitempty" db:"max_heart_rate"`
	AvgCadence     *float64 `json:"avgCadence,omitempty" db:"avg_cadence"`
	MaxCadence     *float64 `json:"maxCadence,omitempty" db:"max_cadence"`
	AvgPower       *float64 `json:"avgPower,omitempty" db:"avg_power"`
	MaxPower       *float64 `json:"maxPower,omitempty" db:"max_power"`
	AvgTemperature *float64 `json:"avgTemperature,omitempty" db:"avg_temperature"`
	MinTemperature *float64 `json:"minTemperature,omitempty" db:"min_temperature"`
	MaxTemperature *float64 `json:"maxTemperature,omitempty" db:"max_temperature"`
}

// Interval is one fixed-distance slice of an activity.
type Interval struct {
	Index    int      `json:"index"`
	Distance float64  `json:"distance"` // meters
	Time     float64  `json:"time"`     // seconds
	AvgSpeed *float64 `json:"avgSpeed,omitempty"`
	MaxSpeed *float64 `json:"maxSpeed,omitempty"`

	ElevationGain *float64 `json:"elevationGain,omitempty"`
	ElevationLoss *float64 `json:"elevationLoss,omitempty"`
	AvgHeartRate  *float64 `json:"avgHeartRate,omitempty"`
	AvgCadence    *float64 `json:"avgCadence,omitempty"`
	AvgPower      *float64 `json:"avgPower,omitempty"`
}

// HrZones is the time spent per heart-rate zone. Zones[i] is the time with
// i thresholds at or below the heart rate, so there is one more zone than
// thresholds. All durations are milliseconds.
type HrZones struct {
	Thresholds []float64 `json:"thresholds"`
	Zones      []int64   `json:"zones"`
	Unknown    int64     `json:"unknown"`
	Total      int64     `json:"total"`
}
