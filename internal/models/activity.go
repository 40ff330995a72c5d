package models

import "time"

// RecordedWith identifies the device or software that produced a recording.
type RecordedWith string

const (
	RecordedWithUnknown    RecordedWith = ""
	RecordedWithOpenTracks RecordedWith = "OpenTracks"
	RecordedWithGarmin     RecordedWith = "Garmin"
)

// Activity is one imported recording together with its aggregate statistics.
type Activity struct {
	ID           int64        `json:"id" db:"id"`
	UUID         string       `json:"uuid" db:"uuid"`
	Name         string       `json:"name" db:"name"`
	Description  string       `json:"description,omitempty" db:"description"`
	Category     Category     `json:"category" db:"category"`
	RecordedWith RecordedWith `json:"recordedWith,omitempty" db:"recorded_with"`
	Source       string       `json:"source,omitempty" db:"source"` // device or software detail

	Stats Stats `json:"stats"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ActivityFilter represents filter parameters for listing activities
type ActivityFilter struct {
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
