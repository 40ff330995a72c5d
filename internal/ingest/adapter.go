// Package ingest decodes GPX and FIT recordings into segmented track points.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jengzang/trackcore-go/internal/models"
)

// Supported formats
const (
	FormatGPX = "gpx"
	FormatFIT = "fit"
)

var (
	// ErrUnsupportedFormat is returned when the content matches no adapter.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidFile is matched by every ParseError.
	ErrInvalidFile = errors.New("invalid file")
	// ErrEmptyTrack is returned when no point survives segmentation.
	ErrEmptyTrack = errors.New("empty track")
)

// ParseError reports a whole-file decoding failure.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s file: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidFile) hold for any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidFile }

// Metadata is the file-level information of a recording.
type Metadata struct {
	Name         string
	Description  string
	Category     models.Category
	RecordedWith models.RecordedWith
	Source       string
}

// Result is a decoded recording: its metadata and the committed points,
// numbered by temporal segment.
type Result struct {
	Format   string
	Metadata Metadata
	Points   []models.TrackPoint
}

// Sample is one raw point as produced by an adapter, before validation.
type Sample struct {
	Latitude  *float64
	Longitude *float64
	Time      *time.Time

	Speed         *float64
	Altitude      *float64
	ElevationGain *float64
	ElevationLoss *float64
	HeartRate     *float64
	Cadence       *float64
	Power         *float64
	Temperature   *float64
}

// Adapter decodes one file format.
type Adapter interface {
	Format() string
	Parse(r io.Reader) (*Result, error)
}

func finish(format string, meta Metadata, seg *Segmenter) (*Result, error) {
	points := seg.Close()
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: %w", format, ErrEmptyTrack)
	}
	if meta.Category == "" {
		meta.Category = models.CategoryUnknown
	}
	return &Result{Format: format, Metadata: meta, Points: points}, nil
}
