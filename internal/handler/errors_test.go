package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/trackcore-go/internal/elevation"
	"github.com/jengzang/trackcore-go/internal/fitenc"
	"github.com/jengzang/trackcore-go/internal/ingest"
	"github.com/jengzang/trackcore-go/internal/matching"
	"github.com/jengzang/trackcore-go/internal/repository"
	"github.com/jengzang/trackcore-go/internal/service"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("activity 3: %w", repository.ErrNotFound), http.StatusNotFound},
		{&ingest.ParseError{Format: ingest.FormatGPX, Err: errors.New("EOF")}, http.StatusBadRequest},
		{fmt.Errorf("failed to import: %w", ingest.ErrUnsupportedFormat), http.StatusBadRequest},
		{ingest.ErrEmptyTrack, http.StatusBadRequest},
		{matching.ErrEmptyRoute, http.StatusBadRequest},
		{fitenc.ErrNoWaypoints, http.StatusBadRequest},
		{service.ErrNoElevationService, http.StatusServiceUnavailable},
		{fmt.Errorf("batch 0-500: %w", elevation.ErrService), http.StatusBadGateway},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}
