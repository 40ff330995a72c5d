// Package handler exposes the services over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trackcore-go/internal/elevation"
	"github.com/jengzang/trackcore-go/internal/fitenc"
	"github.com/jengzang/trackcore-go/internal/ingest"
	"github.com/jengzang/trackcore-go/internal/matching"
	"github.com/jengzang/trackcore-go/internal/repository"
	"github.com/jengzang/trackcore-go/internal/service"
	"github.com/jengzang/trackcore-go/pkg/response"
)

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingest.ErrInvalidFile),
		errors.Is(err, ingest.ErrUnsupportedFormat),
		errors.Is(err, ingest.ErrEmptyTrack),
		errors.Is(err, matching.ErrEmptyRoute),
		errors.Is(err, fitenc.ErrNoWaypoints):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoElevationService):
		return http.StatusServiceUnavailable
	case errors.Is(err, elevation.ErrService):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, message string, err error) {
	response.Error(c, statusOf(err), message, err)
}

// paramID parses the :id path parameter, answering 400 when it is invalid.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "Invalid ID", nil)
		return 0, false
	}
	return id, true
}
