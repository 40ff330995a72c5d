package handler

import (
	"math"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trackcore-go/internal/config"
	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/service"
	"github.com/jengzang/trackcore-go/pkg/response"
)

// ActivityHandler handles HTTP requests for activities
type ActivityHandler struct {
	activities  *service.ActivityService
	imports     *service.ImportService
	segments    *service.SegmentService
	corrections *service.CorrectionService
	zones       []float64
}

// NewActivityHandler creates a new activity handler. zones are the heart
// rate thresholds used when a request names none.
func NewActivityHandler(activities *service.ActivityService, imports *service.ImportService,
	segments *service.SegmentService, corrections *service.CorrectionService, zones []float64) *ActivityHandler {
	return &ActivityHandler{
		activities:  activities,
		imports:     imports,
		segments:    segments,
		corrections: corrections,
		zones:       zones,
	}
}

// Import handles POST /api/v1/activities with a multipart "file" field
func (h *ActivityHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, "Failed to read upload", err)
		return
	}
	defer f.Close()

	activity, err := h.imports.Import(c.Request.Context(), fh.Filename, f)
	if err != nil {
		writeError(c, "Failed to import activity", err)
		return
	}
	response.Created(c, activity)
}

// List handles GET /api/v1/activities
func (h *ActivityHandler) List(c *gin.Context) {
	var filter models.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	activities, total, err := h.activities.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, "Failed to list activities", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	response.Success(c, response.Page{
		Items:      activities,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	})
}

// Get handles GET /api/v1/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	activity, err := h.activities.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to get activity", err)
		return
	}
	response.Success(c, activity)
}

// Delete handles DELETE /api/v1/activities/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.activities.Delete(c.Request.Context(), id); err != nil {
		writeError(c, "Failed to delete activity", err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// Points handles GET /api/v1/activities/:id/points
func (h *ActivityHandler) Points(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var query struct {
		Page     int `form:"page"`
		PageSize int `form:"pageSize"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	points, err := h.activities.Points(c.Request.Context(), id, query.Page, query.PageSize)
	if err != nil {
		writeError(c, "Failed to get track points", err)
		return
	}
	response.Success(c, points)
}

// Intervals handles GET /api/v1/activities/:id/intervals?meters=1000
func (h *ActivityHandler) Intervals(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var query struct {
		Meters float64 `form:"meters,default=1000"`
	}
	if err := c.ShouldBindQuery(&query); err != nil || query.Meters <= 0 {
		response.BadRequest(c, "Invalid interval length", err)
		return
	}

	intervals, err := h.activities.Intervals(c.Request.Context(), id, query.Meters)
	if err != nil {
		writeError(c, "Failed to compute intervals", err)
		return
	}
	response.Success(c, intervals)
}

// HrZones handles GET /api/v1/activities/:id/hrzones?zones=120,140,160
func (h *ActivityHandler) HrZones(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	zones := h.zones
	if raw := c.Query("zones"); raw != "" {
		parsed, err := config.ParseZones(raw)
		if err != nil {
			response.BadRequest(c, "Invalid zones", err)
			return
		}
		zones = parsed
	}

	result, err := h.activities.HrZones(c.Request.Context(), id, zones)
	if err != nil {
		writeError(c, "Failed to compute heart rate zones", err)
		return
	}
	response.Success(c, result)
}

// Segments handles GET /api/v1/activities/:id/segments
func (h *ActivityHandler) Segments(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if _, err := h.activities.Get(c.Request.Context(), id); err != nil {
		writeError(c, "Failed to get activity", err)
		return
	}
	tracks, err := h.segments.ActivitySegments(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to get segment tracks", err)
		return
	}
	response.Success(c, tracks)
}

// RefilterGainLoss handles POST /api/v1/activities/:id/corrections/gainloss
func (h *ActivityHandler) RefilterGainLoss(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	activity, err := h.corrections.RefilterGainLoss(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to refilter elevation gain and loss", err)
		return
	}
	response.Success(c, activity)
}

// CorrectAltitude handles POST /api/v1/activities/:id/corrections/altitude
func (h *ActivityHandler) CorrectAltitude(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	activity, err := h.corrections.CorrectAltitude(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to correct altitude", err)
		return
	}
	response.Success(c, activity)
}
