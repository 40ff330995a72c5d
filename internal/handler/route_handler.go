package handler

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trackcore-go/internal/models"
	"github.com/jengzang/trackcore-go/internal/service"
	"github.com/jengzang/trackcore-go/pkg/response"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RouteHandler handles HTTP requests for routes and their leaderboards
type RouteHandler struct {
	segments *service.SegmentService
	exports  *service.ExportService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(segments *service.SegmentService, exports *service.ExportService) *RouteHandler {
	return &RouteHandler{segments: segments, exports: exports}
}

// CreateRouteRequest is the body of POST /api/v1/routes
type CreateRouteRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Points   []struct {
		Latitude  float64  `json:"latitude" binding:"min=-90,max=90"`
		Longitude float64  `json:"longitude" binding:"min=-180,max=180"`
		Altitude  *float64 `json:"altitude"`
	} `json:"points" binding:"required,min=1,dive"`
}

// Create handles POST /api/v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid route", err)
		return
	}

	route := &models.Route{Name: req.Name, Category: models.ParseCategory(req.Category)}
	for _, p := range req.Points {
		route.Points = append(route.Points, models.RoutePoint{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Altitude:  p.Altitude,
		})
	}

	if err := h.segments.CreateRoute(c.Request.Context(), route); err != nil {
		writeError(c, "Failed to create route", err)
		return
	}
	response.Created(c, route)
}

// List handles GET /api/v1/routes
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.segments.ListRoutes(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list routes", err)
		return
	}
	if routes == nil {
		routes = []models.Route{}
	}
	response.Success(c, routes)
}

// Get handles GET /api/v1/routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	route, err := h.segments.GetRoute(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to get route", err)
		return
	}
	response.Success(c, route)
}

// Delete handles DELETE /api/v1/routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.segments.DeleteRoute(c.Request.Context(), id); err != nil {
		writeError(c, "Failed to delete route", err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// Leaderboard handles GET /api/v1/routes/:id/leaderboard?limit=10
func (h *RouteHandler) Leaderboard(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var query struct {
		Limit int `form:"limit,default=10"`
	}
	if err := c.ShouldBindQuery(&query); err != nil || query.Limit < 0 {
		response.BadRequest(c, "Invalid limit", err)
		return
	}

	board, err := h.segments.Leaderboard(c.Request.Context(), id, query.Limit)
	if err != nil {
		writeError(c, "Failed to get leaderboard", err)
		return
	}
	if board == nil {
		board = []models.SegmentTrack{}
	}
	response.Success(c, board)
}

// Search handles POST /api/v1/routes/:id/search
func (h *RouteHandler) Search(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	found, err := h.segments.SearchRoute(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to search route", err)
		return
	}
	if found == nil {
		found = []models.SegmentTrack{}
	}
	response.Success(c, found)
}

// FIT handles GET /api/v1/routes/:id/fit
func (h *RouteHandler) FIT(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	route, data, err := h.exports.SegmentFIT(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to export route", err)
		return
	}

	name := unsafeFilename.ReplaceAllString(route.Name, "_")
	if name == "" || name == "_" {
		name = fmt.Sprintf("route-%d", route.ID)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.fit"`, name))
	c.Data(http.StatusOK, "application/vnd.ant.fit", data)
}
