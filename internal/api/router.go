// Package api assembles the HTTP server.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/config"
	"github.com/jengzang/trackcore-go/internal/correction"
	"github.com/jengzang/trackcore-go/internal/handler"
	"github.com/jengzang/trackcore-go/internal/middleware"
	"github.com/jengzang/trackcore-go/internal/service"
)

// Upload limit per client
const (
	ImportLimit  = 30
	ImportWindow = time.Minute
	// MaxUploadSize bounds the multipart memory of one import.
	MaxUploadSize = 64 << 20
)

// SetupRouter builds the services on db and mounts them under /api/v1.
// lookup may be nil when no elevation service is configured.
func SetupRouter(cfg *config.Config, db *sql.DB, lookup correction.ElevationLookup, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = MaxUploadSize
	r.Use(gin.Recovery(), middleware.Logger(log))

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	svc := service.New(db, lookup, log)
	activityHandler := handler.NewActivityHandler(svc.Activities, svc.Imports, svc.Segments, svc.Corrections, cfg.Zones())
	routeHandler := handler.NewRouteHandler(svc.Segments, svc.Exports)
	taskHandler := handler.NewTaskHandler(svc.Tasks)

	auth := middleware.JWTAuth(cfg.JWTSecret)
	importLimit := middleware.RateLimit(middleware.NewRateLimiter(ImportLimit, ImportWindow))

	v1 := r.Group("/api/v1")
	{
		ag := v1.Group("/activities")
		ag.GET("", activityHandler.List)
		ag.GET("/:id", activityHandler.Get)
		ag.GET("/:id/points", activityHandler.Points)
		ag.GET("/:id/intervals", activityHandler.Intervals)
		ag.GET("/:id/hrzones", activityHandler.HrZones)
		ag.GET("/:id/segments", activityHandler.Segments)
		ag.POST("", auth, importLimit, activityHandler.Import)
		ag.DELETE("/:id", auth, activityHandler.Delete)
		ag.POST("/:id/corrections/gainloss", auth, activityHandler.RefilterGainLoss)
		ag.POST("/:id/corrections/altitude", auth, activityHandler.CorrectAltitude)

		rg := v1.Group("/routes")
		rg.GET("", routeHandler.List)
		rg.GET("/:id", routeHandler.Get)
		rg.GET("/:id/leaderboard", routeHandler.Leaderboard)
		rg.GET("/:id/fit", routeHandler.FIT)
		rg.POST("", auth, routeHandler.Create)
		rg.DELETE("/:id", auth, routeHandler.Delete)
		rg.POST("/:id/search", auth, routeHandler.Search)

		v1.GET("/tasks/:id", taskHandler.Get)
	}

	return r
}
