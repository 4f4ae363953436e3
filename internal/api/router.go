package api

import (
	"context"

	"github.com/cineradar/cinepoint-sync/internal/api/handler"
	"github.com/cineradar/cinepoint-sync/internal/api/middleware"
	"github.com/cineradar/cinepoint-sync/internal/config"
	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is everything the status API reads from the store.
type Store interface {
	handler.Pinger
	handler.StatusStore
	handler.RecordStore
}

// Deps carries the services the router wires into handlers.
type Deps struct {
	// Ctx bounds background syncs started over HTTP.
	Ctx    context.Context
	Store  Store
	Runner handler.DailyTrigger
	Logger *logger.Logger
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Deps, cfg config.ServerConfig) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	log := deps.Logger
	if log == nil {
		log = logger.GetDefault()
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler(deps.Store)
	syncHandler := handler.NewSyncHandler(deps.Store)
	recordHandler := handler.NewRecordHandler(deps.Store)
	adminHandler := handler.NewAdminHandler(deps.Ctx, deps.Runner, log)

	// Health check
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Sync history
		v1.GET("/sync-logs", syncHandler.ListSyncLogs)

		// Stats
		v1.GET("/stats", syncHandler.GetStats)

		// Stored records
		v1.GET("/movies/:id", recordHandler.GetMovie)
		v1.GET("/box-office", recordHandler.ListBoxOffice)

		// Daily sync trigger
		v1.POST("/sync/daily", adminHandler.TriggerDailySync)
		v1.GET("/sync/status", adminHandler.GetSyncStatus)
	}

	return r
}
