// Package routes wires the HTTP handlers onto the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/recurra-io/recurra/internal/interfaces/http/handlers"
	"github.com/recurra-io/recurra/internal/interfaces/http/middleware"
)

// TrackingRouteConfig holds dependencies for tracking routes.
type TrackingRouteConfig struct {
	TrackingHandler *handlers.TrackingHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// SetupTrackingRoutes configures the tracking lifecycle routes.
func SetupTrackingRoutes(engine *gin.Engine, cfg *TrackingRouteConfig) {
	trackings := engine.Group("/api/trackings")
	trackings.Use(cfg.AuthMiddleware.RequireAuth())
	{
		trackings.GET("", cfg.TrackingHandler.List)
		trackings.POST("", cfg.TrackingHandler.Create)

		trackings.GET("/:id", cfg.TrackingHandler.Get)
		trackings.PATCH("/:id", cfg.TrackingHandler.Update)
		trackings.POST("/:id/state", cfg.TrackingHandler.ChangeState)
		trackings.DELETE("/:id", cfg.TrackingHandler.Delete)
	}
}
