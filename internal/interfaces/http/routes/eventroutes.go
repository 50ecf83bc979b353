package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/recurra-io/recurra/internal/interfaces/http/handlers"
	"github.com/recurra-io/recurra/internal/interfaces/http/middleware"
)

// EventRouteConfig holds dependencies for the SSE stream route.
type EventRouteConfig struct {
	EventsHandler  *handlers.EventsHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupEventRoutes configures the per-user event stream route.
func SetupEventRoutes(engine *gin.Engine, cfg *EventRouteConfig) {
	events := engine.Group("/api/events")
	events.Use(cfg.AuthMiddleware.RequireAuth())
	{
		events.GET("", cfg.EventsHandler.Stream)
	}
}
