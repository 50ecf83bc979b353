// Package http assembles the gin engine from handlers and middleware.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/recurra-io/recurra/internal/infrastructure/config"
	"github.com/recurra-io/recurra/internal/interfaces/http/handlers"
	"github.com/recurra-io/recurra/internal/interfaces/http/middleware"
	"github.com/recurra-io/recurra/internal/interfaces/http/routes"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// Dependencies carries everything the router mounts.
type Dependencies struct {
	Config          *config.Config
	TrackingHandler *handlers.TrackingHandler
	ReminderHandler *handlers.ReminderHandler
	EventsHandler   *handlers.EventsHandler
	HealthHandler   *handlers.HealthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Logger          logger.Interface
}

// Router wraps the gin engine with the application's route table.
type Router struct {
	engine *gin.Engine
	deps   *Dependencies
}

func NewRouter(deps *Dependencies) *Router {
	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(deps.Logger))
	engine.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))

	return &Router{engine: engine, deps: deps}
}

// SetupRoutes mounts every route group on the engine.
func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", r.deps.HealthHandler.Check)

	routes.SetupTrackingRoutes(r.engine, &routes.TrackingRouteConfig{
		TrackingHandler: r.deps.TrackingHandler,
		AuthMiddleware:  r.deps.AuthMiddleware,
	})
	routes.SetupReminderRoutes(r.engine, &routes.ReminderRouteConfig{
		ReminderHandler: r.deps.ReminderHandler,
		AuthMiddleware:  r.deps.AuthMiddleware,
	})
	routes.SetupEventRoutes(r.engine, &routes.EventRouteConfig{
		EventsHandler:  r.deps.EventsHandler,
		AuthMiddleware: r.deps.AuthMiddleware,
	})
}

// GetEngine exposes the underlying engine for the HTTP server.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
