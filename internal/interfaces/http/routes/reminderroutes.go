package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/recurra-io/recurra/internal/interfaces/http/handlers"
	"github.com/recurra-io/recurra/internal/interfaces/http/middleware"
)

// ReminderRouteConfig holds dependencies for reminder routes.
type ReminderRouteConfig struct {
	ReminderHandler *handlers.ReminderHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// SetupReminderRoutes configures the reminder routes.
func SetupReminderRoutes(engine *gin.Engine, cfg *ReminderRouteConfig) {
	reminders := engine.Group("/api/reminders")
	reminders.Use(cfg.AuthMiddleware.RequireAuth())
	{
		reminders.GET("", cfg.ReminderHandler.List)

		reminders.POST("/:id/answer", cfg.ReminderHandler.Answer)
		reminders.POST("/:id/snooze", cfg.ReminderHandler.Snooze)
		reminders.DELETE("/:id", cfg.ReminderHandler.Delete)
	}
}
