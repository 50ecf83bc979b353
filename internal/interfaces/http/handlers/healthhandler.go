package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recurra-io/recurra/internal/infrastructure/database"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check reports liveness plus a database ping.
func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	gdb := database.Get()
	if gdb == nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	} else if sqlDB, err := gdb.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status})
}
