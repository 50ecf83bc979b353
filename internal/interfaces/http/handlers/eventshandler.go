package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recurra-io/recurra/internal/infrastructure/pubsub"
	"github.com/recurra-io/recurra/internal/shared/logger"
	"github.com/recurra-io/recurra/internal/shared/utils"
)

// EventsHandler serves the per-user SSE stream. Each connection gets its own
// bus subscription; a named heartbeat event keeps idle connections open
// through proxies and lets clients detect a stalled stream.
type EventsHandler struct {
	bus               *pubsub.UserEventBus
	heartbeatInterval time.Duration
	logger            logger.Interface
}

func NewEventsHandler(bus *pubsub.UserEventBus, heartbeatInterval time.Duration, log logger.Interface) *EventsHandler {
	if heartbeatInterval <= 0 {
		heartbeatInterval = 30 * time.Second
	}
	return &EventsHandler{
		bus:               bus,
		heartbeatInterval: heartbeatInterval,
		logger:            log.Named("events-handler"),
	}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sub := h.bus.Subscribe(userID)
	defer h.bus.Unsubscribe(sub)

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				// Bus shut down.
				return
			}
			c.SSEvent(string(event.Kind), event)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}
