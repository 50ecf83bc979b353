package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recurra-io/recurra/internal/domain/shared/events"
	"github.com/recurra-io/recurra/internal/infrastructure/pubsub"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func newStreamContext(t *testing.T, ctx context.Context, userID uint) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	c.Set("user_id", userID)
	return c, w
}

func TestEventsHandlerStream(t *testing.T) {
	t.Run("emits named events and heartbeats", func(t *testing.T) {
		bus := pubsub.NewUserEventBus(8, newNopLogger())
		defer bus.Close()
		h := NewEventsHandler(bus, 20*time.Millisecond, newNopLogger())

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		c, w := newStreamContext(t, ctx, 1)

		go func() {
			time.Sleep(40 * time.Millisecond)
			bus.Publish(events.Event{Kind: events.KindReminderDuePending, UserID: 1, OccurredAt: time.Now().UTC()})
		}()

		h.Stream(c)

		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		body := w.Body.String()
		assert.Contains(t, body, "event:connected")
		assert.Contains(t, body, "event:reminder_due_pending")
		// The heartbeat is a named event, not an SSE comment, so clients
		// listening for it actually receive it.
		assert.Contains(t, body, "event:heartbeat")
		assert.NotContains(t, body, ": heartbeat")
	})

	t.Run("closing the bus ends the stream", func(t *testing.T) {
		bus := pubsub.NewUserEventBus(8, newNopLogger())
		h := NewEventsHandler(bus, time.Hour, newNopLogger())

		c, _ := newStreamContext(t, context.Background(), 1)

		done := make(chan struct{})
		go func() {
			h.Stream(c)
			close(done)
		}()

		time.Sleep(20 * time.Millisecond)
		bus.Close()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("stream did not end after bus close")
		}
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		bus := pubsub.NewUserEventBus(8, newNopLogger())
		defer bus.Close()
		h := NewEventsHandler(bus, time.Hour, newNopLogger())

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/events", nil)

		h.Stream(c)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
