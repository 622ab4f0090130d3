// internal/interfaces/http/handlers/stream.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/your-org/restaurant-backend/internal/realtime"
)

// StreamHandler exposes the broadcast hub as server-sent event streams.
// Guests follow their session channel; staff dashboards follow the store
// channel.
type StreamHandler struct {
	hub    *realtime.Hub
	config *config.Config
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hub *realtime.Hub, cfg *config.Config) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		config: cfg,
	}
}

// SessionStream handles GET /sessions/:id/stream
func (h *StreamHandler) SessionStream(c *gin.Context) {
	h.stream(c, realtime.SessionChannel(c.Param("id")))
}

// StoreStream handles GET /store/stream
func (h *StreamHandler) StoreStream(c *gin.Context) {
	storeID, _ := middleware.GetStoreIDFromContext(c)
	h.stream(c, realtime.StoreChannel(storeID))
}

// stream pipes hub events to the client until it disconnects or the hub
// shuts down.
func (h *StreamHandler) stream(c *gin.Context, channelKey string) {
	sub := h.hub.Subscribe(channelKey)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case evt, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(evt.Name, evt)
			return true
		}
	})
}
