package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/venuepoint/loyalty-backend/internal/http/middleware"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream holds the connection open and pushes venue events as SSE frames.
// The venue channel is derived from the admin's token, not the URL, so an
// operator can only ever subscribe to their own venue.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	client := h.hub.NewClient(middleware.AdminID(c))
	h.hub.AddChannel(client, middleware.VenueID(c).String())

	m := observability.Current()
	m.SSEClientsInc()
	defer m.SSEClientsDec()
	defer h.hub.RemoveClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
