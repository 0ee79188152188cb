package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type GuestHandler struct {
	guests services.GuestService
}

func NewGuestHandler(guests services.GuestService) *GuestHandler {
	return &GuestHandler{guests: guests}
}

// Resolve maps an external guest reference onto a profile, creating one
// on first sight. The identity system owns the reference; this side only
// mirrors it.
func (h *GuestHandler) Resolve(c *gin.Context) {
	var req struct {
		VenueID     uuid.UUID `json:"venue_id"`
		ExternalRef string    `json:"external_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.ExternalRef == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingField("external_ref"))
		return
	}
	profile, err := h.guests.Resolve(c.Request.Context(), req.VenueID, req.ExternalRef)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *GuestHandler) Overview(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	overview, err := h.guests.Overview(c.Request.Context(), guestID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, overview)
}
