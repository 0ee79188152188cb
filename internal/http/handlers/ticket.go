package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type TicketHandler struct {
	tickets services.TicketService
}

func NewTicketHandler(tickets services.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

func (h *TicketHandler) ListUnclaimed(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tickets, err := h.tickets.ListUnclaimed(c.Request.Context(), guestID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tickets": tickets})
}

func (h *TicketHandler) ListPrizes(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	prizes, err := h.tickets.ListPrizes(c.Request.Context(), venueID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"prizes": prizes})
}

func (h *TicketHandler) Claim(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ticket, err := h.tickets.Claim(c.Request.Context(), guestID, req.ProductID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, ticket)
}

// Grant hands out manual and birthday tickets; game tickets only ever
// come from plays.
func (h *TicketHandler) Grant(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var source types.TicketSource
	switch strings.ToUpper(strings.TrimSpace(req.Source)) {
	case string(types.TicketSourceManual), "":
		source = types.TicketSourceManual
	case string(types.TicketSourceBirthday):
		source = types.TicketSourceBirthday
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("unknown ticket source %q", req.Source))
		return
	}
	ticket, err := h.tickets.Grant(c.Request.Context(), guestID, source)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, ticket)
}
