package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Venue(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dash, err := h.dashboard.Venue(c.Request.Context(), venueID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, dash)
}
