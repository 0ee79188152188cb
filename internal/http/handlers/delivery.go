package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type DeliveryHandler struct {
	delivery services.DeliveryService
}

func NewDeliveryHandler(delivery services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: delivery}
}

func (h *DeliveryHandler) Redeem(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	code, err := h.delivery.Redeem(c.Request.Context(), guestID, req.Code)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, code)
}

func (h *DeliveryHandler) GenerateCodes(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	codes, err := h.delivery.GenerateCodes(c.Request.Context(), venueID, req.Count)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"codes": codes})
}
