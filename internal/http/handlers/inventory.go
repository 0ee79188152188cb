package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type InventoryHandler struct {
	inventory services.InventoryService
}

func NewInventoryHandler(inventory services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) List(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	items, err := h.inventory.List(c.Request.Context(), guestID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

func (h *InventoryHandler) Activate(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	item, err := h.inventory.Activate(c.Request.Context(), guestID, itemID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, item)
}
