package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type LedgerHandler struct {
	ledger services.LedgerService
}

func NewLedgerHandler(ledger services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) Balance(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	balance, err := h.ledger.Balance(c.Request.Context(), guestID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"guest_id": guestID, "balance": balance})
}

func (h *LedgerHandler) History(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 50)
	entries, err := h.ledger.History(c.Request.Context(), guestID, limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entries": entries})
}

// Earn and Spend are the manual adjustment paths for operators; the
// game, quest and shop flows post their own entries.
func (h *LedgerHandler) Earn(c *gin.Context) {
	h.adjust(c, h.ledger.Earn)
}

func (h *LedgerHandler) Spend(c *gin.Context) {
	h.adjust(c, h.ledger.Spend)
}

func (h *LedgerHandler) adjust(c *gin.Context, apply func(ctx context.Context, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error)) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Amount      uint   `json:"amount"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := apply(c.Request.Context(), guestID, req.Amount, types.SourceManual, req.Description)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}
