package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type DailyCodeHandler struct {
	codes services.DailyCodeService
	now   func() time.Time
}

func NewDailyCodeHandler(codes services.DailyCodeService) *DailyCodeHandler {
	return &DailyCodeHandler{codes: codes, now: time.Now}
}

// Today ensures a code exists for the venue's current day and returns it.
// Operators hit this when printing table cards in the morning.
func (h *DailyCodeHandler) Today(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dc, err := h.codes.EnsureForDate(c.Request.Context(), venueID, h.now().UTC())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, dc)
}

type overrideCodeRequest struct {
	Date string `json:"date"`
	Code string `json:"code"`
}

func (h *DailyCodeHandler) Override(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req overrideCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingField("code"))
		return
	}
	date := h.now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		date = parsed
	}
	dc, err := h.codes.Override(c.Request.Context(), venueID, date, strings.TrimSpace(req.Code))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, dc)
}
