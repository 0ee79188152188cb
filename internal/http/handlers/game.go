package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type GameHandler struct {
	game services.GameService
}

func NewGameHandler(game services.GameService) *GameHandler {
	return &GameHandler{game: game}
}

func (h *GameHandler) Play(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Code       string     `json:"code"`
		ServedByID *uuid.UUID `json:"served_by_id"`
	}
	// An empty body is a play without a code.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.game.Play(c.Request.Context(), services.PlayInput{
		GuestID:    guestID,
		Code:       req.Code,
		ServedByID: req.ServedByID,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, result)
}
