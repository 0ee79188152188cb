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

type QuestHandler struct {
	quests services.QuestService
}

func NewQuestHandler(quests services.QuestService) *QuestHandler {
	return &QuestHandler{quests: quests}
}

func (h *QuestHandler) List(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	quests, err := h.quests.ListQuests(c.Request.Context(), venueID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quests": quests})
}

func (h *QuestHandler) Activate(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	questID, ok := parseIDParam(c, "questId")
	if !ok {
		return
	}
	submission, err := h.quests.Activate(c.Request.Context(), guestID, questID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, submission)
}

func (h *QuestHandler) Complete(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	questID, ok := parseIDParam(c, "questId")
	if !ok {
		return
	}
	var req struct {
		ServedByID *uuid.UUID `json:"served_by_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.quests.Complete(c.Request.Context(), guestID, questID, req.ServedByID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entry": entry})
}
