package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type CooldownHandler struct {
	cooldowns services.CooldownService
	now       func() time.Time
}

func NewCooldownHandler(cooldowns services.CooldownService) *CooldownHandler {
	return &CooldownHandler{cooldowns: cooldowns, now: time.Now}
}

func (h *CooldownHandler) Status(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	domain, ok := parseCooldownDomain(c)
	if !ok {
		return
	}
	remaining, err := h.cooldowns.Status(c.Request.Context(), guestID, domain, h.now())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	secs := int64(remaining / time.Second)
	if remaining%time.Second > 0 {
		secs++
	}
	response.RespondOK(c, gin.H{
		"domain":            domain,
		"active":            remaining > 0,
		"seconds_remaining": secs,
	})
}

func (h *CooldownHandler) Clear(c *gin.Context) {
	guestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	domain, ok := parseCooldownDomain(c)
	if !ok {
		return
	}
	if err := h.cooldowns.Clear(c.Request.Context(), guestID, domain); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"domain": domain, "cleared": true})
}

func parseCooldownDomain(c *gin.Context) (types.CooldownDomain, bool) {
	raw := strings.ToLower(strings.TrimSpace(c.Param("domain")))
	switch types.CooldownDomain(raw) {
	case types.CooldownGame, types.CooldownQuest, types.CooldownShop, types.CooldownInventory:
		return types.CooldownDomain(raw), true
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("unknown cooldown domain %q", raw))
	return "", false
}
