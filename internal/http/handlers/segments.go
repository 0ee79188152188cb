package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/http/response"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type SegmentHandler struct {
	segmentation services.SegmentationService
	now          func() time.Time
}

func NewSegmentHandler(segmentation services.SegmentationService) *SegmentHandler {
	return &SegmentHandler{segmentation: segmentation, now: time.Now}
}

func (h *SegmentHandler) ListGrid(c *gin.Context) {
	grid, err := h.segmentation.ListGrid(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"segments": grid})
}

// SaveGrid replaces the whole segment grid in one shot. Partial edits are
// not supported because the grid must stay a disjoint cover.
func (h *SegmentHandler) SaveGrid(c *gin.Context) {
	var req struct {
		Segments []types.RFSegment `json:"segments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.Segments) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingField("segments"))
		return
	}
	grid, err := h.segmentation.SaveGrid(c.Request.Context(), req.Segments)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"segments": grid})
}

func (h *SegmentHandler) RecomputeVenue(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	stats, err := h.segmentation.RecomputeVenue(c.Request.Context(), venueID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (h *SegmentHandler) RecomputeAll(c *gin.Context) {
	stats, err := h.segmentation.RecomputeAll(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

func (h *SegmentHandler) ResetStats(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.segmentation.ResetStats(c.Request.Context(), venueID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reset": true})
}

func (h *SegmentHandler) MigrationStats(c *gin.Context) {
	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	days := queryInt(c, "days", 30)
	if days < 1 {
		days = 1
	}
	since := h.now().UTC().AddDate(0, 0, -days)
	stats, err := h.segmentation.MigrationStats(c.Request.Context(), venueID, since)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, stats)
}
