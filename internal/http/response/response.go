package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	// SecondsRemaining is set only for cooldown_active errors.
	SecondsRemaining int64 `json:"seconds_remaining,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondDomainError maps the business error taxonomy onto stable HTTP
// codes. Anything outside the taxonomy is an infrastructure failure and
// surfaces as a 500.
func RespondDomainError(c *gin.Context, err error) {
	var cd *types.CooldownActiveError
	if errors.As(err, &cd) {
		c.JSON(http.StatusTooManyRequests, ErrorEnvelope{
			Error: APIError{
				Message:          cd.Error(),
				Code:             "cooldown_active",
				SecondsRemaining: cd.SecondsRemaining,
			},
		})
		return
	}

	var ae *apierr.Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		RespondError(c, status, ae.Code, err)
		return
	}

	switch {
	case errors.Is(err, types.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, types.ErrInsufficientFunds):
		RespondError(c, http.StatusConflict, "insufficient_funds", err)
	case errors.Is(err, types.ErrInvalidCode):
		RespondError(c, http.StatusUnprocessableEntity, "invalid_code", err)
	case errors.Is(err, types.ErrAlreadyClaimed):
		RespondError(c, http.StatusConflict, "already_claimed", err)
	case errors.Is(err, types.ErrAlreadyUsed):
		RespondError(c, http.StatusConflict, "already_used", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
