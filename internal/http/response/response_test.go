package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/apierr"
)

func respondTo(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondDomainError(c, err)

	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, env
}

func TestRespondDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", types.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("load guest: %w", types.ErrNotFound), http.StatusNotFound, "not_found"},
		{"insufficient funds", types.ErrInsufficientFunds, http.StatusConflict, "insufficient_funds"},
		{"invalid code", types.ErrInvalidCode, http.StatusUnprocessableEntity, "invalid_code"},
		{"already claimed", types.ErrAlreadyClaimed, http.StatusConflict, "already_claimed"},
		{"already used", types.ErrAlreadyUsed, http.StatusConflict, "already_used"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := respondTo(t, tc.err)
			if status != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, status)
			}
			if env.Error.Code != tc.wantCode {
				t.Fatalf("code: want=%s got=%s", tc.wantCode, env.Error.Code)
			}
		})
	}
}

func TestRespondDomainErrorCooldown(t *testing.T) {
	err := &types.CooldownActiveError{Domain: types.CooldownGame, SecondsRemaining: 3600}
	status, env := respondTo(t, fmt.Errorf("play: %w", err))
	if status != http.StatusTooManyRequests {
		t.Fatalf("status: want=429 got=%d", status)
	}
	if env.Error.Code != "cooldown_active" {
		t.Fatalf("code: want=cooldown_active got=%s", env.Error.Code)
	}
	if env.Error.SecondsRemaining != 3600 {
		t.Fatalf("seconds_remaining: want=3600 got=%d", env.Error.SecondsRemaining)
	}
}

func TestRespondDomainErrorAPIError(t *testing.T) {
	err := &apierr.Error{Status: http.StatusForbidden, Code: "wrong_venue", Err: errors.New("guest belongs to another venue")}
	status, env := respondTo(t, err)
	if status != http.StatusForbidden {
		t.Fatalf("status: want=403 got=%d", status)
	}
	if env.Error.Code != "wrong_venue" {
		t.Fatalf("code: want=wrong_venue got=%s", env.Error.Code)
	}
}
