package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
	"github.com/venuepoint/loyalty-backend/internal/services"
)

type stubAuthService struct {
	claims map[string]*services.AdminClaims
}

func (s *stubAuthService) Register(ctx context.Context, venueID uuid.UUID, email, password string) (*types.AdminUser, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAuthService) ParseToken(tokenString string) (*services.AdminClaims, error) {
	if claims, ok := s.claims[tokenString]; ok {
		return claims, nil
	}
	return nil, errors.New("token is malformed")
}

func (s *stubAuthService) AccessTTL() time.Duration { return time.Hour }

func authTestRouter(t *testing.T, auth services.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)

	r := gin.New()
	am := NewAuthMiddleware(log, auth)
	r.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"admin_id": AdminID(c).String(),
			"venue_id": VenueID(c).String(),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	adminID := uuid.New()
	venueID := uuid.New()
	auth := &stubAuthService{claims: map[string]*services.AdminClaims{
		"good":     {AdminID: adminID, VenueID: venueID},
		"no-admin": {VenueID: venueID},
	}}
	r := authTestRouter(t, auth)

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "malformed token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "bad header shape", header: "good", wantStatus: http.StatusUnauthorized},
		{name: "valid bearer token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "valid query token", query: "?token=good", wantStatus: http.StatusOK},
		{name: "claims without admin", header: "Bearer no-admin", wantStatus: http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d body=%s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAdminIDOutsideAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if AdminID(c) != uuid.Nil {
		t.Fatalf("expected Nil admin outside RequireAuth")
	}
	if VenueID(c) != uuid.Nil {
		t.Fatalf("expected Nil venue outside RequireAuth")
	}
}
