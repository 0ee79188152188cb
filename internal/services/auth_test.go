package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

func newAuthEnv(t *testing.T) (AuthService, *env) {
	t.Helper()
	e := newEnv(t)
	log := testutil.Logger(t)
	admins := repos.NewAdminUserRepo(e.tx, log)
	return NewAuthService(e.tx, log, admins, "test-secret", time.Hour), e
}

func TestAuthRegisterLoginParse(t *testing.T) {
	ctx := context.Background()
	auth, e := newAuthEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "auth-venue")

	admin, err := auth.Register(ctx, venue.ID, "  Owner@Venue.example ", "s3cretpass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if admin.Email != "owner@venue.example" {
		t.Fatalf("email not normalized: %s", admin.Email)
	}
	if admin.Password == "s3cretpass" {
		t.Fatalf("password stored in clear")
	}

	token, err := auth.Login(ctx, "owner@venue.example", "s3cretpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.AdminID != admin.ID || claims.VenueID != venue.ID {
		t.Fatalf("claims: %+v", claims)
	}

	if _, err := auth.Login(ctx, "owner@venue.example", "wrongpass"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("wrong password: want ErrNotFound got=%v", err)
	}
	if _, err := auth.Login(ctx, "nobody@venue.example", "s3cretpass"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("unknown admin: want ErrNotFound got=%v", err)
	}
	if _, err := auth.ParseToken(token + "tampered"); err == nil {
		t.Fatalf("tampered token accepted")
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	ctx := context.Background()
	auth, e := newAuthEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "auth-venue")

	if _, err := auth.Register(ctx, venue.ID, "", "s3cretpass"); err == nil {
		t.Fatalf("empty email accepted")
	}
	if _, err := auth.Register(ctx, venue.ID, "a@b.example", "short"); err == nil {
		t.Fatalf("short password accepted")
	}
}
