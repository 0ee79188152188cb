package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

func TestGuestResolveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "guest-venue")

	first, err := e.guests.Resolve(ctx, venue.ID, "card-001")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	again, err := e.guests.Resolve(ctx, venue.ID, "card-001")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first.ID != again.ID {
		t.Fatalf("resolve created a second profile: %s vs %s", first.ID, again.ID)
	}

	// The same ref at another venue is a distinct guest.
	other := testutil.SeedVenue(t, ctx, e.tx, "other-venue")
	foreign, err := e.guests.Resolve(ctx, other.ID, "card-001")
	if err != nil {
		t.Fatalf("resolve other venue: %v", err)
	}
	if foreign.ID == first.ID {
		t.Fatalf("external ref leaked across venues")
	}

	if _, err := e.guests.Resolve(ctx, venue.ID, "   "); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("blank ref: want ErrNotFound got=%v", err)
	}
}

func TestGuestOverview(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "guest-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.ledger.Earn(ctx, guest.ID, 750, types.SourceManual, "seed"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if _, err := e.game.Play(ctx, PlayInput{GuestID: guest.ID}); err != nil {
		t.Fatalf("play: %v", err)
	}

	overview, err := e.guests.Overview(ctx, guest.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Balance != 750 {
		t.Fatalf("balance: want=750 got=%d", overview.Balance)
	}
	if overview.Attempts != 1 {
		t.Fatalf("attempts: want=1 got=%d", overview.Attempts)
	}
	if len(overview.Tickets) != 1 {
		t.Fatalf("tickets: want=1 got=%d", len(overview.Tickets))
	}
	if overview.Cooldowns[types.CooldownGame] <= 0 {
		t.Fatalf("game cooldown not reported: %+v", overview.Cooldowns)
	}
	if overview.Cooldowns[types.CooldownShop] != 0 {
		t.Fatalf("shop cooldown should be idle: %+v", overview.Cooldowns)
	}
}

func TestDeliveryRedeemOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "delivery-venue")
	guestA := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	guestB := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	codes, err := e.delivery.GenerateCodes(ctx, venue.ID, 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(codes) != 3 {
		t.Fatalf("codes: want=3 got=%d", len(codes))
	}

	if _, err := e.delivery.Redeem(ctx, guestA.ID, codes[0].Code); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if _, err := e.delivery.Redeem(ctx, guestB.ID, codes[0].Code); !errors.Is(err, types.ErrAlreadyUsed) {
		t.Fatalf("second redeem: want ErrAlreadyUsed got=%v", err)
	}
	if _, err := e.delivery.Redeem(ctx, guestA.ID, "NOPE"); !errors.Is(err, types.ErrInvalidCode) {
		t.Fatalf("unknown code: want ErrInvalidCode got=%v", err)
	}

	isDelivery, err := e.delivery.IsDeliveryGuest(ctx, guestA.ID)
	if err != nil {
		t.Fatalf("is delivery: %v", err)
	}
	if !isDelivery {
		t.Fatalf("redeeming guest not flagged as delivery guest")
	}
	isDelivery, err = e.delivery.IsDeliveryGuest(ctx, guestB.ID)
	if err != nil {
		t.Fatalf("is delivery: %v", err)
	}
	if isDelivery {
		t.Fatalf("failed redeem flagged guest as delivery guest")
	}
}

func TestDailyCodeProvisioning(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venueA := testutil.SeedVenue(t, ctx, e.tx, "code-venue-a")
	venueB := testutil.SeedVenue(t, ctx, e.tx, "code-venue-b")

	today := time.Now().UTC()
	first, err := e.dailyCodes.EnsureForDate(ctx, venueA.ID, today)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	again, err := e.dailyCodes.EnsureForDate(ctx, venueA.ID, today)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if first.Code != again.Code {
		t.Fatalf("ensure regenerated the code: %s vs %s", first.Code, again.Code)
	}

	// ProvisionAll fills only venues still missing a code.
	fresh, err := e.dailyCodes.ProvisionAll(ctx, today)
	if err != nil {
		t.Fatalf("provision all: %v", err)
	}
	if fresh != 1 {
		t.Fatalf("fresh codes: want=1 got=%d", fresh)
	}

	overridden, err := e.dailyCodes.Override(ctx, venueB.ID, today, "table7")
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if overridden.Code != "TABLE7" {
		t.Fatalf("override not normalized: %s", overridden.Code)
	}
}
