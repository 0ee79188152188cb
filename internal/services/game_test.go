package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

// expireGameCooldown rewinds the game cooldown so the next play is
// allowed, exercising the read-side expiry instead of Clear.
func expireGameCooldown(t *testing.T, e *env, guestID uuid.UUID) {
	t.Helper()
	res := e.tx.Model(&types.Cooldown{}).
		Where("guest_id = ? AND domain = ?", guestID, types.CooldownGame).
		Update("last_activated_at", time.Now().Add(-19*time.Hour))
	if res.Error != nil {
		t.Fatalf("rewind cooldown: %v", res.Error)
	}
	if res.RowsAffected != 1 {
		t.Fatalf("rewind cooldown: rows=%d", res.RowsAffected)
	}
}

func TestGamePlayProgression(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "game-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	// First play grants the super prize ticket.
	res, err := e.game.Play(ctx, PlayInput{GuestID: guest.ID})
	if err != nil {
		t.Fatalf("first play: %v", err)
	}
	if res.Outcome.Type != types.OutcomePrize {
		t.Fatalf("first play outcome: want=prize got=%s", res.Outcome.Type)
	}
	if res.Ticket == nil || res.Ticket.Source != types.TicketSourceGame {
		t.Fatalf("first play ticket missing or wrong source: %+v", res.Ticket)
	}

	// The armed cooldown blocks an immediate replay.
	_, err = e.game.Play(ctx, PlayInput{GuestID: guest.ID})
	var cdErr *types.CooldownActiveError
	if !errors.As(err, &cdErr) {
		t.Fatalf("want CooldownActiveError got=%v", err)
	}
	if cdErr.Domain != types.CooldownGame || cdErr.SecondsRemaining <= 0 {
		t.Fatalf("cooldown error payload: %+v", cdErr)
	}

	// Second play after expiry grants 2000 coins.
	expireGameCooldown(t, e, guest.ID)
	res, err = e.game.Play(ctx, PlayInput{GuestID: guest.ID})
	if err != nil {
		t.Fatalf("second play: %v", err)
	}
	if res.Outcome.Type != types.OutcomeCoin || res.Outcome.Amount != 2000 {
		t.Fatalf("second play outcome: want 2000 coins got=%+v", res.Outcome)
	}
	if res.Entry == nil || res.Entry.Source != types.SourceGame {
		t.Fatalf("second play ledger entry: %+v", res.Entry)
	}
	balance, err := e.ledger.Balance(ctx, guest.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 2000 {
		t.Fatalf("balance after second play: want=2000 got=%d", balance)
	}

	// Third play without a code is a free retry: nothing recorded.
	expireGameCooldown(t, e, guest.ID)
	res, err = e.game.Play(ctx, PlayInput{GuestID: guest.ID})
	if err != nil {
		t.Fatalf("third play without code: %v", err)
	}
	if res.Outcome.Type != types.OutcomeCodeRequired {
		t.Fatalf("third play outcome: want=code_required got=%s", res.Outcome.Type)
	}

	// A wrong code fails validation, still nothing recorded.
	if _, err := e.dailyCodes.Override(ctx, venue.ID, time.Now(), "RIGHT1"); err != nil {
		t.Fatalf("override daily code: %v", err)
	}
	_, err = e.game.Play(ctx, PlayInput{GuestID: guest.ID, Code: "WRONG1"})
	if !errors.Is(err, types.ErrInvalidCode) {
		t.Fatalf("want ErrInvalidCode got=%v", err)
	}

	// The right code resolves the third tier, case-insensitively.
	res, err = e.game.Play(ctx, PlayInput{GuestID: guest.ID, Code: " right1 "})
	if err != nil {
		t.Fatalf("third play with code: %v", err)
	}
	if res.Outcome.Type != types.OutcomeCoin || res.Outcome.Amount != 700 {
		t.Fatalf("third play outcome: want 700 coins got=%+v", res.Outcome)
	}

	// Fourth play pays the 300 tier.
	expireGameCooldown(t, e, guest.ID)
	res, err = e.game.Play(ctx, PlayInput{GuestID: guest.ID, Code: "RIGHT1"})
	if err != nil {
		t.Fatalf("fourth play: %v", err)
	}
	if res.Outcome.Amount != 300 {
		t.Fatalf("fourth play amount: want=300 got=%d", res.Outcome.Amount)
	}

	// Fifth and beyond settle at 1000.
	expireGameCooldown(t, e, guest.ID)
	res, err = e.game.Play(ctx, PlayInput{GuestID: guest.ID, Code: "RIGHT1"})
	if err != nil {
		t.Fatalf("fifth play: %v", err)
	}
	if res.Outcome.Amount != 1000 {
		t.Fatalf("fifth play amount: want=1000 got=%d", res.Outcome.Amount)
	}
}

func TestGamePlayDeliveryGuestSkipsCode(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "game-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	codes, err := e.delivery.GenerateCodes(ctx, venue.ID, 1)
	if err != nil {
		t.Fatalf("generate delivery codes: %v", err)
	}
	if _, err := e.delivery.Redeem(ctx, guest.ID, codes[0].Code); err != nil {
		t.Fatalf("redeem delivery code: %v", err)
	}

	// Burn the first two tiers.
	for i := 0; i < 2; i++ {
		if _, err := e.game.Play(ctx, PlayInput{GuestID: guest.ID}); err != nil {
			t.Fatalf("play %d: %v", i+1, err)
		}
		expireGameCooldown(t, e, guest.ID)
	}

	// Third play needs no code for a delivery guest.
	res, err := e.game.Play(ctx, PlayInput{GuestID: guest.ID})
	if err != nil {
		t.Fatalf("third play: %v", err)
	}
	if res.Outcome.Type != types.OutcomeCoin || res.Outcome.Amount != 700 {
		t.Fatalf("delivery third play: want 700 coins got=%+v", res.Outcome)
	}
}

func TestGamePlayUnknownGuest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.game.Play(ctx, PlayInput{GuestID: uuid.New()})
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("want ErrNotFound got=%v", err)
	}
}
