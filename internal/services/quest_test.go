package services

import (
	"context"
	"errors"
	"testing"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

func TestQuestActivateAndComplete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "quest-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	quest := testutil.SeedQuest(t, ctx, e.tx, venue.ID, 500)

	// Completing without an open window fails.
	if _, err := e.quests.Complete(ctx, guest.ID, quest.ID, nil); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("complete without activation: want ErrNotFound got=%v", err)
	}

	sub, err := e.quests.Activate(ctx, guest.ID, quest.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if sub.ActivatedAt == nil {
		t.Fatalf("submission has no activation time: %+v", sub)
	}

	// Re-activating returns the same open window.
	again, err := e.quests.Activate(ctx, guest.ID, quest.ID)
	if err != nil {
		t.Fatalf("re-activate: %v", err)
	}
	if again.ID != sub.ID {
		t.Fatalf("re-activation opened a new window: %s vs %s", again.ID, sub.ID)
	}

	entry, err := e.quests.Complete(ctx, guest.ID, quest.ID, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if entry.Source != types.SourceQuest || entry.Amount != 500 {
		t.Fatalf("reward entry: %+v", entry)
	}
	balance, err := e.ledger.Balance(ctx, guest.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 500 {
		t.Fatalf("balance: want=500 got=%d", balance)
	}

	// A completed quest cannot be activated again.
	if _, err := e.quests.Activate(ctx, guest.ID, quest.ID); !errors.Is(err, types.ErrAlreadyUsed) {
		t.Fatalf("activate after completion: want ErrAlreadyUsed got=%v", err)
	}
}

func TestQuestCompleteArmsCooldown(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "quest-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	first := testutil.SeedQuest(t, ctx, e.tx, venue.ID, 100)
	second := testutil.SeedQuest(t, ctx, e.tx, venue.ID, 200)

	if _, err := e.quests.Activate(ctx, guest.ID, first.ID); err != nil {
		t.Fatalf("activate first: %v", err)
	}
	if _, err := e.quests.Activate(ctx, guest.ID, second.ID); err != nil {
		t.Fatalf("activate second: %v", err)
	}
	if _, err := e.quests.Complete(ctx, guest.ID, first.ID, nil); err != nil {
		t.Fatalf("complete first: %v", err)
	}

	// The quest cooldown spans quests; the second completion waits.
	_, err := e.quests.Complete(ctx, guest.ID, second.ID, nil)
	var cdErr *types.CooldownActiveError
	if !errors.As(err, &cdErr) {
		t.Fatalf("want CooldownActiveError got=%v", err)
	}
	if cdErr.Domain != types.CooldownQuest {
		t.Fatalf("cooldown domain: want=quest got=%s", cdErr.Domain)
	}
}

func TestQuestForeignVenue(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "quest-venue")
	other := testutil.SeedVenue(t, ctx, e.tx, "other-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	foreign := testutil.SeedQuest(t, ctx, e.tx, other.ID, 100)

	if _, err := e.quests.Activate(ctx, guest.ID, foreign.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("foreign quest: want ErrNotFound got=%v", err)
	}
}
