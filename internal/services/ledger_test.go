package services

import (
	"context"
	"errors"
	"testing"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

func TestLedgerEarnSpendBalance(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "ledger-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.ledger.Earn(ctx, guest.ID, 1000, types.SourceManual, "welcome bonus"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if _, err := e.ledger.Earn(ctx, guest.ID, 500, types.SourceGame, "game reward"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if _, err := e.ledger.Spend(ctx, guest.ID, 300, types.SourceShop, "purchase"); err != nil {
		t.Fatalf("spend: %v", err)
	}

	balance, err := e.ledger.Balance(ctx, guest.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1200 {
		t.Fatalf("balance: want=1200 got=%d", balance)
	}

	history, err := e.ledger.History(ctx, guest.ID, 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length: want=3 got=%d", len(history))
	}
}

func TestLedgerSpendInsufficientFundsWritesNothing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "ledger-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.ledger.Earn(ctx, guest.ID, 100, types.SourceManual, "seed"); err != nil {
		t.Fatalf("earn: %v", err)
	}

	_, err := e.ledger.Spend(ctx, guest.ID, 101, types.SourceShop, "too expensive")
	if !errors.Is(err, types.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds got=%v", err)
	}

	history, err := e.ledger.History(ctx, guest.ID, 50)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("failed spend left a ledger row: entries=%d", len(history))
	}
	balance, err := e.ledger.Balance(ctx, guest.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("balance after failed spend: want=100 got=%d", balance)
	}
}

func TestLedgerExactBalanceSpend(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "ledger-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.ledger.Earn(ctx, guest.ID, 250, types.SourceManual, "seed"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if _, err := e.ledger.Spend(ctx, guest.ID, 250, types.SourceShop, "all in"); err != nil {
		t.Fatalf("spend to zero: %v", err)
	}
	balance, err := e.ledger.Balance(ctx, guest.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("balance: want=0 got=%d", balance)
	}
}

func TestLedgerRejectsZeroAmounts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "ledger-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.ledger.Earn(ctx, guest.ID, 0, types.SourceManual, "nothing"); err == nil {
		t.Fatalf("zero earn accepted")
	}
	if _, err := e.ledger.Spend(ctx, guest.ID, 0, types.SourceManual, "nothing"); err == nil {
		t.Fatalf("zero spend accepted")
	}
}

func TestLedgerUnknownGuest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.ledger.Earn(ctx, testutil.SeedVenue(t, ctx, e.tx, "v").ID, 10, types.SourceManual, "x")
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("want ErrNotFound got=%v", err)
	}
}
