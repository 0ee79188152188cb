package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

func seedPrizeProduct(t *testing.T, ctx context.Context, e *env, venueID uuid.UUID) *types.Product {
	t.Helper()
	p := &types.Product{
		ID:            uuid.New(),
		VenueID:       venueID,
		Name:          "super prize",
		IsActive:      true,
		IsTicketPrize: true,
	}
	if err := e.tx.WithContext(ctx).Create(p).Error; err != nil {
		t.Fatalf("seed prize product: %v", err)
	}
	return p
}

func TestTicketClaimIsTerminal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "ticket-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	prize := seedPrizeProduct(t, ctx, e, venue.ID)

	if _, err := e.tickets.Grant(ctx, guest.ID, types.TicketSourceManual); err != nil {
		t.Fatalf("grant: %v", err)
	}

	unclaimed, err := e.tickets.ListUnclaimed(ctx, guest.ID)
	if err != nil {
		t.Fatalf("list unclaimed: %v", err)
	}
	if len(unclaimed) != 1 {
		t.Fatalf("unclaimed: want=1 got=%d", len(unclaimed))
	}

	ticket, err := e.tickets.Claim(ctx, guest.ID, prize.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if ticket.ClaimedAt == nil || ticket.ProductID == nil || *ticket.ProductID != prize.ID {
		t.Fatalf("claimed ticket not marked: %+v", ticket)
	}

	// The prize lands in the inventory.
	items, err := e.inventory.List(ctx, guest.ID)
	if err != nil {
		t.Fatalf("inventory list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("inventory: want=1 item got=%d", len(items))
	}

	// No ticket is left, a second claim fails.
	if _, err := e.tickets.Claim(ctx, guest.ID, prize.ID); !errors.Is(err, types.ErrAlreadyClaimed) {
		t.Fatalf("second claim: want ErrAlreadyClaimed got=%v", err)
	}
}

func TestTicketClaimRejectsForeignAndRegularProducts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "ticket-venue")
	other := testutil.SeedVenue(t, ctx, e.tx, "other-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.tickets.Grant(ctx, guest.ID, types.TicketSourceManual); err != nil {
		t.Fatalf("grant: %v", err)
	}

	foreign := seedPrizeProduct(t, ctx, e, other.ID)
	if _, err := e.tickets.Claim(ctx, guest.ID, foreign.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("foreign venue prize: want ErrNotFound got=%v", err)
	}

	regular := testutil.SeedProduct(t, ctx, e.tx, venue.ID, 500)
	if _, err := e.tickets.Claim(ctx, guest.ID, regular.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("non-prize product: want ErrNotFound got=%v", err)
	}

	// Both rejections left the ticket unclaimed.
	unclaimed, err := e.tickets.ListUnclaimed(ctx, guest.ID)
	if err != nil {
		t.Fatalf("list unclaimed: %v", err)
	}
	if len(unclaimed) != 1 {
		t.Fatalf("ticket consumed by failed claim: unclaimed=%d", len(unclaimed))
	}
}

func TestBirthdayTicketOncePerGuest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "ticket-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	// No birth date on file, no birthday ticket.
	if _, err := e.tickets.Grant(ctx, guest.ID, types.TicketSourceBirthday); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("birthday without birth date: want ErrNotFound got=%v", err)
	}

	birth := testutil.PtrTime(guest.CreatedAt.AddDate(-21, 0, 0))
	if err := e.tx.WithContext(ctx).Model(&types.GuestProfile{}).
		Where("id = ?", guest.ID).Update("birth_date", birth).Error; err != nil {
		t.Fatalf("set birth date: %v", err)
	}

	if _, err := e.tickets.Grant(ctx, guest.ID, types.TicketSourceBirthday); err != nil {
		t.Fatalf("birthday grant: %v", err)
	}
	if _, err := e.tickets.Grant(ctx, guest.ID, types.TicketSourceBirthday); !errors.Is(err, types.ErrAlreadyUsed) {
		t.Fatalf("second birthday grant: want ErrAlreadyUsed got=%v", err)
	}

	// Manual grants stay unlimited.
	if _, err := e.tickets.Grant(ctx, guest.ID, types.TicketSourceManual); err != nil {
		t.Fatalf("manual grant: %v", err)
	}
	if _, err := e.tickets.Grant(ctx, guest.ID, types.TicketSourceManual); err != nil {
		t.Fatalf("second manual grant: %v", err)
	}
}
