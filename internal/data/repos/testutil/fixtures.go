package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedVenue(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Venue {
	tb.Helper()
	v := &types.Venue{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed venue: %v", err)
	}
	return v
}

func SeedGuest(tb testing.TB, ctx context.Context, tx *gorm.DB, venueID uuid.UUID) *types.GuestProfile {
	tb.Helper()
	g := &types.GuestProfile{
		ID:          uuid.New(),
		VenueID:     venueID,
		ExternalRef: fmt.Sprintf("ext-%s", uuid.NewString()[:8]),
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed guest: %v", err)
	}
	return g
}

func SeedLedgerEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, guestID uuid.UUID, direction types.LedgerDirection, amount uint) *types.LedgerEntry {
	tb.Helper()
	e := &types.LedgerEntry{
		ID:        uuid.New(),
		GuestID:   guestID,
		Direction: direction,
		Source:    types.SourceManual,
		Amount:    amount,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed ledger entry: %v", err)
	}
	return e
}

func SeedAttempt(tb testing.TB, ctx context.Context, tx *gorm.DB, guestID uuid.UUID, at time.Time) *types.Attempt {
	tb.Helper()
	a := &types.Attempt{
		ID:        uuid.New(),
		GuestID:   guestID,
		CreatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed attempt: %v", err)
	}
	return a
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, venueID uuid.UUID, price uint) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:       uuid.New(),
		VenueID:  venueID,
		Name:     "product",
		Price:    price,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedQuest(tb testing.TB, ctx context.Context, tx *gorm.DB, venueID uuid.UUID, reward uint) *types.Quest {
	tb.Helper()
	q := &types.Quest{
		ID:       uuid.New(),
		VenueID:  venueID,
		Name:     "quest",
		Reward:   reward,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quest: %v", err)
	}
	return q
}

func SeedSegment(tb testing.TB, ctx context.Context, tx *gorm.DB, code string, rMin, rMax, fMin, fMax int) *types.RFSegment {
	tb.Helper()
	s := &types.RFSegment{
		ID:           uuid.New(),
		Code:         code,
		Name:         code,
		RecencyMin:   rMin,
		RecencyMax:   rMax,
		FrequencyMin: fMin,
		FrequencyMax: fMax,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed segment: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
