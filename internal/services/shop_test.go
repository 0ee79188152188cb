package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

func TestShopBuyDebitsAndStocksInventory(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "shop-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	product := testutil.SeedProduct(t, ctx, e.tx, venue.ID, 800)

	if _, err := e.ledger.Earn(ctx, guest.ID, 1000, types.SourceManual, "seed"); err != nil {
		t.Fatalf("earn: %v", err)
	}

	item, err := e.shop.Buy(ctx, guest.ID, product.ID)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if item.ProductID != product.ID || item.AcquiredFrom != types.AcquireBuy {
		t.Fatalf("inventory item: %+v", item)
	}

	balance, err := e.ledger.Balance(ctx, guest.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 200 {
		t.Fatalf("balance after buy: want=200 got=%d", balance)
	}

	// The armed shop cooldown blocks an immediate second purchase.
	_, err = e.shop.Buy(ctx, guest.ID, product.ID)
	var cdErr *types.CooldownActiveError
	if !errors.As(err, &cdErr) {
		t.Fatalf("want CooldownActiveError got=%v", err)
	}
	if cdErr.Domain != types.CooldownShop {
		t.Fatalf("cooldown domain: want=shop got=%s", cdErr.Domain)
	}
}

func TestShopBuyInsufficientFundsIsAtomic(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "shop-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	product := testutil.SeedProduct(t, ctx, e.tx, venue.ID, 800)

	if _, err := e.ledger.Earn(ctx, guest.ID, 500, types.SourceManual, "seed"); err != nil {
		t.Fatalf("earn: %v", err)
	}

	_, err := e.shop.Buy(ctx, guest.ID, product.ID)
	if !errors.Is(err, types.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds got=%v", err)
	}

	// The failed purchase rolled everything back: no item, no debit, no
	// armed cooldown.
	items, err := e.inventory.List(ctx, guest.ID)
	if err != nil {
		t.Fatalf("inventory list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("inventory after failed buy: want=0 got=%d", len(items))
	}
	balance, err := e.ledger.Balance(ctx, guest.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 500 {
		t.Fatalf("balance after failed buy: want=500 got=%d", balance)
	}
	remaining, err := e.cooldowns.Status(ctx, guest.ID, types.CooldownShop, time.Now())
	if err != nil {
		t.Fatalf("cooldown status: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("cooldown armed by failed buy: %s left", remaining)
	}
}

func TestShopBuyRejectsInactiveForeignAndPrizeProducts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "shop-venue")
	other := testutil.SeedVenue(t, ctx, e.tx, "other-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	if _, err := e.ledger.Earn(ctx, guest.ID, 10000, types.SourceManual, "seed"); err != nil {
		t.Fatalf("earn: %v", err)
	}

	foreign := testutil.SeedProduct(t, ctx, e.tx, other.ID, 100)
	if _, err := e.shop.Buy(ctx, guest.ID, foreign.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("foreign product: want ErrNotFound got=%v", err)
	}

	inactive := testutil.SeedProduct(t, ctx, e.tx, venue.ID, 100)
	if err := e.tx.WithContext(ctx).Model(&types.Product{}).
		Where("id = ?", inactive.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}
	if _, err := e.shop.Buy(ctx, guest.ID, inactive.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("inactive product: want ErrNotFound got=%v", err)
	}

	prize := seedPrizeProduct(t, ctx, e, venue.ID)
	if _, err := e.shop.Buy(ctx, guest.ID, prize.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("prize product: want ErrNotFound got=%v", err)
	}
}
