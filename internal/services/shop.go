package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	catalogdom "github.com/venuepoint/loyalty-backend/internal/domain/catalog"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// ShopService sells catalog products for points. A purchase spends from
// the ledger and drops the product into the guest's inventory, gated by
// the shop cooldown.
type ShopService interface {
	ListProducts(ctx context.Context, venueID uuid.UUID) ([]types.Product, error)
	Buy(ctx context.Context, guestID, productID uuid.UUID) (*types.InventoryItem, error)
}

type shopService struct {
	db        *gorm.DB
	log       *logger.Logger
	guests    repos.GuestProfileRepo
	products  repos.ProductRepo
	inventory repos.InventoryRepo
	cooldowns CooldownService
	ledger    LedgerService
	now       func() time.Time
}

func NewShopService(
	db *gorm.DB,
	log *logger.Logger,
	guests repos.GuestProfileRepo,
	products repos.ProductRepo,
	inventory repos.InventoryRepo,
	cooldowns CooldownService,
	ledger LedgerService,
) ShopService {
	return &shopService{
		db:        db,
		log:       log.With("service", "ShopService"),
		guests:    guests,
		products:  products,
		inventory: inventory,
		cooldowns: cooldowns,
		ledger:    ledger,
		now:       time.Now,
	}
}

func (s *shopService) ListProducts(ctx context.Context, venueID uuid.UUID) ([]types.Product, error) {
	return s.products.ListActiveByVenue(ctx, nil, venueID)
}

func (s *shopService) Buy(ctx context.Context, guestID, productID uuid.UUID) (*types.InventoryItem, error) {
	now := s.now()
	var item *types.InventoryItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, guestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		cooldown, err := s.cooldowns.Gate(ctx, tx, guest.ID, types.CooldownShop, now)
		if err != nil {
			return err
		}

		product, err := s.products.GetByID(ctx, tx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !product.IsActive || product.VenueID != guest.VenueID {
			return types.ErrNotFound
		}
		if product.IsTicketPrize {
			// Prize products are claimed through tickets, never bought.
			return types.ErrNotFound
		}

		if _, err := s.ledger.SpendTx(ctx, tx, guest.ID, product.Price, types.SourceShop,
			fmt.Sprintf("purchase: %s", product.Name)); err != nil {
			return err
		}

		item = &types.InventoryItem{
			ID:           uuid.New(),
			GuestID:      guest.ID,
			ProductID:    product.ID,
			AcquiredFrom: types.AcquireBuy,
			Duration:     catalogdom.DefaultItemWindow,
		}
		if _, err := s.inventory.Create(ctx, tx, item); err != nil {
			return err
		}

		return s.cooldowns.Arm(ctx, tx, cooldown, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product bought", "guestID", guestID, "productID", productID)
	return item, nil
}
