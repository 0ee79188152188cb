package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// InventoryView is an item with its clock-derived status attached.
type InventoryView struct {
	types.InventoryItem
	Status          types.ItemStatus `json:"status"`
	SecondsLeft     int64            `json:"seconds_left"`
	ProductName     string           `json:"product_name"`
	ProductInactive bool             `json:"product_inactive"`
}

// InventoryService lists a guest's items and starts activation windows.
// Activation is gated by the inventory cooldown so a guest cannot burn
// their whole inventory in one sitting.
type InventoryService interface {
	List(ctx context.Context, guestID uuid.UUID) ([]InventoryView, error)
	Activate(ctx context.Context, guestID, itemID uuid.UUID) (*InventoryView, error)
}

type inventoryService struct {
	db        *gorm.DB
	log       *logger.Logger
	guests    repos.GuestProfileRepo
	inventory repos.InventoryRepo
	products  repos.ProductRepo
	cooldowns CooldownService
	now       func() time.Time
}

func NewInventoryService(
	db *gorm.DB,
	log *logger.Logger,
	guests repos.GuestProfileRepo,
	inventory repos.InventoryRepo,
	products repos.ProductRepo,
	cooldowns CooldownService,
) InventoryService {
	return &inventoryService{
		db:        db,
		log:       log.With("service", "InventoryService"),
		guests:    guests,
		inventory: inventory,
		products:  products,
		cooldowns: cooldowns,
		now:       time.Now,
	}
}

func (s *inventoryService) List(ctx context.Context, guestID uuid.UUID) ([]InventoryView, error) {
	now := s.now()
	items, err := s.inventory.ListByGuest(ctx, nil, guestID)
	if err != nil {
		return nil, err
	}
	views := make([]InventoryView, 0, len(items))
	for _, item := range items {
		views = append(views, s.view(ctx, item, now))
	}
	return views, nil
}

func (s *inventoryService) Activate(ctx context.Context, guestID, itemID uuid.UUID) (*InventoryView, error) {
	now := s.now()
	var view InventoryView

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, guestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		cooldown, err := s.cooldowns.Gate(ctx, tx, guest.ID, types.CooldownInventory, now)
		if err != nil {
			return err
		}

		item, err := s.inventory.LockByID(ctx, tx, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}
		if item.GuestID != guest.ID {
			return types.ErrNotFound
		}
		if item.ActivatedAt != nil {
			return types.ErrAlreadyUsed
		}

		if err := s.inventory.Activate(ctx, tx, item.ID, now); err != nil {
			return err
		}
		item.ActivatedAt = &now

		if err := s.cooldowns.Arm(ctx, tx, cooldown, now); err != nil {
			return err
		}
		view = s.view(ctx, *item, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("inventory item activated", "guestID", guestID, "itemID", itemID)
	return &view, nil
}

func (s *inventoryService) view(ctx context.Context, item types.InventoryItem, now time.Time) InventoryView {
	v := InventoryView{
		InventoryItem: item,
		Status:        item.Status(now),
	}
	if v.Status == types.ItemActive && item.ActivatedAt != nil {
		v.SecondsLeft = int64(item.ActivatedAt.Add(item.Duration).Sub(now) / time.Second)
	}
	if product, err := s.products.GetByID(ctx, nil, item.ProductID); err == nil {
		v.ProductName = product.Name
		v.ProductInactive = !product.IsActive
	}
	return v
}
