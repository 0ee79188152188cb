package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type InventoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.InventoryItem) (*types.InventoryItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.InventoryItem, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.InventoryItem, error)
	Activate(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, at time.Time) error
	ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]types.InventoryItem, error)
	// ListActiveByGuest returns items whose activation window still covers now.
	ListActiveByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, now time.Time) ([]types.InventoryItem, error)
}

type inventoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInventoryRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRepo {
	return &inventoryRepo{db: db, log: baseLog.With("repo", "InventoryRepo")}
}

func (r *inventoryRepo) Create(ctx context.Context, tx *gorm.DB, item *types.InventoryItem) (*types.InventoryItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.InventoryItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.InventoryItem
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *inventoryRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.InventoryItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.InventoryItem
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *inventoryRepo) Activate(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.InventoryItem{}).
		Where("id = ? AND activated_at IS NULL", itemID).
		Update("activated_at", at).Error
}

func (r *inventoryRepo) ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]types.InventoryItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.InventoryItem
	if err := transaction.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *inventoryRepo) ListActiveByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, now time.Time) ([]types.InventoryItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.InventoryItem
	if err := transaction.WithContext(ctx).
		Where("guest_id = ? AND activated_at IS NOT NULL", guestID).
		Order("activated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	// Window arithmetic stays in Go so sqlite and postgres agree on it.
	active := results[:0]
	for _, item := range results {
		if item.Status(now) == types.ItemActive {
			active = append(active, item)
		}
	}
	return active, nil
}
