package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
	ListActiveByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) ([]types.Product, error)
	ListTicketPrizesByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) ([]types.Product, error)
	Update(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Product
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *productRepo) ListActiveByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Product
	if err := transaction.WithContext(ctx).
		Where("venue_id = ? AND is_active = ?", venueID, true).
		Order("price ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) ListTicketPrizesByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) ([]types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Product
	if err := transaction.WithContext(ctx).
		Where("venue_id = ? AND is_active = ? AND is_ticket_prize = ?", venueID, true, true).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) Update(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}
