package guest

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type VenueRepo interface {
	Create(ctx context.Context, tx *gorm.DB, venues []*types.Venue) ([]*types.Venue, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Venue, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Venue, error)
}

type venueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVenueRepo(db *gorm.DB, baseLog *logger.Logger) VenueRepo {
	return &venueRepo{db: db, log: baseLog.With("repo", "VenueRepo")}
}

func (r *venueRepo) Create(ctx context.Context, tx *gorm.DB, venues []*types.Venue) ([]*types.Venue, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(venues) == 0 {
		return []*types.Venue{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *venueRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Venue, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Venue
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *venueRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Venue, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Venue
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
