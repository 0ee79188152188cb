package guest

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type GuestProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.GuestProfile) ([]*types.GuestProfile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GuestProfile, error)
	GetByExternalRef(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, externalRef string) (*types.GuestProfile, error)
	// LockByID takes the guest's row lock. Callers hold it for the whole
	// economic operation; the row is the guest's mutex.
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GuestProfile, error)
}

type guestProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuestProfileRepo(db *gorm.DB, baseLog *logger.Logger) GuestProfileRepo {
	return &guestProfileRepo{db: db, log: baseLog.With("repo", "GuestProfileRepo")}
}

func (r *guestProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.GuestProfile) ([]*types.GuestProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(profiles) == 0 {
		return []*types.GuestProfile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *guestProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GuestProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.GuestProfile
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *guestProfileRepo) GetByExternalRef(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, externalRef string) (*types.GuestProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.GuestProfile
	if err := transaction.WithContext(ctx).
		Where("venue_id = ? AND external_ref = ?", venueID, externalRef).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *guestProfileRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GuestProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.GuestProfile
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
