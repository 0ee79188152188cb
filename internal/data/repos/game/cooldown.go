package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	gamedom "github.com/venuepoint/loyalty-backend/internal/domain/game"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type CooldownRepo interface {
	Get(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain) (*types.Cooldown, error)
	// GetOrCreate bootstraps the (guest, domain) row with the domain's
	// default duration. The created flag lets callers react to a fresh
	// row differently from an existing one. Callers must already hold the
	// guest row lock; two concurrent bootstraps of the same pair are
	// otherwise possible.
	GetOrCreate(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain) (cooldown *types.Cooldown, created bool, err error)
	// Touch arms the cooldown at the given instant.
	Touch(ctx context.Context, tx *gorm.DB, cooldownID uuid.UUID, at time.Time) error
	// Clear disarms the cooldown so the action is immediately available.
	Clear(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain) error
}

type cooldownRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCooldownRepo(db *gorm.DB, baseLog *logger.Logger) CooldownRepo {
	return &cooldownRepo{db: db, log: baseLog.With("repo", "CooldownRepo")}
}

func (r *cooldownRepo) Get(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain) (*types.Cooldown, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Cooldown
	if err := transaction.WithContext(ctx).
		Where("guest_id = ? AND domain = ?", guestID, domain).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *cooldownRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain) (*types.Cooldown, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Cooldown
	err := transaction.WithContext(ctx).
		Where("guest_id = ? AND domain = ?", guestID, domain).
		First(&result).Error
	if err == nil {
		return &result, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fresh := &types.Cooldown{
		GuestID:  guestID,
		Domain:   domain,
		Duration: gamedom.DefaultDuration(domain),
	}
	if err := transaction.WithContext(ctx).Create(fresh).Error; err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

func (r *cooldownRepo) Touch(ctx context.Context, tx *gorm.DB, cooldownID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Cooldown{}).
		Where("id = ?", cooldownID).
		Update("last_activated_at", at).Error
}

func (r *cooldownRepo) Clear(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Cooldown{}).
		Where("guest_id = ? AND domain = ?", guestID, domain).
		Update("last_activated_at", nil).Error
}
