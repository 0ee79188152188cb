package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	gamedom "github.com/venuepoint/loyalty-backend/internal/domain/game"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type DeliveryCodeRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, codes []types.DeliveryCode) ([]types.DeliveryCode, error)
	// LockByCode fetches a code row under FOR UPDATE by its normalized value.
	LockByCode(ctx context.Context, tx *gorm.DB, code string) (*types.DeliveryCode, error)
	Redeem(ctx context.Context, tx *gorm.DB, codeID, guestID uuid.UUID, at time.Time) error
	// HasRedeemed reports whether the guest ever redeemed a delivery code.
	HasRedeemed(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (bool, error)
}

type deliveryCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeliveryCodeRepo(db *gorm.DB, baseLog *logger.Logger) DeliveryCodeRepo {
	return &deliveryCodeRepo{db: db, log: baseLog.With("repo", "DeliveryCodeRepo")}
}

func (r *deliveryCodeRepo) CreateBatch(ctx context.Context, tx *gorm.DB, codes []types.DeliveryCode) ([]types.DeliveryCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	for i := range codes {
		codes[i].Code = gamedom.NormalizeCode(codes[i].Code)
	}
	if err := transaction.WithContext(ctx).Create(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *deliveryCodeRepo) LockByCode(ctx context.Context, tx *gorm.DB, code string) (*types.DeliveryCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.DeliveryCode
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", gamedom.NormalizeCode(code)).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *deliveryCodeRepo) Redeem(ctx context.Context, tx *gorm.DB, codeID, guestID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DeliveryCode{}).
		Where("id = ? AND redeemed_at IS NULL", codeID).
		Updates(map[string]interface{}{
			"redeemed_by_id": guestID,
			"redeemed_at":    at,
		}).Error
}

func (r *deliveryCodeRepo) HasRedeemed(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.DeliveryCode{}).
		Where("redeemed_by_id = ?", guestID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
