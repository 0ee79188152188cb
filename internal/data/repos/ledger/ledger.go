package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type LedgerRepo interface {
	// Append writes one immutable entry. There is no update or delete on
	// this repo on purpose.
	Append(ctx context.Context, tx *gorm.DB, entry *types.LedgerEntry) (*types.LedgerEntry, error)
	// Balance aggregates the guest's full history: sum(EARN) - sum(SPEND).
	Balance(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (int64, error)
	CountByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (int64, error)
	ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, limit int) ([]*types.LedgerEntry, error)
}

type ledgerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedgerRepo(db *gorm.DB, baseLog *logger.Logger) LedgerRepo {
	return &ledgerRepo{db: db, log: baseLog.With("repo", "LedgerRepo")}
}

func (r *ledgerRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.LedgerEntry) (*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *ledgerRepo) Balance(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var balance int64
	err := transaction.WithContext(ctx).
		Model(&types.LedgerEntry{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE -amount END), 0)", types.DirectionEarn).
		Where("guest_id = ?", guestID).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *ledgerRepo) CountByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LedgerEntry{}).
		Where("guest_id = ?", guestID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ledgerRepo) ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, limit int) ([]*types.LedgerEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.LedgerEntry
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
