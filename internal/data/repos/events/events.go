package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type OutcomeEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.OutcomeEvent) (*types.OutcomeEvent, error)
	ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, limit int) ([]types.OutcomeEvent, error)
	ListByVenueSince(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, since time.Time) ([]types.OutcomeEvent, error)
}

type outcomeEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutcomeEventRepo(db *gorm.DB, baseLog *logger.Logger) OutcomeEventRepo {
	return &outcomeEventRepo{db: db, log: baseLog.With("repo", "OutcomeEventRepo")}
}

func (r *outcomeEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.OutcomeEvent) (*types.OutcomeEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (r *outcomeEventRepo) ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, limit int) ([]types.OutcomeEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []types.OutcomeEvent
	err := transaction.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *outcomeEventRepo) ListByVenueSince(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, since time.Time) ([]types.OutcomeEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.OutcomeEvent
	err := transaction.WithContext(ctx).
		Where("venue_id = ? AND created_at >= ?", venueID, since).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
