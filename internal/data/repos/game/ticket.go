package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type RewardTicketRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ticket *types.RewardTicket) (*types.RewardTicket, error)
	HasFromSource(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, source types.TicketSource) (bool, error)
	ListUnclaimed(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]*types.RewardTicket, error)
	// OldestUnclaimedForUpdate locks the guest's oldest unclaimed ticket,
	// keeping a double-click from claiming it twice.
	OldestUnclaimedForUpdate(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (*types.RewardTicket, error)
	// Claim attaches the chosen product and stamps the claim. Terminal:
	// nothing ever unsets these fields.
	Claim(ctx context.Context, tx *gorm.DB, ticketID uuid.UUID, productID uuid.UUID, at time.Time) error
}

type rewardTicketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardTicketRepo(db *gorm.DB, baseLog *logger.Logger) RewardTicketRepo {
	return &rewardTicketRepo{db: db, log: baseLog.With("repo", "RewardTicketRepo")}
}

func (r *rewardTicketRepo) Create(ctx context.Context, tx *gorm.DB, ticket *types.RewardTicket) (*types.RewardTicket, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *rewardTicketRepo) HasFromSource(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, source types.TicketSource) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RewardTicket{}).
		Where("guest_id = ? AND source = ?", guestID, source).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *rewardTicketRepo) ListUnclaimed(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]*types.RewardTicket, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.RewardTicket
	if err := transaction.WithContext(ctx).
		Where("guest_id = ? AND claimed_at IS NULL", guestID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *rewardTicketRepo) OldestUnclaimedForUpdate(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (*types.RewardTicket, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.RewardTicket
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("guest_id = ? AND claimed_at IS NULL", guestID).
		Order("created_at ASC").
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *rewardTicketRepo) Claim(ctx context.Context, tx *gorm.DB, ticketID uuid.UUID, productID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.RewardTicket{}).
		Where("id = ? AND claimed_at IS NULL", ticketID).
		Updates(map[string]any{
			"product_id": productID,
			"claimed_at": at,
		}).Error
}
