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

type QuestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quest *types.Quest) (*types.Quest, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quest, error)
	ListActiveByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) ([]types.Quest, error)
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error
}

type questRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestRepo(db *gorm.DB, baseLog *logger.Logger) QuestRepo {
	return &questRepo{db: db, log: baseLog.With("repo", "QuestRepo")}
}

func (r *questRepo) Create(ctx context.Context, tx *gorm.DB, quest *types.Quest) (*types.Quest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(quest).Error; err != nil {
		return nil, err
	}
	return quest, nil
}

func (r *questRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Quest
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *questRepo) ListActiveByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) ([]types.Quest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Quest
	if err := transaction.WithContext(ctx).
		Where("venue_id = ? AND is_active = ?", venueID, true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Quest{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

type QuestSubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submission *types.QuestSubmission) (*types.QuestSubmission, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuestSubmission, error)
	// OpenForUpdate locks the guest's open submission for a quest, if any.
	OpenForUpdate(ctx context.Context, tx *gorm.DB, guestID, questID uuid.UUID, now time.Time) (*types.QuestSubmission, error)
	HasCompleted(ctx context.Context, tx *gorm.DB, guestID, questID uuid.UUID) (bool, error)
	Complete(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, servedByID *uuid.UUID) error
	ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]types.QuestSubmission, error)
}

type questSubmissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) QuestSubmissionRepo {
	return &questSubmissionRepo{db: db, log: baseLog.With("repo", "QuestSubmissionRepo")}
}

func (r *questSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *types.QuestSubmission) (*types.QuestSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *questSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuestSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.QuestSubmission
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *questSubmissionRepo) OpenForUpdate(ctx context.Context, tx *gorm.DB, guestID, questID uuid.UUID, now time.Time) (*types.QuestSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.QuestSubmission
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("guest_id = ? AND quest_id = ? AND is_complete = ? AND activated_at IS NOT NULL", guestID, questID, false).
		Order("activated_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	if !result.IsOpen(now) {
		return nil, gorm.ErrRecordNotFound
	}
	return &result, nil
}

func (r *questSubmissionRepo) HasCompleted(ctx context.Context, tx *gorm.DB, guestID, questID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.QuestSubmission{}).
		Where("guest_id = ? AND quest_id = ? AND is_complete = ?", guestID, questID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *questSubmissionRepo) Complete(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, servedByID *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.QuestSubmission{}).
		Where("id = ? AND is_complete = ?", submissionID, false).
		Updates(map[string]interface{}{
			"is_complete":  true,
			"served_by_id": servedByID,
		}).Error
}

func (r *questSubmissionRepo) ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]types.QuestSubmission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.QuestSubmission
	if err := transaction.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
