package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// GuestAttemptStats is one guest's attempt aggregate used by the
// segmentation engine: last attempt ever, count inside the analysis
// window.
type GuestAttemptStats struct {
	GuestID     uuid.UUID  `gorm:"column:guest_id"`
	LastAttempt *time.Time `gorm:"column:last_attempt"`
	WindowCount int        `gorm:"column:window_count"`
}

type AttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *types.Attempt) (*types.Attempt, error)
	CountByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (int64, error)
	LastByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (*time.Time, error)
	// StatsByVenue aggregates attempts per guest for one venue in a single
	// query. Guests with no attempts are included with zero stats so the
	// caller can classify them too.
	StatsByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, windowStart time.Time) ([]GuestAttemptStats, error)
	CountServedSince(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, since time.Time) (total int64, served int64, err error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.Attempt) (*types.Attempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

func (r *attemptRepo) CountByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Attempt{}).
		Where("guest_id = ?", guestID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attemptRepo) LastByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (*time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var last *time.Time
	if err := transaction.WithContext(ctx).
		Model(&types.Attempt{}).
		Select("MAX(created_at)").
		Where("guest_id = ?", guestID).
		Scan(&last).Error; err != nil {
		return nil, err
	}
	return last, nil
}

func (r *attemptRepo) StatsByVenue(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, windowStart time.Time) ([]GuestAttemptStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []GuestAttemptStats
	err := transaction.WithContext(ctx).
		Table("guest_profile AS g").
		Select(`g.id AS guest_id,
			MAX(a.created_at) AS last_attempt,
			COUNT(a.id) FILTER (WHERE a.created_at >= ?) AS window_count`, windowStart).
		Joins("LEFT JOIN attempt a ON a.guest_id = g.id").
		Where("g.venue_id = ?", venueID).
		Group("g.id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) CountServedSince(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, since time.Time) (int64, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	base := transaction.WithContext(ctx).
		Model(&types.Attempt{}).
		Joins("JOIN guest_profile g ON g.id = attempt.guest_id").
		Where("g.venue_id = ? AND attempt.created_at >= ?", venueID, since)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	var served int64
	if err := base.Session(&gorm.Session{}).
		Where("attempt.served_by_id IS NOT NULL").
		Count(&served).Error; err != nil {
		return 0, 0, err
	}
	return total, served, nil
}
