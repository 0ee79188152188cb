package segments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type ScoreRepo interface {
	GetByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (*types.GuestSegmentScore, error)
	// Upsert writes the guest's latest score, one row per guest.
	Upsert(ctx context.Context, tx *gorm.DB, score *types.GuestSegmentScore) (*types.GuestSegmentScore, error)
	// CountBySegment tallies guests per segment for a venue's guests.
	CountBySegment(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) (map[uuid.UUID]uint, error)
}

type scoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	return &scoreRepo{db: db, log: baseLog.With("repo", "GuestSegmentScoreRepo")}
}

func (r *scoreRepo) GetByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (*types.GuestSegmentScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.GuestSegmentScore
	err := transaction.WithContext(ctx).Where("guest_id = ?", guestID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *scoreRepo) Upsert(ctx context.Context, tx *gorm.DB, score *types.GuestSegmentScore) (*types.GuestSegmentScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guest_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"segment_id", "recency_days", "frequency", "computed_at",
			}),
		}).
		Create(score).Error
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (r *scoreRepo) CountBySegment(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) (map[uuid.UUID]uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	type row struct {
		SegmentID uuid.UUID `gorm:"column:segment_id"`
		Count     uint      `gorm:"column:count"`
	}
	var rows []row
	err := transaction.WithContext(ctx).
		Table("guest_segment_score s").
		Select("s.segment_id AS segment_id, COUNT(*) AS count").
		Joins("JOIN guest_profile g ON g.id = s.guest_id").
		Where("g.venue_id = ? AND s.segment_id IS NOT NULL", venueID).
		Group("s.segment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]uint, len(rows))
	for _, r := range rows {
		counts[r.SegmentID] = r.Count
	}
	return counts, nil
}
