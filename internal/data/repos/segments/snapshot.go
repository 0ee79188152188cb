package segments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type SnapshotRepo interface {
	// Upsert writes the day's count for (venue, segment), overwriting a
	// same-day rerun in place.
	Upsert(ctx context.Context, tx *gorm.DB, snapshot *types.SegmentSnapshot) (*types.SegmentSnapshot, error)
	ListRange(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, from, to time.Time) ([]types.SegmentSnapshot, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: db, log: baseLog.With("repo", "SegmentSnapshotRepo")}
}

func snapshotDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *snapshotRepo) Upsert(ctx context.Context, tx *gorm.DB, snapshot *types.SegmentSnapshot) (*types.SegmentSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	snapshot.Date = snapshotDate(snapshot.Date)
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "venue_id"}, {Name: "segment_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"guest_count", "updated_at"}),
		}).
		Create(snapshot).Error
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *snapshotRepo) ListRange(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, from, to time.Time) ([]types.SegmentSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.SegmentSnapshot
	err := transaction.WithContext(ctx).
		Where("venue_id = ? AND date >= ? AND date <= ?", venueID, snapshotDate(from), snapshotDate(to)).
		Order("date ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
