package segments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type MigrationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, migration *types.SegmentMigration) (*types.SegmentMigration, error)
	ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]types.SegmentMigration, error)
	ListSince(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, since time.Time) ([]types.SegmentMigration, error)
}

type migrationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMigrationRepo(db *gorm.DB, baseLog *logger.Logger) MigrationRepo {
	return &migrationRepo{db: db, log: baseLog.With("repo", "SegmentMigrationRepo")}
}

func (r *migrationRepo) Create(ctx context.Context, tx *gorm.DB, migration *types.SegmentMigration) (*types.SegmentMigration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(migration).Error; err != nil {
		return nil, err
	}
	return migration, nil
}

func (r *migrationRepo) ListByGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) ([]types.SegmentMigration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.SegmentMigration
	if err := transaction.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *migrationRepo) ListSince(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, since time.Time) ([]types.SegmentMigration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.SegmentMigration
	err := transaction.WithContext(ctx).
		Joins("JOIN guest_profile g ON g.id = segment_migration.guest_id").
		Where("g.venue_id = ? AND segment_migration.created_at >= ?", venueID, since).
		Order("segment_migration.created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
