package segments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type SettingsRepo interface {
	// GetOrDefault returns the venue's settings, creating the default row
	// on first access.
	GetOrDefault(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) (*types.SegmentSettings, error)
	Update(ctx context.Context, tx *gorm.DB, settings *types.SegmentSettings) (*types.SegmentSettings, error)
	ResetStats(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, at time.Time) error
}

type settingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SettingsRepo {
	return &settingsRepo{db: db, log: baseLog.With("repo", "SegmentSettingsRepo")}
}

func (r *settingsRepo) GetOrDefault(ctx context.Context, tx *gorm.DB, venueID uuid.UUID) (*types.SegmentSettings, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.SegmentSettings
	err := transaction.WithContext(ctx).Where("venue_id = ?", venueID).First(&result).Error
	if err == nil {
		return &result, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	result = types.SegmentSettings{VenueID: venueID, AnalysisPeriodDays: 365}
	if err := transaction.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *settingsRepo) Update(ctx context.Context, tx *gorm.DB, settings *types.SegmentSettings) (*types.SegmentSettings, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepo) ResetStats(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.SegmentSettings{}).
		Where("venue_id = ?", venueID).
		Update("stats_reset_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	// An operator can reset before the first recompute creates the row.
	row := types.SegmentSettings{VenueID: venueID, AnalysisPeriodDays: 365, StatsResetAt: &at}
	return transaction.WithContext(ctx).Create(&row).Error
}
