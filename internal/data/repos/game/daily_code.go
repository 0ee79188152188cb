package game

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

type DailyCodeRepo interface {
	GetByVenueDate(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, date time.Time) (*types.DailyCode, error)
	Create(ctx context.Context, tx *gorm.DB, code *types.DailyCode) (*types.DailyCode, error)
	// Upsert sets the code for (venue, date), normalized, replacing any
	// code already stored for that day.
	Upsert(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, date time.Time, code string) (*types.DailyCode, error)
}

type dailyCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyCodeRepo(db *gorm.DB, baseLog *logger.Logger) DailyCodeRepo {
	return &dailyCodeRepo{db: db, log: baseLog.With("repo", "DailyCodeRepo")}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *dailyCodeRepo) GetByVenueDate(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, date time.Time) (*types.DailyCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.DailyCode
	if err := transaction.WithContext(ctx).
		Where("venue_id = ? AND date = ?", venueID, dateOnly(date)).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dailyCodeRepo) Create(ctx context.Context, tx *gorm.DB, code *types.DailyCode) (*types.DailyCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	code.Code = gamedom.NormalizeCode(code.Code)
	code.Date = dateOnly(code.Date)
	if err := transaction.WithContext(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

func (r *dailyCodeRepo) Upsert(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, date time.Time, code string) (*types.DailyCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.DailyCode{
		VenueID: venueID,
		Date:    dateOnly(date),
		Code:    gamedom.NormalizeCode(code),
	}
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "venue_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"code"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}
