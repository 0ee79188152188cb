package segments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type SegmentRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RFSegment, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.RFSegment, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]types.RFSegment, error)
	// ReplaceGrid swaps the whole segment grid in one transaction. Existing
	// rows are matched by code so score and migration references survive
	// range edits.
	ReplaceGrid(ctx context.Context, tx *gorm.DB, grid []types.RFSegment) ([]types.RFSegment, error)
}

type segmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSegmentRepo(db *gorm.DB, baseLog *logger.Logger) SegmentRepo {
	return &segmentRepo{db: db, log: baseLog.With("repo", "SegmentRepo")}
}

func (r *segmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RFSegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.RFSegment
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *segmentRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.RFSegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.RFSegment
	if err := transaction.WithContext(ctx).Where("code = ?", code).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *segmentRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]types.RFSegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.RFSegment
	if err := transaction.WithContext(ctx).
		Order("recency_min ASC, frequency_min ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *segmentRepo) ReplaceGrid(ctx context.Context, tx *gorm.DB, grid []types.RFSegment) ([]types.RFSegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	run := func(t *gorm.DB) error {
		keep := make([]string, 0, len(grid))
		for i := range grid {
			keep = append(keep, grid[i].Code)
			err := t.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "recency_min", "recency_max",
					"frequency_min", "frequency_max", "strategy", "updated_at",
				}),
			}).Create(&grid[i]).Error
			if err != nil {
				return err
			}
		}
		return t.Where("code NOT IN ?", keep).Delete(&types.RFSegment{}).Error
	}
	var err error
	if tx != nil {
		err = run(transaction.WithContext(ctx))
	} else {
		err = transaction.WithContext(ctx).Transaction(run)
	}
	if err != nil {
		return nil, err
	}
	return r.ListAll(ctx, tx)
}
