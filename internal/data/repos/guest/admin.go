package guest

import (
	"context"

	"gorm.io/gorm"

	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type AdminUserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.AdminUser) ([]*types.AdminUser, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.AdminUser, error)
}

type adminUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminUserRepo(db *gorm.DB, baseLog *logger.Logger) AdminUserRepo {
	return &adminUserRepo{db: db, log: baseLog.With("repo", "AdminUserRepo")}
}

func (r *adminUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.AdminUser) ([]*types.AdminUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(users) == 0 {
		return []*types.AdminUser{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *adminUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.AdminUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.AdminUser
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
