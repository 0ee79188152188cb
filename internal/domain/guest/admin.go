package guest

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is an operator account for the admin API (manual accruals,
// daily codes, segment configuration). Guests never get one of these.
type AdminUser struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID  uuid.UUID `gorm:"type:uuid;not null;index;column:venue_id" json:"venue_id"`
	Email    string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string    `gorm:"not null;column:password" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AdminUser) TableName() string { return "admin_user" }
