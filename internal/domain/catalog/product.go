package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;index;column:venue_id" json:"venue_id"`

	Name        string `gorm:"not null;column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	Price       uint   `gorm:"not null;default:3000;column:price" json:"price"`

	IsActive bool `gorm:"not null;default:true;column:is_active" json:"is_active"`
	// IsTicketPrize marks products claimable through a RewardTicket
	// rather than bought for points.
	IsTicketPrize bool `gorm:"not null;default:false;column:is_ticket_prize" json:"is_ticket_prize"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string { return "product" }
