package catalog

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryCode is a one-shot code printed on delivery orders. A guest who
// redeems one is flagged as a delivery guest forever, which the game uses
// to waive the daily-code requirement.
type DeliveryCode struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;index;column:venue_id" json:"venue_id"`
	Code    string    `gorm:"uniqueIndex;not null;column:code" json:"code"`

	RedeemedByID *uuid.UUID `gorm:"type:uuid;index;column:redeemed_by_id" json:"redeemed_by_id,omitempty"`
	RedeemedAt   *time.Time `gorm:"column:redeemed_at" json:"redeemed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DeliveryCode) TableName() string { return "delivery_code" }

func (d *DeliveryCode) IsRedeemed() bool {
	return d != nil && d.RedeemedAt != nil
}
