package game

import (
	"time"

	"github.com/google/uuid"
)

type TicketSource string

const (
	TicketSourceGame     TicketSource = "GAME"
	TicketSourceManual   TicketSource = "MANUAL"
	TicketSourceBirthday TicketSource = "BIRTHDAY"
)

// RewardTicket is the "super prize": created unclaimed (no product), later
// claimed exactly once by attaching a chosen product and a claim timestamp.
// Claiming is terminal.
type RewardTicket struct {
	ID      uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID    `gorm:"type:uuid;not null;index;column:guest_id" json:"guest_id"`
	Source  TicketSource `gorm:"type:varchar(20);not null;column:source" json:"source"`

	ProductID *uuid.UUID `gorm:"type:uuid;column:product_id" json:"product_id,omitempty"`
	ClaimedAt *time.Time `gorm:"column:claimed_at" json:"claimed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (RewardTicket) TableName() string { return "reward_ticket" }

func (t *RewardTicket) IsClaimed() bool {
	return t != nil && t.ClaimedAt != nil
}
