package ledger

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionEarn  Direction = "EARN"
	DirectionSpend Direction = "SPEND"
)

type Source string

const (
	SourceGame   Source = "GAME"
	SourceQuest  Source = "QUEST"
	SourceShop   Source = "SHOP"
	SourceManual Source = "MANUAL"
)

// Entry is one immutable point movement. Entries are never updated or
// deleted; corrections are modeled as new offsetting entries. The guest's
// balance is always derived by aggregating the full set of entries.
type Entry struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_guest;column:guest_id" json:"guest_id"`

	Direction   Direction `gorm:"type:varchar(10);not null;index:idx_ledger_guest;column:direction" json:"direction"`
	Source      Source    `gorm:"type:varchar(20);not null;column:source" json:"source"`
	Amount      uint      `gorm:"not null;column:amount" json:"amount"`
	Description string    `gorm:"column:description" json:"description"`

	CreatedAt time.Time `gorm:"not null;default:now();index;column:created_at" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entry" }
