package events

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Kind string

const (
	KindRewardGranted   Kind = "reward_granted"
	KindTicketCreated   Kind = "ticket_created"
	KindTicketClaimed   Kind = "ticket_claimed"
	KindSegmentMigrated Kind = "segment_migrated"
)

// OutcomeEvent is the durable record of a domain outcome handed to the
// external messaging component. The core writes the row and publishes a
// copy; it never waits for anyone to consume it.
type OutcomeEvent struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;index;column:venue_id" json:"venue_id"`
	GuestID uuid.UUID `gorm:"type:uuid;not null;index;column:guest_id" json:"guest_id"`

	Kind    Kind           `gorm:"type:varchar(40);not null;column:kind" json:"kind"`
	Payload datatypes.JSON `gorm:"column:payload" json:"payload"`

	CreatedAt time.Time `gorm:"not null;default:now();index;column:created_at" json:"created_at"`
}

func (OutcomeEvent) TableName() string { return "outcome_event" }
