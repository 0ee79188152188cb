package game

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one play of the game. Append-only; the lifetime count decides
// the reward tier, so rows survive even when a guest goes quiet for years.
type Attempt struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID `gorm:"type:uuid;not null;index:idx_attempt_guest;column:guest_id" json:"guest_id"`

	// ServedByID references the staff member's own guest profile when a
	// waiter walked the guest through the play.
	ServedByID *uuid.UUID `gorm:"type:uuid;column:served_by_id" json:"served_by_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index;column:created_at" json:"created_at"`
}

func (Attempt) TableName() string { return "attempt" }
