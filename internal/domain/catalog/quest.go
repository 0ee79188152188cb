package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Quest struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;index;column:venue_id" json:"venue_id"`

	Name        string `gorm:"not null;column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	Reward      uint   `gorm:"not null;default:150;column:reward" json:"reward"`

	// Inactive quests are hidden, never deleted: submissions reference them.
	IsActive bool `gorm:"not null;default:true;column:is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Quest) TableName() string { return "quest" }

const DefaultSubmissionWindow = 40 * time.Minute

// QuestSubmission is one guest's run at a quest: opened by activation,
// closed by a staff-confirmed submit within the window.
type QuestSubmission struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID `gorm:"type:uuid;not null;index;column:guest_id" json:"guest_id"`
	QuestID uuid.UUID `gorm:"type:uuid;not null;index;column:quest_id" json:"quest_id"`

	ServedByID *uuid.UUID `gorm:"type:uuid;column:served_by_id" json:"served_by_id,omitempty"`

	IsComplete  bool          `gorm:"not null;default:false;column:is_complete" json:"is_complete"`
	ActivatedAt *time.Time    `gorm:"column:activated_at" json:"activated_at,omitempty"`
	Duration    time.Duration `gorm:"not null;column:duration" json:"duration"`

	CreatedAt time.Time `gorm:"not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuestSubmission) TableName() string { return "quest_submission" }

func (s *QuestSubmission) TimeLeft(now time.Time) time.Duration {
	if s == nil || s.ActivatedAt == nil {
		return 0
	}
	remaining := s.ActivatedAt.Add(s.Duration).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsOpen reports whether the submission can still be completed.
func (s *QuestSubmission) IsOpen(now time.Time) bool {
	return s != nil && !s.IsComplete && s.TimeLeft(now) > 0
}
