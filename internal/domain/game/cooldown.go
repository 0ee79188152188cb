package game

import (
	"time"

	"github.com/google/uuid"
)

// Domain keys one cooldown stream per action family. The original system
// carried four structurally identical cooldown tables; here they are one
// table keyed by (guest, domain).
type Domain string

const (
	DomainGame      Domain = "game"
	DomainQuest     Domain = "quest"
	DomainShop      Domain = "shop"
	DomainInventory Domain = "inventory"
)

const (
	DefaultCooldown          = 18 * time.Hour
	DefaultInventoryCooldown = 6 * time.Hour
)

// DefaultDuration returns the cooldown length a fresh row gets for a domain.
func DefaultDuration(d Domain) time.Duration {
	if d == DomainInventory {
		return DefaultInventoryCooldown
	}
	return DefaultCooldown
}

// Cooldown gates repetition of an action. A cooldown is active while
// now < last_activated_at + duration; expiry is purely time-driven, read
// side computes it, no background job ever touches these rows.
type Cooldown struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cooldown_guest_domain;column:guest_id" json:"guest_id"`
	Domain  Domain    `gorm:"type:varchar(20);not null;uniqueIndex:idx_cooldown_guest_domain;column:domain" json:"domain"`

	LastActivatedAt *time.Time    `gorm:"column:last_activated_at" json:"last_activated_at,omitempty"`
	Duration        time.Duration `gorm:"not null;column:duration" json:"duration"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Cooldown) TableName() string { return "cooldown" }

func (c *Cooldown) TimeLeft(now time.Time) time.Duration {
	if c == nil || c.LastActivatedAt == nil {
		return 0
	}
	remaining := c.LastActivatedAt.Add(c.Duration).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *Cooldown) IsActive(now time.Time) bool {
	return c.TimeLeft(now) > 0
}
