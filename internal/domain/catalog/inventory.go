package catalog

import (
	"time"

	"github.com/google/uuid"
)

type AcquireSource string

const (
	AcquireBuy    AcquireSource = "BUY"
	AcquireTicket AcquireSource = "TICKET"
)

type ItemStatus string

const (
	ItemInStock ItemStatus = "IN_STOCK"
	ItemActive  ItemStatus = "ACTIVE"
	ItemExpired ItemStatus = "EXPIRED"
)

const DefaultItemWindow = 40 * time.Minute

// InventoryItem is a granted product sitting in the guest's inventory.
// Activation starts a short window during which the item counts as in use
// (shown to staff); once the window elapses it reads as expired. Status is
// computed from the clock, nothing sweeps these rows.
type InventoryItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID   uuid.UUID `gorm:"type:uuid;not null;index;column:guest_id" json:"guest_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;column:product_id" json:"product_id"`

	AcquiredFrom AcquireSource `gorm:"type:varchar(20);not null;column:acquired_from" json:"acquired_from"`

	Duration    time.Duration `gorm:"not null;column:duration" json:"duration"`
	ActivatedAt *time.Time    `gorm:"column:activated_at" json:"activated_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventory_item" }

func (i *InventoryItem) Status(now time.Time) ItemStatus {
	switch {
	case i == nil || i.ActivatedAt == nil:
		return ItemInStock
	case now.Before(i.ActivatedAt.Add(i.Duration)):
		return ItemActive
	default:
		return ItemExpired
	}
}
