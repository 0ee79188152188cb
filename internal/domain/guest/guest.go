package guest

import (
	"time"

	"github.com/google/uuid"
)

type Venue struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`

	// Identifier of the venue in the POS system, empty when no POS is wired.
	POSOrganizationID string `gorm:"column:pos_organization_id" json:"pos_organization_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Venue) TableName() string { return "venue" }

// GuestProfile is a guest's identity scoped to one venue. Profiles are
// created by the identity provider on first interaction and are never
// deleted: ledger entries, attempts and tickets all hang off this row, and
// the row itself serves as the per-guest mutex for economic operations.
type GuestProfile struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_guest_venue_ref;column:venue_id" json:"venue_id"`

	// ExternalRef is the stable reference handed to us by the identity
	// provider (messenger user id, card number, ...). Unique per venue.
	ExternalRef string `gorm:"not null;uniqueIndex:idx_guest_venue_ref;column:external_ref" json:"external_ref"`

	BirthDate  *time.Time `gorm:"column:birth_date" json:"birth_date,omitempty"`
	IsEmployee bool       `gorm:"not null;default:false;column:is_employee" json:"is_employee"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GuestProfile) TableName() string { return "guest_profile" }
