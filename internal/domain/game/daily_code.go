package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DailyCode gates attempt-tier rewards from the 3rd lifetime attempt on.
// One code per (venue, calendar day); normally pre-generated by a
// scheduler, lazily created by the game when missing.
type DailyCode struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_code_venue_date;column:venue_id" json:"venue_id"`
	Date    time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_code_venue_date;column:date" json:"date"`
	Code    string    `gorm:"not null;column:code" json:"code"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DailyCode) TableName() string { return "daily_code" }

// NormalizeCode is applied both when storing and when comparing submitted
// codes, so "ab12 " matches "AB12".
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Matches reports whether a submitted code equals the stored one after
// normalization on both sides.
func (d *DailyCode) Matches(submitted string) bool {
	if d == nil {
		return false
	}
	return NormalizeCode(d.Code) == NormalizeCode(submitted)
}
