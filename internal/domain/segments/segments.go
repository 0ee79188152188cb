package segments

import (
	"time"

	"github.com/google/uuid"
)

// RecencySentinel is the recency assigned to guests with no attempts at
// all, far beyond any configured range except the catch-all bucket.
const RecencySentinel = 999

// RFSegment is a named marketing bucket over a recency-day range and a
// frequency-count range, both inclusive. Operator-edited configuration,
// not guest-scoped. Grids are validated on save so that the segments form
// a disjoint, gapless partition of the input space.
type RFSegment struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code string    `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name string    `gorm:"not null;column:name" json:"name"`

	RecencyMin   int `gorm:"not null;default:0;column:recency_min" json:"recency_min"`
	RecencyMax   int `gorm:"not null;default:999;column:recency_max" json:"recency_max"`
	FrequencyMin int `gorm:"not null;default:0;column:frequency_min" json:"frequency_min"`
	FrequencyMax int `gorm:"not null;default:999;column:frequency_max" json:"frequency_max"`

	// Strategy is free-form operator guidance for this bucket.
	Strategy string `gorm:"column:strategy" json:"strategy"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (RFSegment) TableName() string { return "rf_segment" }

// Contains reports whether a guest's recency/frequency pair falls in this
// segment's ranges.
func (s *RFSegment) Contains(recencyDays, frequency int) bool {
	if s == nil {
		return false
	}
	return recencyDays >= s.RecencyMin && recencyDays <= s.RecencyMax &&
		frequency >= s.FrequencyMin && frequency <= s.FrequencyMax
}

// Settings carries per-venue segmentation knobs.
type Settings struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:venue_id" json:"venue_id"`

	AnalysisPeriodDays int `gorm:"not null;default:365;column:analysis_period_days" json:"analysis_period_days"`

	// StatsResetAt excludes history older than this moment from frequency
	// counting. Operators use it to restart the analysis without touching
	// balances or inventory.
	StatsResetAt *time.Time `gorm:"column:stats_reset_at" json:"stats_reset_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Settings) TableName() string { return "segment_settings" }

// GuestScore is a guest's latest recency/frequency measurement and the
// segment it put them in. One row per guest, overwritten on every run.
// SegmentID stays nil when the configured grid matched nothing (possible
// only for grids saved before validation existed).
type GuestScore struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:guest_id" json:"guest_id"`

	SegmentID   *uuid.UUID `gorm:"type:uuid;index;column:segment_id" json:"segment_id,omitempty"`
	RecencyDays int        `gorm:"not null;column:recency_days" json:"recency_days"`
	Frequency   int        `gorm:"not null;column:frequency" json:"frequency"`

	ComputedAt time.Time `gorm:"not null;column:computed_at" json:"computed_at"`
}

func (GuestScore) TableName() string { return "guest_segment_score" }

// Migration records one guest's transition between segments. Append-only,
// written only when a recomputation actually changes the assignment; a
// first assignment has no "from" and writes no row at all.
type Migration struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GuestID uuid.UUID `gorm:"type:uuid;not null;index;column:guest_id" json:"guest_id"`

	FromSegmentID *uuid.UUID `gorm:"type:uuid;column:from_segment_id" json:"from_segment_id,omitempty"`
	ToSegmentID   uuid.UUID  `gorm:"type:uuid;not null;column:to_segment_id" json:"to_segment_id"`

	CreatedAt time.Time `gorm:"not null;default:now();index;column:created_at" json:"created_at"`
}

func (Migration) TableName() string { return "segment_migration" }

// Snapshot is the daily per-segment guest count for trend charts. Unique
// per (venue, segment, date); reruns the same day overwrite in place.
type Snapshot struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_venue_segment_date;column:venue_id" json:"venue_id"`
	SegmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_venue_segment_date;column:segment_id" json:"segment_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_snapshot_venue_segment_date;column:date" json:"date"`

	GuestCount uint `gorm:"not null;default:0;column:guest_count" json:"guest_count"`

	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Snapshot) TableName() string { return "segment_snapshot" }
