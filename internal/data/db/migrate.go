package db

import (
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity
		// =========================
		&types.Venue{},
		&types.GuestProfile{},
		&types.AdminUser{},

		// =========================
		// Economy
		// =========================
		&types.LedgerEntry{},
		&types.Cooldown{},

		// =========================
		// Game
		// =========================
		&types.Attempt{},
		&types.RewardTicket{},
		&types.DailyCode{},

		// =========================
		// Catalog + inventory
		// =========================
		&types.Product{},
		&types.Quest{},
		&types.QuestSubmission{},
		&types.InventoryItem{},
		&types.DeliveryCode{},

		// =========================
		// Segmentation
		// =========================
		&types.RFSegment{},
		&types.SegmentSettings{},
		&types.GuestSegmentScore{},
		&types.SegmentMigration{},
		&types.SegmentSnapshot{},

		// =========================
		// Outbox
		// =========================
		&types.OutcomeEvent{},
	)
}
