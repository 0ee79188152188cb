package repos

import (
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/catalog"
	"github.com/venuepoint/loyalty-backend/internal/data/repos/events"
	"github.com/venuepoint/loyalty-backend/internal/data/repos/game"
	"github.com/venuepoint/loyalty-backend/internal/data/repos/guest"
	"github.com/venuepoint/loyalty-backend/internal/data/repos/ledger"
	"github.com/venuepoint/loyalty-backend/internal/data/repos/segments"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type VenueRepo = guest.VenueRepo
type GuestProfileRepo = guest.GuestProfileRepo
type AdminUserRepo = guest.AdminUserRepo

type LedgerRepo = ledger.LedgerRepo

type CooldownRepo = game.CooldownRepo
type AttemptRepo = game.AttemptRepo
type RewardTicketRepo = game.RewardTicketRepo
type DailyCodeRepo = game.DailyCodeRepo

type ProductRepo = catalog.ProductRepo
type QuestRepo = catalog.QuestRepo
type QuestSubmissionRepo = catalog.QuestSubmissionRepo
type InventoryRepo = catalog.InventoryRepo
type DeliveryCodeRepo = catalog.DeliveryCodeRepo

type SegmentRepo = segments.SegmentRepo
type SegmentSettingsRepo = segments.SettingsRepo
type GuestSegmentScoreRepo = segments.ScoreRepo
type SegmentMigrationRepo = segments.MigrationRepo
type SegmentSnapshotRepo = segments.SnapshotRepo

type OutcomeEventRepo = events.OutcomeEventRepo

type GuestAttemptStats = game.GuestAttemptStats

func NewVenueRepo(db *gorm.DB, baseLog *logger.Logger) VenueRepo {
	return guest.NewVenueRepo(db, baseLog)
}
func NewGuestProfileRepo(db *gorm.DB, baseLog *logger.Logger) GuestProfileRepo {
	return guest.NewGuestProfileRepo(db, baseLog)
}
func NewAdminUserRepo(db *gorm.DB, baseLog *logger.Logger) AdminUserRepo {
	return guest.NewAdminUserRepo(db, baseLog)
}

func NewLedgerRepo(db *gorm.DB, baseLog *logger.Logger) LedgerRepo {
	return ledger.NewLedgerRepo(db, baseLog)
}

func NewCooldownRepo(db *gorm.DB, baseLog *logger.Logger) CooldownRepo {
	return game.NewCooldownRepo(db, baseLog)
}
func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return game.NewAttemptRepo(db, baseLog)
}
func NewRewardTicketRepo(db *gorm.DB, baseLog *logger.Logger) RewardTicketRepo {
	return game.NewRewardTicketRepo(db, baseLog)
}
func NewDailyCodeRepo(db *gorm.DB, baseLog *logger.Logger) DailyCodeRepo {
	return game.NewDailyCodeRepo(db, baseLog)
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, baseLog)
}
func NewQuestRepo(db *gorm.DB, baseLog *logger.Logger) QuestRepo {
	return catalog.NewQuestRepo(db, baseLog)
}
func NewQuestSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) QuestSubmissionRepo {
	return catalog.NewQuestSubmissionRepo(db, baseLog)
}
func NewInventoryRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRepo {
	return catalog.NewInventoryRepo(db, baseLog)
}
func NewDeliveryCodeRepo(db *gorm.DB, baseLog *logger.Logger) DeliveryCodeRepo {
	return catalog.NewDeliveryCodeRepo(db, baseLog)
}

func NewSegmentRepo(db *gorm.DB, baseLog *logger.Logger) SegmentRepo {
	return segments.NewSegmentRepo(db, baseLog)
}
func NewSegmentSettingsRepo(db *gorm.DB, baseLog *logger.Logger) SegmentSettingsRepo {
	return segments.NewSettingsRepo(db, baseLog)
}
func NewGuestSegmentScoreRepo(db *gorm.DB, baseLog *logger.Logger) GuestSegmentScoreRepo {
	return segments.NewScoreRepo(db, baseLog)
}
func NewSegmentMigrationRepo(db *gorm.DB, baseLog *logger.Logger) SegmentMigrationRepo {
	return segments.NewMigrationRepo(db, baseLog)
}
func NewSegmentSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SegmentSnapshotRepo {
	return segments.NewSnapshotRepo(db, baseLog)
}

func NewOutcomeEventRepo(db *gorm.DB, baseLog *logger.Logger) OutcomeEventRepo {
	return events.NewOutcomeEventRepo(db, baseLog)
}
