package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	"github.com/venuepoint/loyalty-backend/internal/realtime"
)

// noopBus satisfies the notifier without a running Redis.
type noopBus struct{}

func (noopBus) Publish(ctx context.Context, msg realtime.Message) error { return nil }
func (noopBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error {
	return nil
}
func (noopBus) Close() error { return nil }

// env wires every service against one rolled-back test transaction.
type env struct {
	tx *gorm.DB

	ledger       LedgerService
	cooldowns    CooldownService
	game         GameService
	shop         ShopService
	quests       QuestService
	tickets      TicketService
	inventory    InventoryService
	delivery     DeliveryService
	guests       GuestService
	dailyCodes   DailyCodeService
	segmentation SegmentationService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	venueRepo := repos.NewVenueRepo(tx, log)
	guestRepo := repos.NewGuestProfileRepo(tx, log)
	ledgerRepo := repos.NewLedgerRepo(tx, log)
	cooldownRepo := repos.NewCooldownRepo(tx, log)
	attemptRepo := repos.NewAttemptRepo(tx, log)
	ticketRepo := repos.NewRewardTicketRepo(tx, log)
	dailyCodeRepo := repos.NewDailyCodeRepo(tx, log)
	productRepo := repos.NewProductRepo(tx, log)
	questRepo := repos.NewQuestRepo(tx, log)
	questSubRepo := repos.NewQuestSubmissionRepo(tx, log)
	inventoryRepo := repos.NewInventoryRepo(tx, log)
	deliveryRepo := repos.NewDeliveryCodeRepo(tx, log)
	segmentRepo := repos.NewSegmentRepo(tx, log)
	settingsRepo := repos.NewSegmentSettingsRepo(tx, log)
	scoreRepo := repos.NewGuestSegmentScoreRepo(tx, log)
	migrationRepo := repos.NewSegmentMigrationRepo(tx, log)
	snapshotRepo := repos.NewSegmentSnapshotRepo(tx, log)
	outcomeRepo := repos.NewOutcomeEventRepo(tx, log)

	notifier := NewOutcomeNotifier(log, outcomeRepo, noopBus{})
	ledger := NewLedgerService(tx, log, guestRepo, ledgerRepo)
	cooldowns := NewCooldownService(tx, log, cooldownRepo)

	return &env{
		tx:         tx,
		ledger:     ledger,
		cooldowns:  cooldowns,
		game:       NewGameService(tx, log, guestRepo, attemptRepo, ticketRepo, dailyCodeRepo, deliveryRepo, cooldowns, ledger, notifier, nil),
		shop:       NewShopService(tx, log, guestRepo, productRepo, inventoryRepo, cooldowns, ledger),
		quests:     NewQuestService(tx, log, guestRepo, questRepo, questSubRepo, cooldowns, ledger, notifier),
		tickets:    NewTicketService(tx, log, guestRepo, ticketRepo, productRepo, inventoryRepo, notifier),
		inventory:  NewInventoryService(tx, log, guestRepo, inventoryRepo, productRepo, cooldowns),
		delivery:   NewDeliveryService(tx, log, guestRepo, deliveryRepo, nil),
		guests:     NewGuestService(tx, log, guestRepo, ledgerRepo, attemptRepo, ticketRepo, cooldownRepo, scoreRepo, segmentRepo),
		dailyCodes: NewDailyCodeService(tx, log, venueRepo, dailyCodeRepo, nil),
		segmentation: NewSegmentationService(tx, log, venueRepo, attemptRepo, segmentRepo,
			settingsRepo, scoreRepo, migrationRepo, snapshotRepo, notifier),
	}
}
