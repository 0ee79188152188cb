package domain

import (
	"github.com/venuepoint/loyalty-backend/internal/domain/catalog"
	"github.com/venuepoint/loyalty-backend/internal/domain/events"
	"github.com/venuepoint/loyalty-backend/internal/domain/game"
	"github.com/venuepoint/loyalty-backend/internal/domain/guest"
	"github.com/venuepoint/loyalty-backend/internal/domain/ledger"
	"github.com/venuepoint/loyalty-backend/internal/domain/segments"
)

type Venue = guest.Venue
type GuestProfile = guest.GuestProfile
type AdminUser = guest.AdminUser

type LedgerEntry = ledger.Entry
type LedgerDirection = ledger.Direction
type LedgerSource = ledger.Source

const (
	DirectionEarn  = ledger.DirectionEarn
	DirectionSpend = ledger.DirectionSpend

	SourceGame   = ledger.SourceGame
	SourceQuest  = ledger.SourceQuest
	SourceShop   = ledger.SourceShop
	SourceManual = ledger.SourceManual
)

type Cooldown = game.Cooldown
type CooldownDomain = game.Domain
type Attempt = game.Attempt
type RewardTicket = game.RewardTicket
type TicketSource = game.TicketSource
type DailyCode = game.DailyCode

const (
	CooldownGame      = game.DomainGame
	CooldownQuest     = game.DomainQuest
	CooldownShop      = game.DomainShop
	CooldownInventory = game.DomainInventory

	TicketSourceGame     = game.TicketSourceGame
	TicketSourceManual   = game.TicketSourceManual
	TicketSourceBirthday = game.TicketSourceBirthday
)

type Product = catalog.Product
type Quest = catalog.Quest
type QuestSubmission = catalog.QuestSubmission
type InventoryItem = catalog.InventoryItem
type DeliveryCode = catalog.DeliveryCode
type AcquireSource = catalog.AcquireSource
type ItemStatus = catalog.ItemStatus

const (
	AcquireBuy    = catalog.AcquireBuy
	AcquireTicket = catalog.AcquireTicket

	ItemInStock = catalog.ItemInStock
	ItemActive  = catalog.ItemActive
	ItemExpired = catalog.ItemExpired
)

type RFSegment = segments.RFSegment
type SegmentSettings = segments.Settings
type GuestSegmentScore = segments.GuestScore
type SegmentMigration = segments.Migration
type SegmentSnapshot = segments.Snapshot

const RecencySentinel = segments.RecencySentinel

type OutcomeEvent = events.OutcomeEvent
type OutcomeKind = events.Kind

const (
	EventRewardGranted   = events.KindRewardGranted
	EventTicketCreated   = events.KindTicketCreated
	EventTicketClaimed   = events.KindTicketClaimed
	EventSegmentMigrated = events.KindSegmentMigrated
)

type RewardOutcome = game.Outcome
type RewardOutcomeType = game.OutcomeType

const (
	OutcomePrize        = game.OutcomePrize
	OutcomeCoin         = game.OutcomeCoin
	OutcomeCodeRequired = game.OutcomeCodeRequired
)

// NormalizeCode re-exported for callers that validate codes at the edge.
var NormalizeCode = game.NormalizeCode

var RewardForAttempt = game.RewardForAttempt
var TierAmount = game.TierAmount

var ValidateSegmentGrid = segments.ValidateGrid
var ClassifySegment = segments.Classify
