package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// GuestOverview is everything the guest-facing client needs in one
// round trip.
type GuestOverview struct {
	Profile  *types.GuestProfile   `json:"profile"`
	Balance  int64                 `json:"balance"`
	Attempts int64                 `json:"attempts"`
	Tickets  []*types.RewardTicket `json:"tickets"`
	Segment  *types.RFSegment      `json:"segment,omitempty"`

	// Seconds remaining per cooldown domain, zero when ready.
	Cooldowns map[types.CooldownDomain]int64 `json:"cooldowns"`
}

// GuestService resolves identity-provider references into profiles. The
// identity provider owns identity; Resolve only materializes the
// venue-scoped row on first contact.
type GuestService interface {
	Resolve(ctx context.Context, venueID uuid.UUID, externalRef string) (*types.GuestProfile, error)
	Overview(ctx context.Context, guestID uuid.UUID) (*GuestOverview, error)
}

type guestService struct {
	db        *gorm.DB
	log       *logger.Logger
	guests    repos.GuestProfileRepo
	ledger    repos.LedgerRepo
	attempts  repos.AttemptRepo
	tickets   repos.RewardTicketRepo
	cooldowns repos.CooldownRepo
	scores    repos.GuestSegmentScoreRepo
	segments  repos.SegmentRepo
	now       func() time.Time
}

func NewGuestService(
	db *gorm.DB,
	log *logger.Logger,
	guests repos.GuestProfileRepo,
	ledger repos.LedgerRepo,
	attempts repos.AttemptRepo,
	tickets repos.RewardTicketRepo,
	cooldowns repos.CooldownRepo,
	scores repos.GuestSegmentScoreRepo,
	segments repos.SegmentRepo,
) GuestService {
	return &guestService{
		db:        db,
		log:       log.With("service", "GuestService"),
		guests:    guests,
		ledger:    ledger,
		attempts:  attempts,
		tickets:   tickets,
		cooldowns: cooldowns,
		scores:    scores,
		segments:  segments,
		now:       time.Now,
	}
}

func (s *guestService) Resolve(ctx context.Context, venueID uuid.UUID, externalRef string) (*types.GuestProfile, error) {
	externalRef = strings.TrimSpace(externalRef)
	if externalRef == "" {
		return nil, types.ErrNotFound
	}

	profile, err := s.guests.GetByExternalRef(ctx, nil, venueID, externalRef)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := s.guests.Create(ctx, nil, []*types.GuestProfile{{
		ID:          uuid.New(),
		VenueID:     venueID,
		ExternalRef: externalRef,
	}})
	if err != nil {
		// Lost a race with a concurrent first contact; the row exists now.
		if existing, getErr := s.guests.GetByExternalRef(ctx, nil, venueID, externalRef); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	s.log.Info("guest profile created", "venueID", venueID)
	return created[0], nil
}

func (s *guestService) Overview(ctx context.Context, guestID uuid.UUID) (*GuestOverview, error) {
	now := s.now()

	profile, err := s.guests.GetByID(ctx, nil, guestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.Balance(ctx, nil, guestID)
	if err != nil {
		return nil, err
	}
	attemptCount, err := s.attempts.CountByGuest(ctx, nil, guestID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListUnclaimed(ctx, nil, guestID)
	if err != nil {
		return nil, err
	}

	overview := &GuestOverview{
		Profile:   profile,
		Balance:   balance,
		Attempts:  attemptCount,
		Tickets:   tickets,
		Cooldowns: make(map[types.CooldownDomain]int64, 4),
	}

	for _, domain := range []types.CooldownDomain{
		types.CooldownGame, types.CooldownQuest, types.CooldownShop, types.CooldownInventory,
	} {
		cooldown, err := s.cooldowns.Get(ctx, nil, guestID, domain)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			overview.Cooldowns[domain] = 0
			continue
		}
		if err != nil {
			return nil, err
		}
		overview.Cooldowns[domain] = int64(cooldown.TimeLeft(now) / time.Second)
	}

	if score, err := s.scores.GetByGuest(ctx, nil, guestID); err == nil && score != nil && score.SegmentID != nil {
		if segment, err := s.segments.GetByID(ctx, nil, *score.SegmentID); err == nil {
			overview.Segment = segment
		}
	}

	return overview, nil
}
