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
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

type PlayInput struct {
	GuestID uuid.UUID
	// Code is the submitted daily code, required from the third play on
	// unless the guest is a delivery guest.
	Code string
	// ServedByID is the staff profile that walked the guest through the
	// play, when there was one.
	ServedByID *uuid.UUID
}

type PlayResult struct {
	Outcome types.RewardOutcome `json:"outcome"`
	Ticket  *types.RewardTicket `json:"ticket,omitempty"`
	Entry   *types.LedgerEntry  `json:"entry,omitempty"`
}

// GameService resolves plays of the reward game. One play is one atomic,
// guest-locked unit: cooldown check, tier decision, attempt record,
// reward grant, cooldown activation all commit or roll back together.
type GameService interface {
	Play(ctx context.Context, in PlayInput) (*PlayResult, error)
}

type gameService struct {
	db         *gorm.DB
	log        *logger.Logger
	guests     repos.GuestProfileRepo
	attempts   repos.AttemptRepo
	tickets    repos.RewardTicketRepo
	dailyCodes repos.DailyCodeRepo
	delivery   repos.DeliveryCodeRepo
	cooldowns  CooldownService
	ledger     LedgerService
	notifier   OutcomeNotifier
	generate   CodeGenerator
	now        func() time.Time
}

func NewGameService(
	db *gorm.DB,
	log *logger.Logger,
	guests repos.GuestProfileRepo,
	attempts repos.AttemptRepo,
	tickets repos.RewardTicketRepo,
	dailyCodes repos.DailyCodeRepo,
	delivery repos.DeliveryCodeRepo,
	cooldowns CooldownService,
	ledger LedgerService,
	notifier OutcomeNotifier,
	generate CodeGenerator,
) GameService {
	if generate == nil {
		generate = DefaultCodeGenerator
	}
	return &gameService{
		db:         db,
		log:        log.With("service", "GameService"),
		guests:     guests,
		attempts:   attempts,
		tickets:    tickets,
		dailyCodes: dailyCodes,
		delivery:   delivery,
		cooldowns:  cooldowns,
		ledger:     ledger,
		notifier:   notifier,
		generate:   generate,
		now:        time.Now,
	}
}

func (s *gameService) Play(ctx context.Context, in PlayInput) (*PlayResult, error) {
	now := s.now()
	var result *PlayResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, in.GuestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		cooldown, err := s.cooldowns.Gate(ctx, tx, guest.ID, types.CooldownGame, now)
		if err != nil {
			return err
		}

		prior, err := s.attempts.CountByGuest(ctx, tx, guest.ID)
		if err != nil {
			return err
		}
		n := prior + 1

		hasTicket, err := s.tickets.HasFromSource(ctx, tx, guest.ID, types.TicketSourceGame)
		if err != nil {
			return err
		}

		isDelivery := false
		if n >= 3 {
			isDelivery, err = s.delivery.HasRedeemed(ctx, tx, guest.ID)
			if err != nil {
				return err
			}
		}

		codeValidated := false
		if n >= 3 && !isDelivery && strings.TrimSpace(in.Code) != "" {
			if err := s.checkDailyCode(ctx, tx, guest.VenueID, in.Code, now); err != nil {
				return err
			}
			codeValidated = true
		}

		outcome := types.RewardForAttempt(n, hasTicket, isDelivery, codeValidated)
		if outcome.Type == types.OutcomeCodeRequired {
			// Valid terminal state, not an error. Nothing recorded, the
			// guest retries with a code at no cost.
			result = &PlayResult{Outcome: outcome}
			return nil
		}

		attempt := &types.Attempt{ID: uuid.New(), GuestID: guest.ID, ServedByID: in.ServedByID}
		if _, err := s.attempts.Create(ctx, tx, attempt); err != nil {
			return err
		}

		result = &PlayResult{Outcome: outcome}
		switch outcome.Type {
		case types.OutcomePrize:
			ticket := &types.RewardTicket{
				ID:      uuid.New(),
				GuestID: guest.ID,
				Source:  types.TicketSourceGame,
			}
			if _, err := s.tickets.Create(ctx, tx, ticket); err != nil {
				return err
			}
			if err := s.notifier.TicketCreated(ctx, tx, guest.VenueID, ticket); err != nil {
				return err
			}
			result.Ticket = ticket
		case types.OutcomeCoin:
			entry, err := s.ledger.EarnTx(ctx, tx, guest.ID, outcome.Amount, types.SourceGame, "game reward")
			if err != nil {
				return err
			}
			if err := s.notifier.RewardGranted(ctx, tx, guest.VenueID, guest.ID, outcome); err != nil {
				return err
			}
			result.Entry = entry
		}

		return s.cooldowns.Arm(ctx, tx, cooldown, now)
	})
	if err != nil {
		return nil, err
	}

	observability.Current().IncRewardOutcome(string(result.Outcome.Type), int64(result.Outcome.Amount))
	if result.Ticket != nil {
		observability.Current().IncTicketEvent("created")
	}
	s.log.Info("play resolved",
		"guestID", in.GuestID,
		"type", result.Outcome.Type,
		"amount", result.Outcome.Amount)
	return result, nil
}

// checkDailyCode compares the submitted code with today's, lazily
// generating today's code when the scheduler has not run yet.
func (s *gameService) checkDailyCode(ctx context.Context, tx *gorm.DB, venueID uuid.UUID, submitted string, now time.Time) error {
	code, err := s.dailyCodes.GetByVenueDate(ctx, tx, venueID, now)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		code, err = s.dailyCodes.Create(ctx, tx, &types.DailyCode{
			ID:      uuid.New(),
			VenueID: venueID,
			Date:    now,
			Code:    s.generate(),
		})
	}
	if err != nil {
		return err
	}
	if !code.Matches(submitted) {
		return types.ErrInvalidCode
	}
	return nil
}
