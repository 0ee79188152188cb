package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	catalogdom "github.com/venuepoint/loyalty-backend/internal/domain/catalog"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// QuestService runs the quest loop: the guest activates a quest, which
// opens a short submission window, and a staff member confirms completion
// inside it. Completion pays the quest reward and arms the quest
// cooldown. A quest is completable once per guest.
type QuestService interface {
	ListQuests(ctx context.Context, venueID uuid.UUID) ([]types.Quest, error)
	Activate(ctx context.Context, guestID, questID uuid.UUID) (*types.QuestSubmission, error)
	Complete(ctx context.Context, guestID, questID uuid.UUID, servedByID *uuid.UUID) (*types.LedgerEntry, error)
}

type questService struct {
	db          *gorm.DB
	log         *logger.Logger
	guests      repos.GuestProfileRepo
	quests      repos.QuestRepo
	submissions repos.QuestSubmissionRepo
	cooldowns   CooldownService
	ledger      LedgerService
	notifier    OutcomeNotifier
	now         func() time.Time
}

func NewQuestService(
	db *gorm.DB,
	log *logger.Logger,
	guests repos.GuestProfileRepo,
	quests repos.QuestRepo,
	submissions repos.QuestSubmissionRepo,
	cooldowns CooldownService,
	ledger LedgerService,
	notifier OutcomeNotifier,
) QuestService {
	return &questService{
		db:          db,
		log:         log.With("service", "QuestService"),
		guests:      guests,
		quests:      quests,
		submissions: submissions,
		cooldowns:   cooldowns,
		ledger:      ledger,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *questService) ListQuests(ctx context.Context, venueID uuid.UUID) ([]types.Quest, error) {
	return s.quests.ListActiveByVenue(ctx, nil, venueID)
}

func (s *questService) Activate(ctx context.Context, guestID, questID uuid.UUID) (*types.QuestSubmission, error) {
	now := s.now()
	var submission *types.QuestSubmission

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, guestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		quest, err := s.quests.GetByID(ctx, tx, questID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !quest.IsActive || quest.VenueID != guest.VenueID {
			return types.ErrNotFound
		}

		done, err := s.submissions.HasCompleted(ctx, tx, guest.ID, quest.ID)
		if err != nil {
			return err
		}
		if done {
			return types.ErrAlreadyUsed
		}

		// An already-open window just gets returned; activating twice is
		// not an error and does not extend the window.
		if open, err := s.submissions.OpenForUpdate(ctx, tx, guest.ID, quest.ID, now); err == nil {
			submission = open
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		submission = &types.QuestSubmission{
			ID:          uuid.New(),
			GuestID:     guest.ID,
			QuestID:     quest.ID,
			ActivatedAt: &now,
			Duration:    catalogdom.DefaultSubmissionWindow,
		}
		_, err = s.submissions.Create(ctx, tx, submission)
		return err
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *questService) Complete(ctx context.Context, guestID, questID uuid.UUID, servedByID *uuid.UUID) (*types.LedgerEntry, error) {
	now := s.now()
	var entry *types.LedgerEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, guestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		cooldown, err := s.cooldowns.Gate(ctx, tx, guest.ID, types.CooldownQuest, now)
		if err != nil {
			return err
		}

		quest, err := s.quests.GetByID(ctx, tx, questID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		submission, err := s.submissions.OpenForUpdate(ctx, tx, guest.ID, quest.ID, now)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := s.submissions.Complete(ctx, tx, submission.ID, servedByID); err != nil {
			return err
		}

		entry, err = s.ledger.EarnTx(ctx, tx, guest.ID, quest.Reward, types.SourceQuest,
			fmt.Sprintf("quest: %s", quest.Name))
		if err != nil {
			return err
		}
		outcome := types.RewardOutcome{Type: types.OutcomeCoin, Amount: quest.Reward}
		if err := s.notifier.RewardGranted(ctx, tx, guest.VenueID, guest.ID, outcome); err != nil {
			return err
		}

		return s.cooldowns.Arm(ctx, tx, cooldown, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quest completed", "guestID", guestID, "questID", questID)
	return entry, nil
}
