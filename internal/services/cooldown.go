package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// CooldownService is the single gate every repeatable action goes
// through. Gate and Arm run inside the caller's guest-locked transaction
// so check and activation are atomic.
type CooldownService interface {
	// Gate fails with CooldownActiveError while the domain's cooldown is
	// running, otherwise returns the row for a later Arm.
	Gate(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain, now time.Time) (*types.Cooldown, error)
	Arm(ctx context.Context, tx *gorm.DB, cooldown *types.Cooldown, at time.Time) error
	Status(ctx context.Context, guestID uuid.UUID, domain types.CooldownDomain, now time.Time) (time.Duration, error)
	Clear(ctx context.Context, guestID uuid.UUID, domain types.CooldownDomain) error
}

type cooldownService struct {
	db        *gorm.DB
	log       *logger.Logger
	cooldowns repos.CooldownRepo
}

func NewCooldownService(db *gorm.DB, log *logger.Logger, cooldowns repos.CooldownRepo) CooldownService {
	return &cooldownService{
		db:        db,
		log:       log.With("service", "CooldownService"),
		cooldowns: cooldowns,
	}
}

func (s *cooldownService) Gate(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, domain types.CooldownDomain, now time.Time) (*types.Cooldown, error) {
	cooldown, _, err := s.cooldowns.GetOrCreate(ctx, tx, guestID, domain)
	if err != nil {
		return nil, err
	}
	if cooldown.IsActive(now) {
		observability.Current().IncCooldownBlocked(string(domain))
		return nil, types.NewCooldownActiveError(domain, cooldown.TimeLeft(now))
	}
	return cooldown, nil
}

func (s *cooldownService) Arm(ctx context.Context, tx *gorm.DB, cooldown *types.Cooldown, at time.Time) error {
	return s.cooldowns.Touch(ctx, tx, cooldown.ID, at)
}

func (s *cooldownService) Status(ctx context.Context, guestID uuid.UUID, domain types.CooldownDomain, now time.Time) (time.Duration, error) {
	cooldown, err := s.cooldowns.Get(ctx, nil, guestID, domain)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cooldown.TimeLeft(now), nil
}

func (s *cooldownService) Clear(ctx context.Context, guestID uuid.UUID, domain types.CooldownDomain) error {
	return s.cooldowns.Clear(ctx, nil, guestID, domain)
}
