package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// LedgerService owns all point movement. The ledger is append-only;
// balances are always derived by aggregating a guest's full history, the
// log is the single source of truth.
type LedgerService interface {
	Earn(ctx context.Context, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error)
	Spend(ctx context.Context, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error)
	Balance(ctx context.Context, guestID uuid.UUID) (int64, error)
	History(ctx context.Context, guestID uuid.UUID, limit int) ([]*types.LedgerEntry, error)

	// EarnTx and SpendTx are for callers already holding the guest's row
	// lock inside tx.
	EarnTx(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error)
	SpendTx(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error)
}

type ledgerService struct {
	db      *gorm.DB
	log     *logger.Logger
	guests  repos.GuestProfileRepo
	entries repos.LedgerRepo
}

func NewLedgerService(db *gorm.DB, log *logger.Logger, guests repos.GuestProfileRepo, entries repos.LedgerRepo) LedgerService {
	return &ledgerService{
		db:      db,
		log:     log.With("service", "LedgerService"),
		guests:  guests,
		entries: entries,
	}
}

func (s *ledgerService) Earn(ctx context.Context, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error) {
	var entry *types.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockGuest(ctx, tx, guestID); err != nil {
			return err
		}
		var txErr error
		entry, txErr = s.EarnTx(ctx, tx, guestID, amount, source, description)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) Spend(ctx context.Context, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error) {
	var entry *types.LedgerEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockGuest(ctx, tx, guestID); err != nil {
			return err
		}
		var txErr error
		entry, txErr = s.SpendTx(ctx, tx, guestID, amount, source, description)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) EarnTx(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error) {
	if amount == 0 {
		return nil, fmt.Errorf("earn amount must be positive")
	}
	entry := &types.LedgerEntry{
		ID:          uuid.New(),
		GuestID:     guestID,
		Direction:   types.DirectionEarn,
		Source:      source,
		Amount:      amount,
		Description: description,
	}
	created, err := s.entries.Append(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	observability.Current().IncLedgerEntry(string(source), string(types.DirectionEarn), int64(amount))
	return created, nil
}

func (s *ledgerService) SpendTx(ctx context.Context, tx *gorm.DB, guestID uuid.UUID, amount uint, source types.LedgerSource, description string) (*types.LedgerEntry, error) {
	if amount == 0 {
		return nil, fmt.Errorf("spend amount must be positive")
	}
	// Balance check under the guest lock; InsufficientFunds is raised
	// before any write so the entry count stays untouched on failure.
	balance, err := s.entries.Balance(ctx, tx, guestID)
	if err != nil {
		return nil, err
	}
	if balance < int64(amount) {
		return nil, types.ErrInsufficientFunds
	}
	entry := &types.LedgerEntry{
		ID:          uuid.New(),
		GuestID:     guestID,
		Direction:   types.DirectionSpend,
		Source:      source,
		Amount:      amount,
		Description: description,
	}
	created, err := s.entries.Append(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	observability.Current().IncLedgerEntry(string(source), string(types.DirectionSpend), int64(amount))
	return created, nil
}

func (s *ledgerService) Balance(ctx context.Context, guestID uuid.UUID) (int64, error) {
	return s.entries.Balance(ctx, nil, guestID)
}

func (s *ledgerService) History(ctx context.Context, guestID uuid.UUID, limit int) ([]*types.LedgerEntry, error) {
	return s.entries.ListByGuest(ctx, nil, guestID, limit)
}

func (s *ledgerService) lockGuest(ctx context.Context, tx *gorm.DB, guestID uuid.UUID) (*types.GuestProfile, error) {
	guest, err := s.guests.LockByID(ctx, tx, guestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return guest, nil
}
