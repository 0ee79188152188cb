package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	catalogdom "github.com/venuepoint/loyalty-backend/internal/domain/catalog"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// TicketService manages super prize tickets: granting them outside the
// game (manual and birthday) and claiming them against a prize product.
// A claim is terminal; the chosen product lands in the inventory.
type TicketService interface {
	ListUnclaimed(ctx context.Context, guestID uuid.UUID) ([]*types.RewardTicket, error)
	ListPrizes(ctx context.Context, venueID uuid.UUID) ([]types.Product, error)
	Claim(ctx context.Context, guestID, productID uuid.UUID) (*types.RewardTicket, error)
	Grant(ctx context.Context, guestID uuid.UUID, source types.TicketSource) (*types.RewardTicket, error)
}

type ticketService struct {
	db        *gorm.DB
	log       *logger.Logger
	guests    repos.GuestProfileRepo
	tickets   repos.RewardTicketRepo
	products  repos.ProductRepo
	inventory repos.InventoryRepo
	notifier  OutcomeNotifier
	now       func() time.Time
}

func NewTicketService(
	db *gorm.DB,
	log *logger.Logger,
	guests repos.GuestProfileRepo,
	tickets repos.RewardTicketRepo,
	products repos.ProductRepo,
	inventory repos.InventoryRepo,
	notifier OutcomeNotifier,
) TicketService {
	return &ticketService{
		db:        db,
		log:       log.With("service", "TicketService"),
		guests:    guests,
		tickets:   tickets,
		products:  products,
		inventory: inventory,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *ticketService) ListUnclaimed(ctx context.Context, guestID uuid.UUID) ([]*types.RewardTicket, error) {
	return s.tickets.ListUnclaimed(ctx, nil, guestID)
}

func (s *ticketService) ListPrizes(ctx context.Context, venueID uuid.UUID) ([]types.Product, error) {
	return s.products.ListTicketPrizesByVenue(ctx, nil, venueID)
}

func (s *ticketService) Claim(ctx context.Context, guestID, productID uuid.UUID) (*types.RewardTicket, error) {
	now := s.now()
	var ticket *types.RewardTicket

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, guestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		ticket, err = s.tickets.OldestUnclaimedForUpdate(ctx, tx, guest.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrAlreadyClaimed
		}
		if err != nil {
			return err
		}

		product, err := s.products.GetByID(ctx, tx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !product.IsActive || !product.IsTicketPrize || product.VenueID != guest.VenueID {
			return types.ErrNotFound
		}

		if err := s.tickets.Claim(ctx, tx, ticket.ID, product.ID, now); err != nil {
			return err
		}
		ticket.ProductID = &product.ID
		ticket.ClaimedAt = &now

		item := &types.InventoryItem{
			ID:           uuid.New(),
			GuestID:      guest.ID,
			ProductID:    product.ID,
			AcquiredFrom: types.AcquireTicket,
			Duration:     catalogdom.DefaultItemWindow,
		}
		if _, err := s.inventory.Create(ctx, tx, item); err != nil {
			return err
		}

		return s.notifier.TicketClaimed(ctx, tx, guest.VenueID, ticket)
	})
	if err != nil {
		return nil, err
	}

	observability.Current().IncTicketEvent("claimed")
	s.log.Info("ticket claimed", "guestID", guestID, "productID", productID)
	return ticket, nil
}

func (s *ticketService) Grant(ctx context.Context, guestID uuid.UUID, source types.TicketSource) (*types.RewardTicket, error) {
	var ticket *types.RewardTicket

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, guestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		// Birthday tickets are once per guest; manual grants are at the
		// operator's discretion and unlimited.
		if source == types.TicketSourceBirthday {
			if guest.BirthDate == nil {
				return types.ErrNotFound
			}
			has, err := s.tickets.HasFromSource(ctx, tx, guest.ID, types.TicketSourceBirthday)
			if err != nil {
				return err
			}
			if has {
				return types.ErrAlreadyUsed
			}
		}

		ticket = &types.RewardTicket{
			ID:      uuid.New(),
			GuestID: guest.ID,
			Source:  source,
		}
		if _, err := s.tickets.Create(ctx, tx, ticket); err != nil {
			return err
		}
		return s.notifier.TicketCreated(ctx, tx, guest.VenueID, ticket)
	})
	if err != nil {
		return nil, err
	}
	observability.Current().IncTicketEvent("granted")
	return ticket, nil
}
