package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// DeliveryService issues one-shot delivery codes and redeems them. A
// redeemed code permanently flags the guest as a delivery guest, which
// waives the game's daily-code requirement.
type DeliveryService interface {
	GenerateCodes(ctx context.Context, venueID uuid.UUID, count int) ([]types.DeliveryCode, error)
	Redeem(ctx context.Context, guestID uuid.UUID, code string) (*types.DeliveryCode, error)
	IsDeliveryGuest(ctx context.Context, guestID uuid.UUID) (bool, error)
}

type deliveryService struct {
	db       *gorm.DB
	log      *logger.Logger
	guests   repos.GuestProfileRepo
	codes    repos.DeliveryCodeRepo
	generate CodeGenerator
	now      func() time.Time
}

func NewDeliveryService(
	db *gorm.DB,
	log *logger.Logger,
	guests repos.GuestProfileRepo,
	codes repos.DeliveryCodeRepo,
	generate CodeGenerator,
) DeliveryService {
	if generate == nil {
		generate = DefaultCodeGenerator
	}
	return &deliveryService{
		db:       db,
		log:      log.With("service", "DeliveryService"),
		guests:   guests,
		codes:    codes,
		generate: generate,
		now:      time.Now,
	}
}

func (s *deliveryService) GenerateCodes(ctx context.Context, venueID uuid.UUID, count int) ([]types.DeliveryCode, error) {
	if count <= 0 {
		count = 1
	}
	batch := make([]types.DeliveryCode, count)
	for i := range batch {
		// Delivery codes are longer-lived than daily codes, double the
		// length so printed batches stay collision-free.
		batch[i] = types.DeliveryCode{
			ID:      uuid.New(),
			VenueID: venueID,
			Code:    s.generate() + s.generate(),
		}
	}
	created, err := s.codes.CreateBatch(ctx, nil, batch)
	if err != nil {
		return nil, err
	}
	s.log.Info("delivery codes generated", "venueID", venueID, "count", len(created))
	return created, nil
}

func (s *deliveryService) Redeem(ctx context.Context, guestID uuid.UUID, submitted string) (*types.DeliveryCode, error) {
	now := s.now()
	var code *types.DeliveryCode

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := s.guests.LockByID(ctx, tx, guestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}

		code, err = s.codes.LockByCode(ctx, tx, submitted)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrInvalidCode
		}
		if err != nil {
			return err
		}
		if code.VenueID != guest.VenueID {
			return types.ErrInvalidCode
		}
		if code.IsRedeemed() {
			return types.ErrAlreadyUsed
		}

		if err := s.codes.Redeem(ctx, tx, code.ID, guest.ID, now); err != nil {
			return err
		}
		code.RedeemedByID = &guest.ID
		code.RedeemedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("delivery code redeemed", "guestID", guestID)
	return code, nil
}

func (s *deliveryService) IsDeliveryGuest(ctx context.Context, guestID uuid.UUID) (bool, error) {
	return s.codes.HasRedeemed(ctx, nil, guestID)
}
