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

// DailyCodeService provisions the per-venue daily code. Normally the
// scheduled job pre-generates every venue's code shortly after midnight;
// the game falls back to lazy generation when the job has not run.
type DailyCodeService interface {
	EnsureForDate(ctx context.Context, venueID uuid.UUID, date time.Time) (*types.DailyCode, error)
	// Override replaces the code for a day, for operators re-printing
	// table cards.
	Override(ctx context.Context, venueID uuid.UUID, date time.Time, code string) (*types.DailyCode, error)
	// ProvisionAll ensures every venue has a code for the date. Returns
	// how many venues got a fresh code.
	ProvisionAll(ctx context.Context, date time.Time) (int, error)
}

type dailyCodeService struct {
	db       *gorm.DB
	log      *logger.Logger
	venues   repos.VenueRepo
	codes    repos.DailyCodeRepo
	generate CodeGenerator
}

func NewDailyCodeService(
	db *gorm.DB,
	log *logger.Logger,
	venues repos.VenueRepo,
	codes repos.DailyCodeRepo,
	generate CodeGenerator,
) DailyCodeService {
	if generate == nil {
		generate = DefaultCodeGenerator
	}
	return &dailyCodeService{
		db:       db,
		log:      log.With("service", "DailyCodeService"),
		venues:   venues,
		codes:    codes,
		generate: generate,
	}
}

func (s *dailyCodeService) EnsureForDate(ctx context.Context, venueID uuid.UUID, date time.Time) (*types.DailyCode, error) {
	code, err := s.codes.GetByVenueDate(ctx, nil, venueID, date)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.codes.Create(ctx, nil, &types.DailyCode{
		ID:      uuid.New(),
		VenueID: venueID,
		Date:    date,
		Code:    s.generate(),
	})
}

func (s *dailyCodeService) Override(ctx context.Context, venueID uuid.UUID, date time.Time, code string) (*types.DailyCode, error) {
	if types.NormalizeCode(code) == "" {
		return nil, types.ErrInvalidCode
	}
	return s.codes.Upsert(ctx, nil, venueID, date, code)
}

func (s *dailyCodeService) ProvisionAll(ctx context.Context, date time.Time) (int, error) {
	venues, err := s.venues.ListAll(ctx, nil)
	if err != nil {
		return 0, err
	}
	fresh := 0
	for _, venue := range venues {
		_, err := s.codes.GetByVenueDate(ctx, nil, venue.ID, date)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fresh, err
		}
		if _, err := s.EnsureForDate(ctx, venue.ID, date); err != nil {
			return fresh, err
		}
		fresh++
	}
	s.log.Info("daily codes provisioned", "date", date.Format("2006-01-02"), "fresh", fresh)
	return fresh, nil
}
