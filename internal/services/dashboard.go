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
	"github.com/venuepoint/loyalty-backend/internal/platform/pos"
)

// ScanIndex relates plays recorded today to guests the POS saw today.
// POSGuests is zero with POSAvailable false when the POS is down or the
// venue has none wired; the metric degrades instead of failing.
type ScanIndex struct {
	Attempts     int64   `json:"attempts"`
	Served       int64   `json:"served"`
	POSGuests    int     `json:"pos_guests"`
	POSAvailable bool    `json:"pos_available"`
	Index        float64 `json:"index"`
}

// VenueDashboard is the operator's daily view.
type VenueDashboard struct {
	Venue     *types.Venue            `json:"venue"`
	DailyCode string                  `json:"daily_code,omitempty"`
	ScanIndex ScanIndex               `json:"scan_index"`
	Snapshots []types.SegmentSnapshot `json:"snapshots"`
}

type DashboardService interface {
	Venue(ctx context.Context, venueID uuid.UUID) (*VenueDashboard, error)
}

type dashboardService struct {
	db         *gorm.DB
	log        *logger.Logger
	venues     repos.VenueRepo
	attempts   repos.AttemptRepo
	dailyCodes repos.DailyCodeRepo
	snapshots  repos.SegmentSnapshotRepo
	pos        *pos.Client
	now        func() time.Time
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	venues repos.VenueRepo,
	attempts repos.AttemptRepo,
	dailyCodes repos.DailyCodeRepo,
	snapshots repos.SegmentSnapshotRepo,
	posClient *pos.Client,
) DashboardService {
	return &dashboardService{
		db:         db,
		log:        log.With("service", "DashboardService"),
		venues:     venues,
		attempts:   attempts,
		dailyCodes: dailyCodes,
		snapshots:  snapshots,
		pos:        posClient,
		now:        time.Now,
	}
}

func (s *dashboardService) Venue(ctx context.Context, venueID uuid.UUID) (*VenueDashboard, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	venue, err := s.venues.GetByID(ctx, nil, venueID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dashboard := &VenueDashboard{Venue: venue}

	if code, err := s.dailyCodes.GetByVenueDate(ctx, nil, venue.ID, now); err == nil {
		dashboard.DailyCode = code.Code
	}

	total, served, err := s.attempts.CountServedSince(ctx, nil, venue.ID, startOfDay)
	if err != nil {
		return nil, err
	}
	dashboard.ScanIndex = ScanIndex{Attempts: total, Served: served}

	if s.pos != nil && venue.POSOrganizationID != "" {
		guests, err := s.pos.GuestsToday(ctx, venue.POSOrganizationID)
		if err != nil {
			s.log.Warn("pos unavailable for dashboard", "venueID", venue.ID, "error", err)
		} else {
			dashboard.ScanIndex.POSGuests = guests
			dashboard.ScanIndex.POSAvailable = true
			if guests > 0 {
				dashboard.ScanIndex.Index = float64(total) / float64(guests)
			}
		}
	}

	snapshots, err := s.snapshots.ListRange(ctx, nil, venue.ID, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}
	dashboard.Snapshots = snapshots

	return dashboard, nil
}
