package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/venuepoint/loyalty-backend/internal/data/repos"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/observability"
	"github.com/venuepoint/loyalty-backend/internal/platform/logger"
)

// RecomputeStats summarizes one venue's segmentation run.
type RecomputeStats struct {
	VenueID          uuid.UUID `json:"venue_id"`
	Scored           int       `json:"scored"`
	Migrated         int       `json:"migrated"`
	SnapshotsWritten int       `json:"snapshots_written"`
}

// RecomputeAllStats aggregates a full sweep across venues.
type RecomputeAllStats struct {
	Venues   int              `json:"venues"`
	Failed   int              `json:"failed"`
	PerVenue []RecomputeStats `json:"per_venue"`
}

// SegmentationService scores every guest of a venue into the RF grid.
// Recency is days since the last attempt (999 for never), frequency is
// the attempt count inside the venue's analysis window. Each guest's
// score is its own small transaction so a crashed run resumes safely.
type SegmentationService interface {
	SaveGrid(ctx context.Context, grid []types.RFSegment) ([]types.RFSegment, error)
	SeedGridFromFile(ctx context.Context, path string) ([]types.RFSegment, error)
	ListGrid(ctx context.Context) ([]types.RFSegment, error)
	RecomputeVenue(ctx context.Context, venueID uuid.UUID) (*RecomputeStats, error)
	RecomputeAll(ctx context.Context) (*RecomputeAllStats, error)
	ResetStats(ctx context.Context, venueID uuid.UUID) error
	MigrationStats(ctx context.Context, venueID uuid.UUID, since time.Time) (*MigrationStats, error)
}

type segmentationService struct {
	db         *gorm.DB
	log        *logger.Logger
	venues     repos.VenueRepo
	attempts   repos.AttemptRepo
	segments   repos.SegmentRepo
	settings   repos.SegmentSettingsRepo
	scores     repos.GuestSegmentScoreRepo
	migrations repos.SegmentMigrationRepo
	snapshots  repos.SegmentSnapshotRepo
	notifier   OutcomeNotifier
	now        func() time.Time
}

func NewSegmentationService(
	db *gorm.DB,
	log *logger.Logger,
	venues repos.VenueRepo,
	attempts repos.AttemptRepo,
	segments repos.SegmentRepo,
	settings repos.SegmentSettingsRepo,
	scores repos.GuestSegmentScoreRepo,
	migrations repos.SegmentMigrationRepo,
	snapshots repos.SegmentSnapshotRepo,
	notifier OutcomeNotifier,
) SegmentationService {
	return &segmentationService{
		db:         db,
		log:        log.With("service", "SegmentationService"),
		venues:     venues,
		attempts:   attempts,
		segments:   segments,
		settings:   settings,
		scores:     scores,
		migrations: migrations,
		snapshots:  snapshots,
		notifier:   notifier,
		now:        time.Now,
	}
}

func (s *segmentationService) SaveGrid(ctx context.Context, grid []types.RFSegment) ([]types.RFSegment, error) {
	// Fail fast on a grid that would leave guests unscored or
	// ambiguously scored.
	if err := types.ValidateSegmentGrid(grid); err != nil {
		return nil, err
	}
	return s.segments.ReplaceGrid(ctx, nil, grid)
}

type gridFile struct {
	Segments []struct {
		Code         string `yaml:"code"`
		Name         string `yaml:"name"`
		RecencyMin   int    `yaml:"recency_min"`
		RecencyMax   int    `yaml:"recency_max"`
		FrequencyMin int    `yaml:"frequency_min"`
		FrequencyMax int    `yaml:"frequency_max"`
		Strategy     string `yaml:"strategy"`
	} `yaml:"segments"`
}

func (s *segmentationService) SeedGridFromFile(ctx context.Context, path string) ([]types.RFSegment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segment grid: %w", err)
	}
	var file gridFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse segment grid: %w", err)
	}
	grid := make([]types.RFSegment, 0, len(file.Segments))
	for _, row := range file.Segments {
		grid = append(grid, types.RFSegment{
			Code:         row.Code,
			Name:         row.Name,
			RecencyMin:   row.RecencyMin,
			RecencyMax:   row.RecencyMax,
			FrequencyMin: row.FrequencyMin,
			FrequencyMax: row.FrequencyMax,
			Strategy:     row.Strategy,
		})
	}
	return s.SaveGrid(ctx, grid)
}

func (s *segmentationService) ListGrid(ctx context.Context) ([]types.RFSegment, error) {
	return s.segments.ListAll(ctx, nil)
}

func (s *segmentationService) RecomputeVenue(ctx context.Context, venueID uuid.UUID) (*RecomputeStats, error) {
	started := time.Now()
	stats, err := s.recomputeVenue(ctx, venueID)
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.Current().ObserveRecompute(status, time.Since(started))
	return stats, err
}

func (s *segmentationService) recomputeVenue(ctx context.Context, venueID uuid.UUID) (*RecomputeStats, error) {
	now := s.now()

	venue, err := s.venues.GetByID(ctx, nil, venueID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	grid, err := s.segments.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("segment grid is empty; seed it before recomputing")
	}

	settings, err := s.settings.GetOrDefault(ctx, nil, venue.ID)
	if err != nil {
		return nil, err
	}
	windowStart := now.AddDate(0, 0, -settings.AnalysisPeriodDays)
	if settings.StatsResetAt != nil && settings.StatsResetAt.After(windowStart) {
		windowStart = *settings.StatsResetAt
	}

	stats, err := s.attempts.StatsByVenue(ctx, nil, venue.ID, windowStart)
	if err != nil {
		return nil, err
	}

	result := &RecomputeStats{VenueID: venue.ID}
	for _, guest := range stats {
		migrated, err := s.scoreGuest(ctx, venue.ID, guest, grid, now)
		if err != nil {
			return nil, err
		}
		result.Scored++
		if migrated {
			result.Migrated++
		}
	}

	counts, err := s.scores.CountBySegment(ctx, nil, venue.ID)
	if err != nil {
		return nil, err
	}
	for i := range grid {
		snapshot := &types.SegmentSnapshot{
			ID:         uuid.New(),
			VenueID:    venue.ID,
			SegmentID:  grid[i].ID,
			Date:       now,
			GuestCount: counts[grid[i].ID],
		}
		if _, err := s.snapshots.Upsert(ctx, nil, snapshot); err != nil {
			return nil, err
		}
		result.SnapshotsWritten++
	}
	observability.Current().AddSnapshotWrites(result.SnapshotsWritten)

	s.log.Info("segments recomputed",
		"venueID", venue.ID,
		"scored", result.Scored,
		"migrated", result.Migrated)
	return result, nil
}

// scoreGuest upserts one guest's score in its own transaction and writes
// a migration row only when the assignment actually changed. A first
// assignment writes no migration.
func (s *segmentationService) scoreGuest(ctx context.Context, venueID uuid.UUID, guest repos.GuestAttemptStats, grid []types.RFSegment, now time.Time) (bool, error) {
	recency := types.RecencySentinel
	if guest.LastAttempt != nil {
		days := int(now.Sub(*guest.LastAttempt).Hours() / 24)
		if days < types.RecencySentinel {
			recency = days
		}
	}
	frequency := guest.WindowCount
	if frequency > types.RecencySentinel {
		frequency = types.RecencySentinel
	}

	segment, _ := types.ClassifySegment(grid, recency, frequency)

	migrated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior, err := s.scores.GetByGuest(ctx, tx, guest.GuestID)
		if err != nil {
			return err
		}

		var segmentID *uuid.UUID
		if segment != nil {
			segmentID = &segment.ID
		}
		score := &types.GuestSegmentScore{
			ID:          uuid.New(),
			GuestID:     guest.GuestID,
			SegmentID:   segmentID,
			RecencyDays: recency,
			Frequency:   frequency,
			ComputedAt:  now,
		}
		if _, err := s.scores.Upsert(ctx, tx, score); err != nil {
			return err
		}

		if prior == nil || segment == nil {
			return nil
		}
		if prior.SegmentID != nil && *prior.SegmentID == segment.ID {
			return nil
		}

		migration := &types.SegmentMigration{
			ID:            uuid.New(),
			GuestID:       guest.GuestID,
			FromSegmentID: prior.SegmentID,
			ToSegmentID:   segment.ID,
		}
		if _, err := s.migrations.Create(ctx, tx, migration); err != nil {
			return err
		}
		migrated = true
		return s.notifier.SegmentMigrated(ctx, tx, venueID, guest.GuestID, prior.SegmentID, segment.ID)
	})
	if err != nil {
		return false, err
	}
	if migrated {
		observability.Current().IncSegmentMigration()
	}
	return migrated, nil
}

func (s *segmentationService) RecomputeAll(ctx context.Context) (*RecomputeAllStats, error) {
	venues, err := s.venues.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		out = &RecomputeAllStats{Venues: len(venues)}
	)
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(4)
	for _, venue := range venues {
		venue := venue
		grp.Go(func() error {
			stats, err := s.RecomputeVenue(grpCtx, venue.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One venue's failure never aborts the others.
				s.log.Error("venue recompute failed", "venueID", venue.ID, "error", err)
				out.Failed++
				return nil
			}
			out.PerVenue = append(out.PerVenue, *stats)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *segmentationService) ResetStats(ctx context.Context, venueID uuid.UUID) error {
	return s.settings.ResetStats(ctx, nil, venueID, s.now())
}

// SegmentFlow counts guests moving into and out of one segment over a
// window.
type SegmentFlow struct {
	SegmentID uuid.UUID `json:"segment_id"`
	Code      string    `json:"code"`
	In        int       `json:"in"`
	Out       int       `json:"out"`
	Net       int       `json:"net"`
}

type MigrationStats struct {
	VenueID    uuid.UUID     `json:"venue_id"`
	Since      time.Time     `json:"since"`
	Migrations int           `json:"migrations"`
	Flows      []SegmentFlow `json:"flows"`
}

func (s *segmentationService) MigrationStats(ctx context.Context, venueID uuid.UUID, since time.Time) (*MigrationStats, error) {
	grid, err := s.segments.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows, err := s.migrations.ListSince(ctx, nil, venueID, since)
	if err != nil {
		return nil, err
	}

	flows := make([]SegmentFlow, len(grid))
	index := make(map[uuid.UUID]int, len(grid))
	for i, seg := range grid {
		flows[i] = SegmentFlow{SegmentID: seg.ID, Code: seg.Code}
		index[seg.ID] = i
	}
	for _, row := range rows {
		if i, ok := index[row.ToSegmentID]; ok {
			flows[i].In++
		}
		if row.FromSegmentID != nil {
			if i, ok := index[*row.FromSegmentID]; ok {
				flows[i].Out++
			}
		}
	}
	for i := range flows {
		flows[i].Net = flows[i].In - flows[i].Out
	}
	return &MigrationStats{
		VenueID:    venueID,
		Since:      since,
		Migrations: len(rows),
		Flows:      flows,
	}, nil
}
