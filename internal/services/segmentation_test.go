package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
)

func testGrid() []types.RFSegment {
	return []types.RFSegment{
		{Code: "active", Name: "Active", RecencyMin: 0, RecencyMax: 30, FrequencyMin: 0, FrequencyMax: types.RecencySentinel},
		{Code: "idle", Name: "Idle", RecencyMin: 31, RecencyMax: types.RecencySentinel, FrequencyMin: 0, FrequencyMax: types.RecencySentinel},
	}
}

func scoreFor(t *testing.T, e *env, guestID uuid.UUID) *types.GuestSegmentScore {
	t.Helper()
	var score types.GuestSegmentScore
	if err := e.tx.Where("guest_id = ?", guestID).First(&score).Error; err != nil {
		t.Fatalf("load score: %v", err)
	}
	return &score
}

func TestSegmentationRecompute(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "segment-venue")
	fresh := testutil.SeedGuest(t, ctx, e.tx, venue.ID)
	dormant := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	grid, err := e.segmentation.SaveGrid(ctx, testGrid())
	if err != nil {
		t.Fatalf("save grid: %v", err)
	}
	byCode := map[string]types.RFSegment{}
	for _, seg := range grid {
		byCode[seg.Code] = seg
	}

	testutil.SeedAttempt(t, ctx, e.tx, fresh.ID, time.Now().Add(-2*24*time.Hour))
	testutil.SeedAttempt(t, ctx, e.tx, fresh.ID, time.Now().Add(-24*time.Hour))
	testutil.SeedAttempt(t, ctx, e.tx, dormant.ID, time.Now().AddDate(0, 0, -60))

	stats, err := e.segmentation.RecomputeVenue(ctx, venue.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if stats.Scored != 2 {
		t.Fatalf("scored: want=2 got=%d", stats.Scored)
	}
	if stats.Migrated != 0 {
		t.Fatalf("first run migrated: want=0 got=%d", stats.Migrated)
	}
	if stats.SnapshotsWritten != len(grid) {
		t.Fatalf("snapshots: want=%d got=%d", len(grid), stats.SnapshotsWritten)
	}

	freshScore := scoreFor(t, e, fresh.ID)
	if freshScore.SegmentID == nil || *freshScore.SegmentID != byCode["active"].ID {
		t.Fatalf("fresh guest segment: %+v", freshScore)
	}
	dormantScore := scoreFor(t, e, dormant.ID)
	if dormantScore.SegmentID == nil || *dormantScore.SegmentID != byCode["idle"].ID {
		t.Fatalf("dormant guest segment: %+v", dormantScore)
	}

	// A second run with unchanged data migrates nobody and overwrites the
	// day's snapshots in place instead of stacking new rows.
	stats, err = e.segmentation.RecomputeVenue(ctx, venue.ID)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if stats.Migrated != 0 {
		t.Fatalf("repeat run migrated: want=0 got=%d", stats.Migrated)
	}
	var snapshots []types.SegmentSnapshot
	if err := e.tx.Where("venue_id = ?", venue.ID).Find(&snapshots).Error; err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(snapshots) != len(grid) {
		t.Fatalf("snapshot rows after rerun: want=%d got=%d", len(grid), len(snapshots))
	}
	for _, snapshot := range snapshots {
		if snapshot.GuestCount != 1 {
			t.Fatalf("snapshot count after rerun: %+v", snapshot)
		}
	}

	// The dormant guest comes back; the next run records the migration.
	testutil.SeedAttempt(t, ctx, e.tx, dormant.ID, time.Now().Add(-time.Hour))
	stats, err = e.segmentation.RecomputeVenue(ctx, venue.ID)
	if err != nil {
		t.Fatalf("third recompute: %v", err)
	}
	if stats.Migrated != 1 {
		t.Fatalf("migrated: want=1 got=%d", stats.Migrated)
	}
	dormantScore = scoreFor(t, e, dormant.ID)
	if dormantScore.SegmentID == nil || *dormantScore.SegmentID != byCode["active"].ID {
		t.Fatalf("returned guest segment: %+v", dormantScore)
	}

	flows, err := e.segmentation.MigrationStats(ctx, venue.ID, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("migration stats: %v", err)
	}
	if flows.Migrations != 1 {
		t.Fatalf("migrations: want=1 got=%d", flows.Migrations)
	}
	for _, flow := range flows.Flows {
		switch flow.Code {
		case "active":
			if flow.In != 1 || flow.Out != 0 || flow.Net != 1 {
				t.Fatalf("active flow: %+v", flow)
			}
		case "idle":
			if flow.In != 0 || flow.Out != 1 || flow.Net != -1 {
				t.Fatalf("idle flow: %+v", flow)
			}
		}
	}
}

func TestSegmentationResetStatsShrinksWindow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "segment-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.segmentation.SaveGrid(ctx, testGrid()); err != nil {
		t.Fatalf("save grid: %v", err)
	}
	testutil.SeedAttempt(t, ctx, e.tx, guest.ID, time.Now().Add(-10*24*time.Hour))
	testutil.SeedAttempt(t, ctx, e.tx, guest.ID, time.Now().Add(-time.Hour))

	if _, err := e.segmentation.RecomputeVenue(ctx, venue.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got := scoreFor(t, e, guest.ID).Frequency; got != 2 {
		t.Fatalf("frequency before reset: want=2 got=%d", got)
	}

	// Reset excludes history before the reset point from the window.
	if err := e.segmentation.ResetStats(ctx, venue.ID); err != nil {
		t.Fatalf("reset stats: %v", err)
	}
	testutil.SeedAttempt(t, ctx, e.tx, guest.ID, time.Now())
	if _, err := e.segmentation.RecomputeVenue(ctx, venue.ID); err != nil {
		t.Fatalf("recompute after reset: %v", err)
	}
	if got := scoreFor(t, e, guest.ID).Frequency; got != 1 {
		t.Fatalf("frequency after reset: want=1 got=%d", got)
	}
}

func TestSegmentationResetStatsBeforeFirstRecompute(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "segment-venue")

	// No recompute has bootstrapped a settings row yet; the reset still
	// has to be recorded.
	if err := e.segmentation.ResetStats(ctx, venue.ID); err != nil {
		t.Fatalf("reset stats: %v", err)
	}
	var settings types.SegmentSettings
	if err := e.tx.Where("venue_id = ?", venue.ID).First(&settings).Error; err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.StatsResetAt == nil {
		t.Fatalf("reset timestamp not recorded: %+v", settings)
	}
}

func TestSegmentationRequiresGrid(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "segment-venue")
	if _, err := e.segmentation.RecomputeVenue(ctx, venue.ID); err == nil {
		t.Fatalf("recompute without a grid succeeded")
	}
}
