package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/venuepoint/loyalty-backend/internal/data/repos/testutil"
	types "github.com/venuepoint/loyalty-backend/internal/domain"
	"github.com/venuepoint/loyalty-backend/internal/observability"
)

// Domain counters have to move when the services do real work, not just
// exist on the scrape endpoint.
func TestServicesFeedDomainMetrics(t *testing.T) {
	ctx := context.Background()
	t.Setenv("METRICS_ENABLED", "true")
	m := observability.Init(nil)
	if m == nil {
		t.Fatal("metrics instance not initialized")
	}

	e := newEnv(t)
	venue := testutil.SeedVenue(t, ctx, e.tx, "metrics-venue")
	guest := testutil.SeedGuest(t, ctx, e.tx, venue.ID)

	if _, err := e.ledger.Earn(ctx, guest.ID, 100, types.SourceManual, "seed"); err != nil {
		t.Fatalf("earn: %v", err)
	}

	now := time.Now()
	cooldown, err := e.cooldowns.Gate(ctx, e.tx, guest.ID, types.CooldownGame, now)
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if err := e.cooldowns.Arm(ctx, e.tx, cooldown, now); err != nil {
		t.Fatalf("arm: %v", err)
	}
	var active *types.CooldownActiveError
	if _, err := e.cooldowns.Gate(ctx, e.tx, guest.ID, types.CooldownGame, now); !errors.As(err, &active) {
		t.Fatalf("second gate: want CooldownActiveError got=%v", err)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write exposition: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`vp_ledger_entries_total{source="MANUAL",direction="EARN"}`,
		`vp_cooldown_blocked_total{domain="game"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing series %q in exposition:\n%s", want, out)
		}
	}
}
