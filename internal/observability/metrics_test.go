package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func testMetrics(t *testing.T) *Metrics {
	t.Helper()
	t.Setenv("METRICS_ENABLED", "true")
	m := Init(nil)
	if m == nil {
		t.Fatal("metrics instance not initialized")
	}
	return m
}

func TestDomainSeriesExposition(t *testing.T) {
	m := testMetrics(t)

	m.IncRewardOutcome("coin", 2000)
	m.IncLedgerEntry("GAME", "EARN", 2000)
	m.IncCooldownBlocked("game")
	m.IncTicketEvent("claimed")
	m.ObserveRecompute("ok", 1500*time.Millisecond)
	m.IncSegmentMigration()
	m.AddSnapshotWrites(9)
	m.ObserveActivity("recompute_all", "ok", 2*time.Second)
	m.ObserveActivity("recompute_all", "failed", time.Second)
	m.IncBusPublish("ok")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write exposition: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`vp_reward_outcomes_total{outcome="coin"} 1`,
		`vp_reward_coins_total 2000`,
		`vp_ledger_entries_total{source="GAME",direction="EARN"} 1`,
		`vp_ledger_points_total{source="GAME",direction="EARN"} 2000`,
		`vp_cooldown_blocked_total{domain="game"} 1`,
		`vp_ticket_events_total{event="claimed"} 1`,
		`vp_segment_recompute_duration_seconds_count{status="ok"} 1`,
		`vp_segment_migrations_total 1`,
		`vp_segment_snapshot_writes_total 9`,
		`vp_worker_activity_duration_seconds_count{activity="recompute_all",status="ok"} 1`,
		`vp_worker_activity_total 2`,
		`vp_worker_activity_error_total 1`,
		`vp_bus_publish_total{status="ok"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing series %q in exposition:\n%s", want, out)
		}
	}
}
