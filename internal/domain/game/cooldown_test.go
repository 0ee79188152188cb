package game

import (
	"testing"
	"time"
)

func TestCooldownTimeLeft(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cd := &Cooldown{
		Domain:          DomainGame,
		LastActivatedAt: &start,
		Duration:        DefaultCooldown,
	}

	if got := cd.TimeLeft(start); got != DefaultCooldown {
		t.Fatalf("at activation: want=%s got=%s", DefaultCooldown, got)
	}
	if got := cd.TimeLeft(start.Add(17 * time.Hour)); got != time.Hour {
		t.Fatalf("one hour before expiry: want=1h got=%s", got)
	}
	if got := cd.TimeLeft(start.Add(DefaultCooldown)); got != 0 {
		t.Fatalf("at expiry: want=0 got=%s", got)
	}
	if cd.IsActive(start.Add(DefaultCooldown)) {
		t.Fatalf("cooldown active at exact expiry instant")
	}
	if !cd.IsActive(start.Add(DefaultCooldown - time.Nanosecond)) {
		t.Fatalf("cooldown inactive just before expiry")
	}
}

func TestCooldownNeverActivated(t *testing.T) {
	now := time.Now()
	cd := &Cooldown{Domain: DomainShop, Duration: DefaultCooldown}
	if cd.IsActive(now) {
		t.Fatalf("never-activated cooldown reported active")
	}
	var nilCD *Cooldown
	if nilCD.TimeLeft(now) != 0 {
		t.Fatalf("nil cooldown should report zero time left")
	}
}

func TestDefaultDuration(t *testing.T) {
	for _, d := range []Domain{DomainGame, DomainQuest, DomainShop} {
		if got := DefaultDuration(d); got != DefaultCooldown {
			t.Fatalf("%s: want=%s got=%s", d, DefaultCooldown, got)
		}
	}
	if got := DefaultDuration(DomainInventory); got != DefaultInventoryCooldown {
		t.Fatalf("inventory: want=%s got=%s", DefaultInventoryCooldown, got)
	}
}
