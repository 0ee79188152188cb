package game

import "testing"

func TestDailyCodeMatches(t *testing.T) {
	dc := &DailyCode{Code: "AB12"}
	for _, submitted := range []string{"AB12", "ab12", " ab12 ", "Ab12"} {
		if !dc.Matches(submitted) {
			t.Fatalf("%q should match stored code", submitted)
		}
	}
	for _, submitted := range []string{"", "AB13", "AB1"} {
		if dc.Matches(submitted) {
			t.Fatalf("%q should not match stored code", submitted)
		}
	}
	var missing *DailyCode
	if missing.Matches("AB12") {
		t.Fatalf("nil daily code should never match")
	}
}
