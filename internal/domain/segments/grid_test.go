package segments

import (
	"strings"
	"testing"
)

func quadrantGrid() []RFSegment {
	return []RFSegment{
		{Code: "active_low", Name: "Active Low", RecencyMin: 0, RecencyMax: 30, FrequencyMin: 0, FrequencyMax: 4},
		{Code: "active_high", Name: "Active High", RecencyMin: 0, RecencyMax: 30, FrequencyMin: 5, FrequencyMax: RecencySentinel},
		{Code: "idle_low", Name: "Idle Low", RecencyMin: 31, RecencyMax: RecencySentinel, FrequencyMin: 0, FrequencyMax: 4},
		{Code: "idle_high", Name: "Idle High", RecencyMin: 31, RecencyMax: RecencySentinel, FrequencyMin: 5, FrequencyMax: RecencySentinel},
	}
}

func TestValidateGridAcceptsPartition(t *testing.T) {
	if err := ValidateGrid(quadrantGrid()); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}
}

func TestValidateGridRejectsGap(t *testing.T) {
	grid := quadrantGrid()
	// Shrink one cell so recency 31 with low frequency matches nothing.
	grid[2].RecencyMin = 32
	err := ValidateGrid(grid)
	if err == nil {
		t.Fatalf("gapped grid accepted")
	}
	if !strings.Contains(err.Error(), "no segment covers") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateGridRejectsOverlap(t *testing.T) {
	grid := quadrantGrid()
	grid[0].RecencyMax = 31
	err := ValidateGrid(grid)
	if err == nil {
		t.Fatalf("overlapping grid accepted")
	}
	if !strings.Contains(err.Error(), "overlap") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateGridRejectsBadRows(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(grid []RFSegment)
	}{
		{"empty code", func(g []RFSegment) { g[0].Code = "" }},
		{"duplicate code", func(g []RFSegment) { g[1].Code = g[0].Code }},
		{"inverted recency", func(g []RFSegment) { g[0].RecencyMin = 40 }},
		{"negative frequency", func(g []RFSegment) { g[0].FrequencyMin = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid := quadrantGrid()
			tc.mutate(grid)
			if err := ValidateGrid(grid); err == nil {
				t.Fatalf("invalid grid accepted")
			}
		})
	}
	if err := ValidateGrid(nil); err == nil {
		t.Fatalf("empty grid accepted")
	}
}

func TestClassify(t *testing.T) {
	grid := quadrantGrid()

	seg, ok := Classify(grid, 10, 2)
	if !ok || seg.Code != "active_low" {
		t.Fatalf("want active_low got=%v ok=%v", seg, ok)
	}
	seg, ok = Classify(grid, RecencySentinel, RecencySentinel)
	if !ok || seg.Code != "idle_high" {
		t.Fatalf("sentinel guest: want idle_high got=%v ok=%v", seg, ok)
	}
	if _, ok := Classify(grid[:1], 50, 50); ok {
		t.Fatalf("classified outside a partial grid")
	}
}
