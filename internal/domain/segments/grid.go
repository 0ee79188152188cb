package segments

import (
	"fmt"
	"sort"
)

// Classify finds the segment whose ranges contain the pair. Grids are
// validated on save, so at most one segment can match.
func Classify(grid []RFSegment, recencyDays, frequency int) (*RFSegment, bool) {
	for i := range grid {
		if grid[i].Contains(recencyDays, frequency) {
			return &grid[i], true
		}
	}
	return nil, false
}

// ValidateGrid rejects a segment grid that does not partition the
// recency/frequency space. Every pair in [0, RecencySentinel] x
// [0, RecencySentinel] must fall in exactly one segment, otherwise a
// guest could end up unscored or ambiguously scored.
func ValidateGrid(grid []RFSegment) error {
	if len(grid) == 0 {
		return fmt.Errorf("segment grid is empty")
	}

	seen := make(map[string]bool, len(grid))
	for i := range grid {
		s := &grid[i]
		if s.Code == "" {
			return fmt.Errorf("segment %q has no code", s.Name)
		}
		if seen[s.Code] {
			return fmt.Errorf("duplicate segment code %q", s.Code)
		}
		seen[s.Code] = true

		if s.RecencyMin < 0 || s.RecencyMax > RecencySentinel || s.RecencyMin > s.RecencyMax {
			return fmt.Errorf("segment %q: invalid recency range [%d, %d]", s.Code, s.RecencyMin, s.RecencyMax)
		}
		if s.FrequencyMin < 0 || s.FrequencyMax > RecencySentinel || s.FrequencyMin > s.FrequencyMax {
			return fmt.Errorf("segment %q: invalid frequency range [%d, %d]", s.Code, s.FrequencyMin, s.FrequencyMax)
		}
	}

	// Coverage only changes at range boundaries, so checking one
	// representative point per boundary cell checks the whole space.
	recencyCuts := cutPoints(grid, func(s *RFSegment) (int, int) { return s.RecencyMin, s.RecencyMax })
	frequencyCuts := cutPoints(grid, func(s *RFSegment) (int, int) { return s.FrequencyMin, s.FrequencyMax })

	for _, r := range recencyCuts {
		for _, f := range frequencyCuts {
			matches := 0
			for i := range grid {
				if grid[i].Contains(r, f) {
					matches++
				}
			}
			if matches == 0 {
				return fmt.Errorf("no segment covers recency=%d frequency=%d", r, f)
			}
			if matches > 1 {
				return fmt.Errorf("%d segments overlap at recency=%d frequency=%d", matches, r, f)
			}
		}
	}
	return nil
}

func cutPoints(grid []RFSegment, ranges func(*RFSegment) (int, int)) []int {
	set := map[int]bool{0: true}
	for i := range grid {
		lo, hi := ranges(&grid[i])
		set[lo] = true
		if hi+1 <= RecencySentinel {
			set[hi+1] = true
		}
	}
	cuts := make([]int, 0, len(set))
	for v := range set {
		cuts = append(cuts, v)
	}
	sort.Ints(cuts)
	return cuts
}
