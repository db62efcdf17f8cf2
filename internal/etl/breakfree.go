package etl

import "github.com/ivanovicnikola/shifts-etl/internal/repos"

// MaxBreakFreePeriod returns the longest run of shift-days with no break
// attached, over shift-days ordered by date.
//
// A break-bearing day closes the current run and opens a new group that
// contains itself; that boundary day is never counted as break-free, so every
// group after the first contributes its size minus one. The leading group has
// no boundary day and counts whole. Zero when there are no shift-days, or
// when every day carries a break.
func MaxBreakFreePeriod(days []repos.ShiftDay) int {
	best := 0
	size := 0 // days in the current group
	adj := 0  // 1 once the current group is opened by a break-bearing day

	for _, d := range days {
		if d.HasBreak {
			if size-adj > best {
				best = size - adj
			}
			size, adj = 1, 1
			continue
		}
		size++
	}
	if size-adj > best {
		best = size - adj
	}
	return best
}
