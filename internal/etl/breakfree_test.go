package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ivanovicnikola/shifts-etl/internal/repos"
)

func shiftDays(flags ...bool) []repos.ShiftDay {
	base := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	out := make([]repos.ShiftDay, len(flags))
	for i, hasBreak := range flags {
		out[i] = repos.ShiftDay{Day: base.AddDate(0, 0, i), HasBreak: hasBreak}
	}
	return out
}

func TestMaxBreakFreePeriod(t *testing.T) {
	tests := []struct {
		name string
		days []repos.ShiftDay
		want int
	}{
		{"no shifts", nil, 0},
		{"single day without break", shiftDays(false), 1},
		{"single day with break", shiftDays(true), 0},
		{"every day has a break", shiftDays(true, true, true), 0},
		{"no day has a break", shiftDays(false, false, false, false, false), 5},
		// Five consecutive daily shifts with one break on day 3: days 1-2
		// before the break, days 4-5 after it, and day 3 itself excluded.
		{"break on day three of five", shiftDays(false, false, true, false, false), 2},
		{"break on first day", shiftDays(true, false, false), 2},
		{"break on last day", shiftDays(false, false, false, true), 3},
		{"two breaks bracketing a long run", shiftDays(true, false, false, false, true, false), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxBreakFreePeriod(tt.days))
		})
	}
}
