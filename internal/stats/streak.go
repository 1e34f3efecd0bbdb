package stats

import (
	"slices"
	"time"
)

// Streaks holds current and longest runs of consecutive days and weeks.
type Streaks struct {
	CurrentDaily  int
	LongestDaily  int
	CurrentWeekly int
	LongestWeekly int
}

// calendarDay drops the clock from t, keeping the date as seen in t's
// location, and pins it to UTC so day arithmetic ignores DST.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(calendarDay(b).Sub(calendarDay(a)) / day)
}

// computeStreaks expects times sorted ascending and already in the
// bucketing location.
func computeStreaks(times []time.Time) Streaks {
	var s Streaks
	s.CurrentDaily, s.LongestDaily = dailyStreak(times)
	s.CurrentWeekly, s.LongestWeekly = weeklyStreak(times)
	return s
}

// dailyStreak walks adjacent pairs. A pair on the same date neither extends
// nor breaks the run.
func dailyStreak(times []time.Time) (current, longest int) {
	if len(times) == 0 {
		return 0, 0
	}
	current, longest = 1, 1
	for i := 1; i < len(times); i++ {
		switch diff := daysBetween(times[i-1], times[i]); {
		case diff == 1:
			current++
			if current > longest {
				longest = current
			}
		case diff > 1:
			current = 1
		}
	}
	return current, longest
}

func weeklyStreak(times []time.Time) (current, longest int) {
	keys := distinctWeeks(times)
	if len(keys) == 0 {
		return 0, 0
	}
	current, longest = 1, 1
	for i := 1; i < len(keys); i++ {
		if keys[i].Follows(keys[i-1]) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return current, longest
}

func distinctWeeks(times []time.Time) []WeekKey {
	seen := make(map[WeekKey]struct{}, len(times))
	keys := make([]WeekKey, 0, len(times))
	for _, t := range times {
		k := WeekKeyOf(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	slices.SortFunc(keys, WeekKey.Compare)
	return keys
}
