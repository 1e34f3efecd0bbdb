package stats

import (
	"math"
	"time"
)

const secondsPerWeek = 7 * 24 * 60 * 60

// longestGap returns the largest calendar-day distance between
// chronologically adjacent times.
func longestGap(times []time.Time) int {
	gap := 0
	for i := 1; i < len(times); i++ {
		if d := daysBetween(times[i-1], times[i]); d > gap {
			gap = d
		}
	}
	return gap
}

// monthSpan counts calendar months from first to last, inclusive.
func monthSpan(first, last time.Time) int {
	years := last.Year() - first.Year()
	months := int(last.Month()) - int(first.Month())
	return years*12 + months + 1
}

// weekSpan counts whole weeks between first and last, plus one.
func weekSpan(first, last time.Time) int {
	secs := last.Sub(first).Seconds()
	return int(math.Floor(secs/secondsPerWeek)) + 1
}

func averages(times []time.Time) (perMonth, perWeek float64) {
	if len(times) == 0 {
		return 0, 0
	}
	first, last := times[0], times[len(times)-1]
	total := float64(len(times))
	perMonth = round2(total / float64(monthSpan(first, last)))
	perWeek = round2(total / float64(weekSpan(first, last)))
	return perMonth, perWeek
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
