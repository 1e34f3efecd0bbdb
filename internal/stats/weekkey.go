package stats

import (
	"cmp"
	"fmt"
	"time"
)

const day = 24 * time.Hour

// WeekKey identifies an ISO-8601 week.
type WeekKey struct {
	Year int
	Week int
}

// WeekKeyOf returns the ISO week containing the calendar date of t. Only the
// year, month and day of t (in its own location) are used.
func WeekKeyOf(t time.Time) WeekKey {
	thursday := thursdayOf(t)
	isoYear := thursday.Year()
	firstThursday := thursdayOf(time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC))
	week := 1 + int(thursday.Sub(firstThursday)/(7*day))
	return WeekKey{Year: isoYear, Week: week}
}

// thursdayOf normalizes t to midnight UTC and moves it to the Thursday of
// its Monday-based week.
func thursdayOf(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	shift := (int(d.Weekday())+6)%7 - 3
	return d.AddDate(0, 0, -shift)
}

// Compare orders keys by year, then week.
func (k WeekKey) Compare(o WeekKey) int {
	if c := cmp.Compare(k.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(k.Week, o.Week)
}

// Less reports whether k sorts before o.
func (k WeekKey) Less(o WeekKey) bool {
	return k.Compare(o) < 0
}

// Follows reports whether k is the week right after prev. Rollover accepts
// week 1 after either week 52 or 53 without checking the year's length.
func (k WeekKey) Follows(prev WeekKey) bool {
	if k.Year == prev.Year {
		return k.Week == prev.Week+1
	}
	return k.Year == prev.Year+1 && prev.Week >= 52 && k.Week == 1
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
}
