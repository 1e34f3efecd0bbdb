package stats

import (
	"fmt"
	"time"
)

// TimeOfDay is one of the four fixed local-hour windows.
type TimeOfDay int

const (
	Morning TimeOfDay = iota
	Afternoon
	Evening
	Night
)

var timeOfDayLabels = [...]string{
	Morning:   "Morning (5am–11am)",
	Afternoon: "Afternoon (12pm–4pm)",
	Evening:   "Evening (5pm–8pm)",
	Night:     "Night (9pm–4am)",
}

func (t TimeOfDay) String() string {
	return timeOfDayLabels[t]
}

// TimeOfDayOf buckets an hour in [0,23].
func TimeOfDayOf(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour <= 11:
		return Morning
	case hour >= 12 && hour <= 16:
		return Afternoon
	case hour >= 17 && hour <= 20:
		return Evening
	default:
		return Night
	}
}

// Frequency holds the raw tallies behind the mode sets.
type Frequency struct {
	Weekdays   [7]int  `json:"weekdays"`
	Months     [12]int `json:"months"`
	TimesOfDay [4]int  `json:"times_of_day"`
	Hours      [24]int `json:"hours"`
}

// Weekday returns the count for d.
func (f Frequency) Weekday(d time.Weekday) int { return f.Weekdays[d] }

// Month returns the count for m.
func (f Frequency) Month(m time.Month) int { return f.Months[m-1] }

func computeFrequency(times []time.Time) Frequency {
	var f Frequency
	for _, t := range times {
		f.Weekdays[t.Weekday()]++
		f.Months[t.Month()-1]++
		f.TimesOfDay[TimeOfDayOf(t.Hour())]++
		f.Hours[t.Hour()]++
	}
	return f
}

// MostFrequentWeekdays returns every weekday tied at the highest non-zero
// count, Sunday first.
func (f Frequency) MostFrequentWeekdays() []time.Weekday {
	var out []time.Weekday
	for _, i := range modeIndexes(f.Weekdays[:]) {
		out = append(out, time.Weekday(i))
	}
	return out
}

// MostFrequentMonths returns every month tied at the highest non-zero count.
func (f Frequency) MostFrequentMonths() []time.Month {
	var out []time.Month
	for _, i := range modeIndexes(f.Months[:]) {
		out = append(out, time.Month(i+1))
	}
	return out
}

// FavoriteTimeOfDay returns the first window holding the highest count.
// ok is false when nothing was counted.
func (f Frequency) FavoriteTimeOfDay() (TimeOfDay, bool) {
	best, top := Morning, 0
	for i, n := range f.TimesOfDay {
		if n > top {
			best, top = TimeOfDay(i), n
		}
	}
	return best, top > 0
}

// HourRange returns the earliest and latest hour seen.
func (f Frequency) HourRange() (earliest, latest int, ok bool) {
	earliest, latest = -1, -1
	for h, n := range f.Hours {
		if n == 0 {
			continue
		}
		if earliest < 0 {
			earliest = h
		}
		latest = h
	}
	return earliest, latest, earliest >= 0
}

func modeIndexes(counts []int) []int {
	top := 0
	for _, n := range counts {
		if n > top {
			top = n
		}
	}
	if top == 0 {
		return nil
	}
	var out []int
	for i, n := range counts {
		if n == top {
			out = append(out, i)
		}
	}
	return out
}

// FormatHour renders an hour on a 12-hour clock: 0 -> "12:00 AM".
func FormatHour(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}
