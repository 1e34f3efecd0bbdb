// Package stats derives streaks, gaps, frequency tallies and time-of-day
// patterns from a snapshot of logged entries.
//
// Every bucketing step (calendar day, ISO week, month, hour) happens in the
// location the Engine was built with, so results do not depend on the
// machine's zone.
package stats

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/sadopc/moanitor/internal/model"
)

// Summary is the statistics record for one snapshot. It is a value type; a
// zero Summary is what an empty snapshot produces.
type Summary struct {
	TotalEntries int `json:"total_entries"`
	SoloCount    int `json:"solo_count"`
	NotSoloCount int `json:"not_solo_count"`

	MostFrequentDays   []time.Weekday `json:"most_frequent_days"`
	MostFrequentMonths []time.Month   `json:"most_frequent_months"`

	FirstEntry *time.Time `json:"first_entry"`
	LastEntry  *time.Time `json:"last_entry"`

	LongestDailyStreak  int `json:"longest_daily_streak"`
	CurrentDailyStreak  int `json:"current_daily_streak"`
	LongestWeeklyStreak int `json:"longest_weekly_streak"`
	CurrentWeeklyStreak int `json:"current_weekly_streak"`
	LongestGapDays      int `json:"longest_gap_days"`

	EarliestHour      string `json:"earliest_hour"`
	LatestHour        string `json:"latest_hour"`
	FavoriteTimeOfDay string `json:"favorite_time_of_day"`

	AvgPerMonth float64 `json:"avg_per_month"`
	AvgPerWeek  float64 `json:"avg_per_week"`

	Frequency Frequency `json:"frequency"`
}

// MalformedEntryWarning reports an entry left out because its date could not
// be parsed.
type MalformedEntryWarning struct {
	ID   string
	Date string
	Err  error
}

func (w MalformedEntryWarning) Error() string {
	return fmt.Sprintf("entry %q: malformed date %q: %v", w.ID, w.Date, w.Err)
}

func (w MalformedEntryWarning) Unwrap() error { return w.Err }

// Result bundles a summary with the entries that were skipped.
type Result struct {
	Summary  Summary
	Warnings []MalformedEntryWarning
}

// TimedEntry is an entry paired with its parsed instant in the engine's
// location.
type TimedEntry struct {
	Entry model.Entry
	At    time.Time
}

// Observer receives intermediate results of a computation.
type Observer interface {
	Sorted(entries []TimedEntry)
	Counted(f Frequency)
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver attaches an observer. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine computes summaries. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	loc      *time.Location
	observer Observer
}

// New builds an engine bucketing in loc. A nil loc means UTC.
func New(loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{loc: loc}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the bucketing location.
func (e *Engine) Location() *time.Location { return e.loc }

// Compute is shorthand for New(loc).Compute(entries).
func Compute(entries []model.Entry, loc *time.Location) Result {
	return New(loc).Compute(entries)
}

// Compute summarizes entries. The input slice is not modified.
func (e *Engine) Compute(entries []model.Entry) Result {
	timed, warnings := e.parse(entries)
	res := Result{Warnings: warnings}
	if len(timed) == 0 {
		return res
	}

	slices.SortStableFunc(timed, func(a, b TimedEntry) int {
		return cmp.Compare(a.At.UnixNano(), b.At.UnixNano())
	})
	if e.observer != nil {
		e.observer.Sorted(slices.Clone(timed))
	}

	times := make([]time.Time, len(timed))
	var s Summary
	for i, te := range timed {
		times[i] = te.At
		if te.Entry.Solo {
			s.SoloCount++
		}
	}
	s.TotalEntries = len(timed)
	s.NotSoloCount = s.TotalEntries - s.SoloCount

	freq := computeFrequency(times)
	if e.observer != nil {
		e.observer.Counted(freq)
	}
	s.Frequency = freq
	s.MostFrequentDays = freq.MostFrequentWeekdays()
	s.MostFrequentMonths = freq.MostFrequentMonths()
	if tod, ok := freq.FavoriteTimeOfDay(); ok {
		s.FavoriteTimeOfDay = tod.String()
	}
	if earliest, latest, ok := freq.HourRange(); ok {
		s.EarliestHour = FormatHour(earliest)
		s.LatestHour = FormatHour(latest)
	}

	first, last := times[0], times[len(times)-1]
	s.FirstEntry = &first
	s.LastEntry = &last

	streaks := computeStreaks(times)
	s.CurrentDailyStreak = streaks.CurrentDaily
	s.LongestDailyStreak = streaks.LongestDaily
	s.CurrentWeeklyStreak = streaks.CurrentWeekly
	s.LongestWeeklyStreak = streaks.LongestWeekly

	s.LongestGapDays = longestGap(times)
	s.AvgPerMonth, s.AvgPerWeek = averages(times)

	res.Summary = s
	return res
}

func (e *Engine) parse(entries []model.Entry) ([]TimedEntry, []MalformedEntryWarning) {
	timed := make([]TimedEntry, 0, len(entries))
	var warnings []MalformedEntryWarning
	for _, en := range entries {
		t, err := en.Time()
		if err != nil {
			warnings = append(warnings, MalformedEntryWarning{ID: en.ID, Date: en.Date, Err: err})
			continue
		}
		timed = append(timed, TimedEntry{Entry: en, At: t.In(e.loc)})
	}
	return timed, warnings
}
