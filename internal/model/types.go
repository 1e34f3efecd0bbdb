// Package model holds the types shared between storage, analytics and views.
package model

import "time"

// DateLayout is the layout used when writing entry timestamps. It matches
// JavaScript's toISOString so exported files stay readable by older clients.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is one logged event.
type Entry struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Solo bool   `json:"solo,omitempty"`
}

// Time parses the entry timestamp.
func (e Entry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Date)
}

// FormatDate renders t the way entry timestamps are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
