package store

import "errors"

// ErrNotFound is returned when an entry or setting does not exist.
var ErrNotFound = errors.New("not found")

type Setting struct {
	Key   string
	Value string
}

// Setting keys and their accepted values.
const (
	SettingHistoryView = "history_view"
	SettingNotify      = "notify"

	HistoryCalendar = "calendar"
	HistoryList     = "list"
)
