package tui

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/moanitor/internal/logger"
	"github.com/sadopc/moanitor/internal/model"
	"github.com/sadopc/moanitor/internal/stats"
	"github.com/sadopc/moanitor/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewLog viewState = iota
	viewHistory
	viewStats
	viewSettings
)

var viewNames = []string{"Log", "History", "Stats", "Settings"}

// inputLayout is how dates are typed into forms.
const inputLayout = "2006-01-02 15:04"

// --- Messages ---

// snapshotMsg carries a fresh read of the store and its summary.
type snapshotMsg struct {
	entries []model.Entry
	result  stats.Result
}

type entryAddedMsg struct {
	entry  model.Entry
	streak int
	record bool
}

type entryDeletedMsg struct {
	id string
}

type entriesClearedMsg struct{}

type importDoneMsg struct {
	path  string
	count int
}

type exportDoneMsg struct {
	path string
}

type dbChangedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

// --- Commands ---

func loadSnapshot(s *store.Store, eng *stats.Engine) tea.Cmd {
	return func() tea.Msg {
		entries, err := s.ListEntries()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		res := eng.Compute(entries)
		for _, w := range res.Warnings {
			logger.Warn("skipping entry", "id", w.ID, "date", w.Date, "error", w.Err)
		}
		return snapshotMsg{entries: entries, result: res}
	}
}

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

// --- Helpers ---

// timedEntry pairs an entry with its parsed instant. ok is false for
// entries whose date cannot be parsed.
type timedEntry struct {
	entry model.Entry
	at    time.Time
	ok    bool
}

func timedFromEntry(e model.Entry, loc *time.Location) timedEntry {
	t, err := e.Time()
	return timedEntry{entry: e, at: t.In(loc), ok: err == nil}
}

// newestFirst sorts entries by instant, newest first. Unparseable entries
// go last in their stored order.
func newestFirst(entries []model.Entry, loc *time.Location) []timedEntry {
	out := make([]timedEntry, len(entries))
	for i, e := range entries {
		out[i] = timedFromEntry(e, loc)
	}
	slices.SortStableFunc(out, func(a, b timedEntry) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return cmp.Compare(b.at.UnixNano(), a.at.UnixNano())
	})
	return out
}

func formatEntryTime(te timedEntry) string {
	if !te.ok {
		return "invalid date"
	}
	return te.at.Format("Mon Jan 02 2006  15:04")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// firstOfMonth returns midnight on the first day of t's month in t's location.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
