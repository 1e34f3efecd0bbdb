package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/moanitor/internal/stats"
	"github.com/sadopc/moanitor/internal/store"
)

// maxDots is how many markers a calendar cell shows before "+".
const maxDots = 3

type historyModel struct {
	store *store.Store
	loc   *time.Location
	now   func() time.Time

	width  int
	height int

	mode    string // store.HistoryCalendar or store.HistoryList
	month   time.Time
	markers map[string][]stats.Marker
	list    []timedEntry
	cursor  int
}

func newHistoryModel(s *store.Store, loc *time.Location) historyModel {
	h := historyModel{
		store: s,
		loc:   loc,
		now:   time.Now,
		mode:  s.GetSettingOr(store.SettingHistoryView, store.HistoryCalendar),
	}
	h.month = firstOfMonth(h.now().In(loc))
	return h
}

func (h *historyModel) setSize(w, height int) {
	h.width = w
	h.height = height
}

func (h *historyModel) setSnapshot(msg snapshotMsg) {
	h.markers = stats.MarkedDates(msg.entries, h.loc)
	h.list = newestFirst(msg.entries, h.loc)
	if h.cursor >= len(h.list) {
		h.cursor = max(0, len(h.list)-1)
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch {
	case key.Matches(km, keys.ToggleView):
		if h.mode == store.HistoryList {
			h.mode = store.HistoryCalendar
		} else {
			h.mode = store.HistoryList
		}
		mode := h.mode
		return h, func() tea.Msg {
			if err := h.store.SetSetting(store.SettingHistoryView, mode); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return nil
		}
	}

	if h.mode == store.HistoryList {
		return h.updateList(km)
	}

	switch {
	case key.Matches(km, keys.Left):
		h.month = h.month.AddDate(0, -1, 0)
	case key.Matches(km, keys.Right):
		h.month = h.month.AddDate(0, 1, 0)
	}
	return h, nil
}

func (h historyModel) updateList(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(msg, keys.Down):
		if h.cursor < len(h.list)-1 {
			h.cursor++
		}
	case key.Matches(msg, keys.Delete):
		if len(h.list) == 0 {
			return h, nil
		}
		id := h.list[h.cursor].entry.ID
		return h, func() tea.Msg {
			if err := h.store.DeleteEntry(id); err != nil {
				return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
			}
			return entryDeletedMsg{id: id}
		}
	}
	return h, nil
}

func (h historyModel) view() string {
	w := h.width - 4
	if h.mode == store.HistoryList {
		return panelStyle.Width(w).Render(h.renderList())
	}
	return panelStyle.Width(w).Render(h.renderCalendar())
}

// renderCalendar draws a Monday-first month grid with one dot per entry.
func (h historyModel) renderCalendar() string {
	title := titleStyle.Render(h.month.Format("January 2006"))

	var b strings.Builder
	for _, d := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-7s", d)))
	}
	rows := []string{title, "", b.String()}

	today := stats.DateKey(h.now(), h.loc)
	lead := (int(h.month.Weekday()) + 6) % 7
	days := h.month.AddDate(0, 1, -1).Day()

	var cells []string
	for range lead {
		cells = append(cells, strings.Repeat(" ", 7))
	}
	total := 0
	for d := 1; d <= days; d++ {
		date := time.Date(h.month.Year(), h.month.Month(), d, 0, 0, 0, 0, h.loc)
		k := date.Format(stats.DateKeyLayout)
		num := fmt.Sprintf("%2d", d)
		if k == today {
			num = todayStyle.Render(num)
		}
		total += len(h.markers[k])
		cells = append(cells, num+" "+renderDots(h.markers[k]))
	}

	for i := 0; i < len(cells); i += 7 {
		end := min(i+7, len(cells))
		rows = append(rows, strings.Join(cells[i:end], ""), "")
	}

	rows = append(rows,
		mutedStyle.Render(fmt.Sprintf("%s this month", plural(total, "entry", "entries"))),
		"",
		fmt.Sprintf("%s solo  %s with someone", soloDotStyle.Render("●"), dotStyle.Render("●")),
		mutedStyle.Render("←/→: month  v: list view"),
	)
	return strings.Join(rows, "\n")
}

// renderDots returns a fixed-width run of colored dots.
func renderDots(markers []stats.Marker) string {
	var b strings.Builder
	n := 0
	for _, m := range markers {
		if n == maxDots {
			break
		}
		if m.Solo {
			b.WriteString(soloDotStyle.Render("●"))
		} else {
			b.WriteString(dotStyle.Render("●"))
		}
		n++
	}
	if len(markers) > maxDots {
		b.WriteString(mutedStyle.Render("+"))
		n++
	}
	b.WriteString(strings.Repeat(" ", maxDots+1-n))
	return b.String()
}

func (h historyModel) renderList() string {
	title := titleStyle.Render("History")
	if len(h.list) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("No entries yet"))
	}

	rows := []string{title, ""}

	// Keep the cursor on screen.
	visible := max(1, h.height-8)
	start := 0
	if h.cursor >= visible {
		start = h.cursor - visible + 1
	}
	end := min(start+visible, len(h.list))

	for i := start; i < end; i++ {
		te := h.list[i]
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		tag := ""
		if te.entry.Solo {
			tag = soloDotStyle.Render(" solo")
		}
		line := formatEntryTime(te)
		if !te.ok {
			line = errorStyle.Render(fmt.Sprintf("%s (%q)", line, te.entry.Date))
		}
		rows = append(rows, style.Render(cursor+line)+tag)
	}

	rows = append(rows, "", mutedStyle.Render(fmt.Sprintf("  %s  ·  d: delete  v: calendar view", plural(len(h.list), "entry", "entries"))))
	return strings.Join(rows, "\n")
}
