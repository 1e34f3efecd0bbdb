package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sadopc/moanitor/internal/model"
	"github.com/sadopc/moanitor/internal/stats"
	"github.com/sadopc/moanitor/internal/store"
)

const recentCount = 5

type logModel struct {
	store  *store.Store
	engine *stats.Engine
	now    func() time.Time
	width  int
	height int

	summary stats.Summary
	recent  []timedEntry

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formDate *string
	formSolo *bool
}

func newLogModel(s *store.Store, eng *stats.Engine) logModel {
	date, solo := "", false
	return logModel{
		store:    s,
		engine:   eng,
		now:      time.Now,
		formDate: &date,
		formSolo: &solo,
	}
}

func (l *logModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *logModel) setSnapshot(msg snapshotMsg) {
	l.summary = msg.result.Summary
	sorted := newestFirst(msg.entries, l.engine.Location())
	if len(sorted) > recentCount {
		sorted = sorted[:recentCount]
	}
	l.recent = sorted
}

func (l logModel) update(msg tea.Msg) (logModel, tea.Cmd) {
	if l.formActive && l.form != nil {
		return l.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Log):
			return l, l.addEntry(l.now(), false)
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Enter):
			return l.showForm()
		}
	}
	return l, nil
}

func (l logModel) showForm() (logModel, tea.Cmd) {
	loc := l.engine.Location()
	*l.formDate = l.now().In(loc).Format(inputLayout)
	*l.formSolo = false

	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("When").
				Description("YYYY-MM-DD HH:MM, " + loc.String()).
				Value(l.formDate).
				Validate(func(s string) error {
					_, err := parseInput(s, loc)
					return err
				}),
			huh.NewConfirm().
				Title("Solo?").
				Affirmative("Yes").
				Negative("No").
				Value(l.formSolo),
		).Title("New entry"),
	).WithShowHelp(true).WithShowErrors(true)

	l.formActive = true
	return l, l.form.Init()
}

func (l logModel) updateForm(msg tea.Msg) (logModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			l.formActive = false
			l.form = nil
			return l, nil
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.formActive = false
		l.form = nil
		at, err := parseInput(*l.formDate, l.engine.Location())
		if err != nil {
			return l, errStatus("Invalid date", err)
		}
		return l, l.addEntry(at, *l.formSolo)
	}

	return l, cmd
}

// addEntry stores a new entry and reports whether it set a new longest
// daily streak.
func (l logModel) addEntry(at time.Time, solo bool) tea.Cmd {
	return func() tea.Msg {
		before, err := l.store.ListEntries()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		e := model.Entry{ID: uuid.NewString(), Date: model.FormatDate(at), Solo: solo}
		if err := l.store.AddEntry(e); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		prev := l.engine.Compute(before).Summary.LongestDailyStreak
		next := l.engine.Compute(append(before, e)).Summary
		return entryAddedMsg{
			entry:  e,
			streak: next.CurrentDailyStreak,
			record: prev > 0 && next.LongestDailyStreak > prev,
		}
	}
}

func parseInput(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(inputLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD HH:MM")
	}
	return t, nil
}

func (l logModel) view() string {
	if l.width < 20 {
		return "Terminal too small"
	}

	w := l.width - 4

	if l.formActive && l.form != nil {
		return activePanelStyle.Width(w).Render(l.form.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		l.renderStreakPanel(w),
		l.renderRecentPanel(w),
	)
}

func (l logModel) renderStreakPanel(w int) string {
	s := l.summary
	big := streakStyle.Width(w - 6).Render(plural(s.CurrentDailyStreak, "day", "days"))
	label := mutedStyle.Render("current streak")

	weekly := fmt.Sprintf("%s in a row  ·  best %s",
		plural(s.CurrentWeeklyStreak, "week", "weeks"), plural(s.LongestDailyStreak, "day", "days"))

	hint := mutedStyle.Render("a: log now  n: log with date")
	if s.TotalEntries == 0 {
		hint = mutedStyle.Render("No entries yet. Press a to log one now.")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		big,
		label,
		highlightStyle.Render(weekly),
		"",
		hint,
	)
	return activePanelStyle.Width(w).Render(content)
}

func (l logModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent")
	if len(l.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing logged yet"),
		))
	}

	rows := []string{title}
	for _, te := range l.recent {
		dot := dotStyle.Render("●")
		if te.entry.Solo {
			dot = soloDotStyle.Render("●")
		}
		rows = append(rows, fmt.Sprintf("  %s %s", dot, formatEntryTime(te)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
