package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gen2brain/beeep"
	"github.com/sadopc/moanitor/internal/config"
	"github.com/sadopc/moanitor/internal/export"
	"github.com/sadopc/moanitor/internal/logger"
	"github.com/sadopc/moanitor/internal/stats"
	"github.com/sadopc/moanitor/internal/store"
)

// notify sends a desktop notification. Tests replace it.
var notify = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// App is the root Bubble Tea model.
type App struct {
	store   *store.Store
	engine  *stats.Engine
	notify  bool
	watcher *dbWatcher
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	log      logModel
	history  historyModel
	stats    statsModel
	settings settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, cfg *config.Config) App {
	h := help.New()
	h.ShowAll = false

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	eng := stats.New(loc)

	a := App{
		store:      s,
		engine:     eng,
		notify:     cfg.Notify,
		activeView: viewLog,
		log:        newLogModel(s, eng),
		history:    newHistoryModel(s, loc),
		stats:      newStatsModel(loc),
		settings:   newSettingsModel(s, loc),
		help:       h,
	}

	if s.Path() != ":memory:" {
		w, err := watchDB(s.Path())
		if err != nil {
			logger.Warn("live reload disabled", "error", err)
		} else {
			a.watcher = w
		}
	}
	return a
}

// Close releases the database watcher.
func (a App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.reload(), a.settings.refresh()}
	if a.watcher != nil {
		cmds = append(cmds, waitForChange(a.watcher.changes))
	}
	return tea.Batch(cmds...)
}

func (a App) reload() tea.Cmd {
	return loadSnapshot(a.store, a.engine)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.log.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewLog
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStats
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		}

	case snapshotMsg:
		a.log.setSnapshot(msg)
		a.history.setSnapshot(msg)
		a.stats.setSnapshot(msg)
		return a, nil

	case entryAddedMsg:
		a.status = fmt.Sprintf("Logged %s", formatEntryTime(timedFromEntry(msg.entry, a.engine.Location())))
		cmds := []tea.Cmd{a.reload(), a.settings.refresh()}
		if msg.record {
			a.status = fmt.Sprintf("New record: %s in a row!", plural(msg.streak, "day", "days"))
			cmds = append(cmds, a.notifyRecord(msg.streak))
		}
		return a, tea.Batch(cmds...)

	case entryDeletedMsg:
		a.status = "Entry deleted"
		return a, tea.Batch(a.reload(), a.settings.refresh())

	case entriesClearedMsg:
		a.status = "All entries removed"
		return a, tea.Batch(a.reload(), a.settings.refresh())

	case importDoneMsg:
		a.status = fmt.Sprintf("Imported %s from %s", plural(msg.count, "entry", "entries"), msg.path)
		return a, tea.Batch(a.reload(), a.settings.refresh())

	case settingsSavedMsg:
		a.history.mode = msg.historyView
		a.status = "Settings saved"
		return a, a.settings.refresh()

	case dbChangedMsg:
		cmds := []tea.Cmd{a.reload(), a.settings.refresh()}
		if a.watcher != nil {
			cmds = append(cmds, waitForChange(a.watcher.changes))
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			logger.Error(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// notifyRecord sends a notification when both the config and the stored
// preference allow it.
func (a App) notifyRecord(streak int) tea.Cmd {
	if !a.notify {
		return nil
	}
	return func() tea.Msg {
		if a.store.GetSettingOr(store.SettingNotify, "on") != "on" {
			return nil
		}
		body := fmt.Sprintf("%s in a row. Longest streak yet!", plural(streak, "day", "days"))
		if err := notify("moanitor", body); err != nil {
			logger.Warn("notification failed", "error", err)
		}
		return nil
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewLog:
		a.log, cmd = a.log.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewLog:
		return a.log.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewLog:
		content = a.log.view()
	case viewHistory:
		content = a.history.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("moanitor")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Streak indicator in footer
	streak := ""
	if n := a.log.summary.CurrentDailyStreak; n > 0 {
		streak = successStyle.Render(fmt.Sprintf(" ● %dd", n))
	}

	left := footerStyle.Render(helpView)
	right := streak + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"JSON", "CSV"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.store.ListEntries()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().In(a.engine.Location()).Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("moanitor-export-%s.json", dateStr))
			if err := export.ToJSON(entries, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("moanitor-export-%s.csv", dateStr))
			if err := export.ToCSV(entries, a.engine.Location(), path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
