package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/moanitor/internal/export"
	"github.com/sadopc/moanitor/internal/store"
)

type settingsForm int

const (
	formNone settingsForm = iota
	formPrefs
	formClear
	formImport
)

type settingsModel struct {
	store  *store.Store
	loc    *time.Location
	width  int
	height int

	settings []store.Setting
	count    int

	formActive bool
	form       *huh.Form
	formType   settingsForm

	// Form values as pointers (survive value copies)
	historyView *string
	notify      *string
	confirm     *bool
	importPath  *string
}

func newSettingsModel(s *store.Store, loc *time.Location) settingsModel {
	hv, n, p := "", "", ""
	c := false
	return settingsModel{
		store:       s,
		loc:         loc,
		historyView: &hv,
		notify:      &n,
		confirm:     &c,
		importPath:  &p,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	count    int
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		count, _ := s.store.CountEntries()
		return settingsDataMsg{settings: settings, count: count}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.count = msg.count
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showPrefsForm()
		case key.Matches(msg, keys.Clear):
			return s.showClearForm()
		case key.Matches(msg, keys.Import):
			return s.showImportForm()
		}
	}
	return s, nil
}

func (s settingsModel) showPrefsForm() (settingsModel, tea.Cmd) {
	*s.historyView = s.store.GetSettingOr(store.SettingHistoryView, store.HistoryCalendar)
	*s.notify = s.store.GetSettingOr(store.SettingNotify, "on")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("History view").
				Options(
					huh.NewOption("Calendar", store.HistoryCalendar),
					huh.NewOption("List", store.HistoryList),
				).Value(s.historyView),
			huh.NewSelect[string]().Title("Streak notifications").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(s.notify),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	return s.activate(formPrefs)
}

func (s settingsModel) showClearForm() (settingsModel, tea.Cmd) {
	*s.confirm = false
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all entries?").
				Description(fmt.Sprintf("%s will be removed. This cannot be undone.", plural(s.count, "entry", "entries"))).
				Affirmative("Delete").
				Negative("Cancel").
				Value(s.confirm),
		),
	).WithShowHelp(true)

	return s.activate(formClear)
}

func (s settingsModel) showImportForm() (settingsModel, tea.Cmd) {
	*s.importPath = ""
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Import from").
				Description("JSON export or app backup. Replaces all entries.").
				Value(s.importPath).
				Validate(func(p string) error {
					if strings.TrimSpace(p) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	return s.activate(formImport)
}

func (s settingsModel) activate(t settingsForm) (settingsModel, tea.Cmd) {
	s.formType = t
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		switch s.formType {
		case formPrefs:
			return s, s.savePrefs()
		case formClear:
			if *s.confirm {
				return s, s.clearEntries()
			}
			return s, nil
		case formImport:
			return s, s.importEntries(expandHome(strings.TrimSpace(*s.importPath)))
		}
	}

	return s, cmd
}

func (s settingsModel) savePrefs() tea.Cmd {
	hv, n := *s.historyView, *s.notify
	return func() tea.Msg {
		if err := s.store.SetSetting(store.SettingHistoryView, hv); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if err := s.store.SetSetting(store.SettingNotify, n); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsSavedMsg{historyView: hv}
	}
}

type settingsSavedMsg struct {
	historyView string
}

func (s settingsModel) clearEntries() tea.Cmd {
	return func() tea.Msg {
		if err := s.store.ClearEntries(); err != nil {
			return statusMsg{text: fmt.Sprintf("Clear error: %v", err), isError: true}
		}
		return entriesClearedMsg{}
	}
}

func (s settingsModel) importEntries(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := export.FromJSON(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		if err := s.store.ReplaceEntries(entries); err != nil {
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		return importDoneMsg{path: path, count: len(entries)}
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	label := lipgloss.NewStyle().Width(24)
	rows := []string{
		title,
		"",
		fmt.Sprintf("  %s %s", label.Render("entries"), highlightStyle.Render(fmt.Sprint(s.count))),
		fmt.Sprintf("  %s %s", label.Render("database"), highlightStyle.Render(s.store.Path())),
		fmt.Sprintf("  %s %s", label.Render("time zone"), highlightStyle.Render(s.loc.String())),
	}

	for _, setting := range s.settings {
		rows = append(rows, fmt.Sprintf("  %s %s", label.Render(setting.Key), highlightStyle.Render(setting.Value)))
	}

	rows = append(rows, "",
		mutedStyle.Render("enter: edit  e: export  i: import  x: clear all"),
	)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
