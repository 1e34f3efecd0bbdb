package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/moanitor/internal/config"
	"github.com/sadopc/moanitor/internal/export"
	"github.com/sadopc/moanitor/internal/model"
	"github.com/sadopc/moanitor/internal/stats"
	"github.com/sadopc/moanitor/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig() *config.Config {
	return &config.Config{Location: time.UTC, Notify: true}
}

func addEntry(t *testing.T, s *store.Store, id, date string, solo bool) {
	t.Helper()
	if err := s.AddEntry(model.Entry{ID: id, Date: date, Solo: solo}); err != nil {
		t.Fatalf("add entry: %v", err)
	}
}

func snapshot(t *testing.T, s *store.Store) snapshotMsg {
	t.Helper()
	msg, ok := loadSnapshot(s, stats.New(time.UTC))().(snapshotMsg)
	if !ok {
		t.Fatal("loadSnapshot did not return a snapshot")
	}
	return msg
}

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
}

// ============================================================
// Helper functions
// ============================================================

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 days"},
		{1, "1 day"},
		{2, "2 days"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "day", "days"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFirstOfMonth(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	got := firstOfMonth(time.Date(2024, time.February, 29, 23, 59, 0, 0, tokyo))
	want := time.Date(2024, time.February, 1, 0, 0, 0, 0, tokyo)
	if !got.Equal(want) {
		t.Fatalf("firstOfMonth = %v, want %v", got, want)
	}
}

func TestNewestFirst(t *testing.T) {
	entries := []model.Entry{
		{ID: "old", Date: "2024-01-01T10:00:00.000Z"},
		{ID: "bad", Date: "yesterday"},
		{ID: "new", Date: "2024-03-01T10:00:00.000Z"},
		{ID: "mid", Date: "2024-02-01T10:00:00.000Z"},
	}

	got := newestFirst(entries, time.UTC)
	want := []string{"new", "mid", "old", "bad"}
	for i, id := range want {
		if got[i].entry.ID != id {
			t.Fatalf("position %d = %q, want %q", i, got[i].entry.ID, id)
		}
	}
	if got[3].ok {
		t.Fatal("malformed entry should not be ok")
	}
	if formatEntryTime(got[3]) != "invalid date" {
		t.Fatalf("formatEntryTime = %q", formatEntryTime(got[3]))
	}
}

func TestParseInput(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	got, err := parseInput(" 2024-03-10 07:30 ", tokyo)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, time.March, 9, 22, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parseInput = %v, want %v", got.UTC(), want)
	}

	for _, bad := range []string{"", "2024-03-10", "10/03/2024 07:30", "2024-13-01 00:00"} {
		if _, err := parseInput(bad, tokyo); err == nil {
			t.Errorf("parseInput(%q) should fail", bad)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := expandHome("~/backup.json"); got != filepath.Join(home, "backup.json") {
		t.Fatalf("expandHome = %q", got)
	}
	if got := expandHome("/tmp/x.json"); got != "/tmp/x.json" {
		t.Fatalf("absolute path changed: %q", got)
	}
}

// ============================================================
// Log view
// ============================================================

func TestLogAddEntry(t *testing.T) {
	s := newTestStore(t)
	l := newLogModel(s, stats.New(time.UTC))

	msg := l.addEntry(fixedNow(), true)()
	added, ok := msg.(entryAddedMsg)
	if !ok {
		t.Fatalf("expected entryAddedMsg, got %T", msg)
	}
	if added.entry.ID == "" || !added.entry.Solo {
		t.Fatalf("unexpected entry: %+v", added.entry)
	}
	if added.entry.Date != "2024-03-15T12:00:00.000Z" {
		t.Fatalf("date = %q", added.entry.Date)
	}
	if added.record {
		t.Fatal("first entry is not a record")
	}

	stored, err := s.GetEntry(added.entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Date != added.entry.Date {
		t.Fatal("entry not persisted")
	}
}

func TestLogAddEntryRecord(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-13T09:00:00.000Z", false)
	addEntry(t, s, "b", "2024-03-14T09:00:00.000Z", false)
	l := newLogModel(s, stats.New(time.UTC))

	added := l.addEntry(fixedNow(), false)().(entryAddedMsg)
	if !added.record {
		t.Fatal("third consecutive day should be a record")
	}
	if added.streak != 3 {
		t.Fatalf("streak = %d, want 3", added.streak)
	}

	// Same day again: longest does not grow.
	again := l.addEntry(fixedNow().Add(time.Hour), false)().(entryAddedMsg)
	if again.record {
		t.Fatal("same-day entry should not be a record")
	}
}

func TestLogQuickKey(t *testing.T) {
	s := newTestStore(t)
	l := newLogModel(s, stats.New(time.UTC))
	l.now = fixedNow

	_, cmd := l.update(runeKey("a"))
	if cmd == nil {
		t.Fatal("a should log an entry")
	}
	if _, ok := cmd().(entryAddedMsg); !ok {
		t.Fatal("expected entryAddedMsg")
	}
	n, _ := s.CountEntries()
	if n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}

func TestLogFormDefaultsAndCancel(t *testing.T) {
	s := newTestStore(t)
	tokyo := time.FixedZone("JST", 9*60*60)
	l := newLogModel(s, stats.New(tokyo))
	l.now = fixedNow

	l, _ = l.update(runeKey("n"))
	if !l.formActive || l.form == nil {
		t.Fatal("n should open the form")
	}
	if *l.formDate != "2024-03-15 21:00" {
		t.Fatalf("form date = %q, want local now", *l.formDate)
	}

	l, _ = l.update(tea.KeyMsg{Type: tea.KeyEsc})
	if l.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestLogSnapshotKeepsRecent(t *testing.T) {
	s := newTestStore(t)
	for i := 1; i <= 8; i++ {
		addEntry(t, s, string(rune('a'+i)), time.Date(2024, 3, i, 10, 0, 0, 0, time.UTC).Format(model.DateLayout), false)
	}
	l := newLogModel(s, stats.New(time.UTC))
	l.setSnapshot(snapshot(t, s))

	if len(l.recent) != recentCount {
		t.Fatalf("expected %d recent entries, got %d", recentCount, len(l.recent))
	}
	if l.recent[0].at.Day() != 8 {
		t.Fatalf("newest first expected, got day %d", l.recent[0].at.Day())
	}
	if l.summary.CurrentDailyStreak != 8 {
		t.Fatalf("streak = %d, want 8", l.summary.CurrentDailyStreak)
	}
}

// ============================================================
// History view
// ============================================================

func TestHistoryDefaultModeFromSettings(t *testing.T) {
	s := newTestStore(t)
	if h := newHistoryModel(s, time.UTC); h.mode != store.HistoryCalendar {
		t.Fatalf("default mode = %q", h.mode)
	}

	s.SetSetting(store.SettingHistoryView, store.HistoryList)
	if h := newHistoryModel(s, time.UTC); h.mode != store.HistoryList {
		t.Fatalf("mode = %q, want list", h.mode)
	}
}

func TestHistoryToggleSavesSetting(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s, time.UTC)

	h, cmd := h.update(runeKey("v"))
	if h.mode != store.HistoryList {
		t.Fatal("v should switch to list")
	}
	cmd()
	if got := s.GetSettingOr(store.SettingHistoryView, ""); got != store.HistoryList {
		t.Fatalf("setting = %q, want list", got)
	}
}

func TestHistoryMonthNavigation(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s, time.UTC)
	h.month = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	h, _ = h.update(tea.KeyMsg{Type: tea.KeyLeft})
	if h.month.Year() != 2023 || h.month.Month() != time.December {
		t.Fatalf("left should go to Dec 2023, got %v", h.month)
	}
	h, _ = h.update(tea.KeyMsg{Type: tea.KeyRight})
	h, _ = h.update(tea.KeyMsg{Type: tea.KeyRight})
	if h.month.Month() != time.February {
		t.Fatalf("expected February, got %v", h.month.Month())
	}
}

func TestHistoryCalendarRender(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-10T10:00:00.000Z", true)
	addEntry(t, s, "b", "2024-03-10T11:00:00.000Z", false)
	addEntry(t, s, "c", "2024-04-02T10:00:00.000Z", false)

	h := newHistoryModel(s, time.UTC)
	h.now = fixedNow
	h.month = firstOfMonth(fixedNow())
	h.setSize(120, 40)
	h.setSnapshot(snapshot(t, s))

	out := h.renderCalendar()
	if !strings.Contains(out, "March 2024") {
		t.Fatal("calendar missing month title")
	}
	if !strings.Contains(out, "2 entries this month") {
		t.Fatalf("calendar should count only March entries:\n%s", out)
	}
	if len(h.markers["2024-03-10"]) != 2 {
		t.Fatalf("markers = %+v", h.markers)
	}
}

func TestRenderDotsFixedWidth(t *testing.T) {
	cases := [][]stats.Marker{
		nil,
		{{Key: "a"}},
		{{Key: "a", Solo: true}, {Key: "b"}, {Key: "c"}},
		{{Key: "a"}, {Key: "b"}, {Key: "c"}, {Key: "d"}, {Key: "e"}},
	}
	for i, markers := range cases {
		if w := lipgloss.Width(renderDots(markers)); w != maxDots+1 {
			t.Errorf("case %d: width = %d, want %d", i, w, maxDots+1)
		}
	}
}

func TestHistoryListDelete(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "old", "2024-03-01T10:00:00.000Z", false)
	addEntry(t, s, "new", "2024-03-02T10:00:00.000Z", false)

	s.SetSetting(store.SettingHistoryView, store.HistoryList)
	h := newHistoryModel(s, time.UTC)
	h.setSize(120, 40)
	h.setSnapshot(snapshot(t, s))

	h, _ = h.update(tea.KeyMsg{Type: tea.KeyDown})
	if h.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", h.cursor)
	}

	_, cmd := h.update(runeKey("d"))
	msg := cmd()
	deleted, ok := msg.(entryDeletedMsg)
	if !ok || deleted.id != "old" {
		t.Fatalf("expected old to be deleted, got %+v", msg)
	}
	if _, err := s.GetEntry("old"); err == nil {
		t.Fatal("entry still in store")
	}
}

func TestHistoryListDeleteEmpty(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(store.SettingHistoryView, store.HistoryList)
	h := newHistoryModel(s, time.UTC)

	if _, cmd := h.update(runeKey("d")); cmd != nil {
		t.Fatal("delete on empty list should do nothing")
	}
}

// ============================================================
// Stats view
// ============================================================

func TestMonthlySeries(t *testing.T) {
	entries := []model.Entry{
		{ID: "1", Date: "2024-03-01T10:00:00.000Z"},
		{ID: "2", Date: "2024-03-31T23:30:00.000Z"}, // April 1st in Tokyo
		{ID: "3", Date: "2024-01-15T10:00:00.000Z"},
		{ID: "4", Date: "2022-01-15T10:00:00.000Z"}, // out of range
		{ID: "5", Date: "bad"},
	}
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, time.April, 10, 0, 0, 0, 0, tokyo)

	got := monthlySeries(entries, tokyo, now, 4)
	want := []float64{1, 0, 1, 1} // Jan, Feb, Mar, Apr
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("series = %v, want %v", got, want)
		}
	}
}

func TestStatsViewEmpty(t *testing.T) {
	sm := newStatsModel(time.UTC)
	sm.setSize(120, 40)
	if !strings.Contains(sm.view(), "No entries yet") {
		t.Fatal("empty stats should say so")
	}
}

func TestStatsViewWithData(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-11T08:00:00.000Z", true)
	addEntry(t, s, "b", "2024-03-12T22:00:00.000Z", false)
	addEntry(t, s, "c", "nope", false)

	sm := newStatsModel(time.UTC)
	sm.now = fixedNow
	sm.setSize(140, 50)
	sm.setSnapshot(snapshot(t, s))

	out := sm.view()
	for _, want := range []string{"Summary", "Monday, Tuesday", "1 / 1", "1 entry skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats view missing %q", want)
		}
	}
	if sm.trend[len(sm.trend)-1] != 2 {
		t.Fatalf("current month should have 2 entries, got %v", sm.trend)
	}
}

func TestJoinNames(t *testing.T) {
	if joinWeekdays(nil) != "-" || joinMonths(nil) != "-" {
		t.Fatal("empty lists should render as -")
	}
	if got := joinMonths([]time.Month{time.January, time.July}); got != "January, July" {
		t.Fatalf("joinMonths = %q", got)
	}
	if formatInstant(nil, time.UTC) != "-" {
		t.Fatal("nil instant should render as -")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsRefresh(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-11T08:00:00.000Z", false)

	sm := newSettingsModel(s, time.UTC)
	sm, _ = sm.update(sm.refresh()())
	if sm.count != 1 {
		t.Fatalf("count = %d, want 1", sm.count)
	}
	if len(sm.settings) != 2 {
		t.Fatalf("expected 2 settings, got %d", len(sm.settings))
	}
}

func TestSettingsForms(t *testing.T) {
	s := newTestStore(t)
	sm := newSettingsModel(s, time.UTC)

	keysToForms := map[string]settingsForm{
		"n": formPrefs,
		"x": formClear,
		"i": formImport,
	}
	for k, want := range keysToForms {
		opened, _ := sm.update(runeKey(k))
		if !opened.formActive || opened.formType != want {
			t.Fatalf("%s: formActive=%v type=%d", k, opened.formActive, opened.formType)
		}
		closed, _ := opened.update(tea.KeyMsg{Type: tea.KeyEsc})
		if closed.formActive {
			t.Fatalf("%s: esc should close the form", k)
		}
	}
}

func TestSettingsSavePrefs(t *testing.T) {
	s := newTestStore(t)
	sm := newSettingsModel(s, time.UTC)
	*sm.historyView = store.HistoryList
	*sm.notify = "off"

	msg := sm.savePrefs()()
	saved, ok := msg.(settingsSavedMsg)
	if !ok || saved.historyView != store.HistoryList {
		t.Fatalf("unexpected msg %+v", msg)
	}
	if s.GetSettingOr(store.SettingNotify, "") != "off" {
		t.Fatal("notify setting not saved")
	}
}

func TestSettingsClearEntries(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-11T08:00:00.000Z", false)

	sm := newSettingsModel(s, time.UTC)
	if _, ok := sm.clearEntries()().(entriesClearedMsg); !ok {
		t.Fatal("expected entriesClearedMsg")
	}
	n, _ := s.CountEntries()
	if n != 0 {
		t.Fatalf("expected 0 entries, got %d", n)
	}
}

func TestSettingsImport(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "old", "2023-01-01T08:00:00.000Z", false)

	path := filepath.Join(t.TempDir(), "backup.json")
	backup := []model.Entry{
		{ID: "x", Date: "2024-03-11T08:00:00.000Z", Solo: true},
		{ID: "y", Date: "2024-03-12T08:00:00.000Z"},
	}
	if err := export.ToJSON(backup, path); err != nil {
		t.Fatal(err)
	}

	sm := newSettingsModel(s, time.UTC)
	msg := sm.importEntries(path)()
	done, ok := msg.(importDoneMsg)
	if !ok || done.count != 2 {
		t.Fatalf("unexpected msg %+v", msg)
	}
	entries, _ := s.ListEntries()
	if len(entries) != 2 || entries[0].ID != "x" {
		t.Fatalf("import should replace entries, got %+v", entries)
	}
}

func TestSettingsImportMissingFile(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "keep", "2023-01-01T08:00:00.000Z", false)

	sm := newSettingsModel(s, time.UTC)
	msg := sm.importEntries("/nonexistent/backup.json")()
	if st, ok := msg.(statusMsg); !ok || !st.isError {
		t.Fatalf("expected error status, got %+v", msg)
	}
	if _, err := s.GetEntry("keep"); err != nil {
		t.Fatal("failed import should keep existing entries")
	}
}

// ============================================================
// Watcher
// ============================================================

func TestWatchDBReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moanitor.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := watchDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// Unrelated files are ignored.
	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
	os.WriteFile(path+"-wal", []byte("x"), 0o644)

	select {
	case <-w.changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	if msg := waitForChange(closedChan())(); msg != nil {
		t.Fatalf("closed channel should yield nil, got %T", msg)
	}
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func TestWatchDBMissingDir(t *testing.T) {
	if _, err := watchDB("/nonexistent/dir/moanitor.db"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())

	if app.activeView != viewLog {
		t.Fatal("default view should be log")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.watcher != nil {
		t.Fatal("in-memory store should not be watched")
	}
	if err := app.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewAppWatchesFileStore(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "moanitor.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	app := NewApp(s, testConfig())
	if app.watcher == nil {
		t.Fatal("file store should be watched")
	}
	if err := app.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppSwitchViews(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())

	m, _ := app.Update(runeKey("3"))
	app = m.(App)
	if app.activeView != viewStats {
		t.Fatalf("expected stats view, got %d", app.activeView)
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewSettings {
		t.Fatalf("expected settings view, got %d", app.activeView)
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewLog {
		t.Fatalf("tab should wrap to log, got %d", app.activeView)
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-11T08:00:00.000Z", true)
	addEntry(t, s, "b", "2024-03-12T22:00:00.000Z", false)

	app := NewApp(s, testConfig())
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(snapshot(t, s))
	app = m.(App)

	// Test all views render without panic
	views := []viewState{viewLog, viewHistory, viewStats, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppSnapshotFansOut(t *testing.T) {
	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-11T08:00:00.000Z", false)

	app := NewApp(s, testConfig())
	m, _ := app.Update(snapshot(t, s))
	app = m.(App)

	if app.log.summary.TotalEntries != 1 || app.stats.summary.TotalEntries != 1 {
		t.Fatal("snapshot should reach log and stats views")
	}
	if len(app.history.list) != 1 {
		t.Fatal("snapshot should reach history view")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())
	// Width 0 means not yet sized
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())
	app.width = 120
	app.height = 40

	m, _ := app.Update(statusMsg{text: "test status"})
	footer := m.(App).renderFooter()
	if !strings.Contains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppSettingsSavedUpdatesHistory(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())

	m, _ := app.Update(settingsSavedMsg{historyView: store.HistoryList})
	if m.(App).history.mode != store.HistoryList {
		t.Fatal("history mode should follow saved setting")
	}
}

func TestAppRecordStatus(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())

	m, cmd := app.Update(entryAddedMsg{entry: model.Entry{ID: "x", Date: "2024-03-11T08:00:00.000Z"}, streak: 4, record: true})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	if !strings.Contains(m.(App).status, "4 days in a row") {
		t.Fatalf("status = %q", m.(App).status)
	}
}

func TestNotifyRecord(t *testing.T) {
	s := newTestStore(t)

	var sent []string
	orig := notify
	notify = func(title, message string) error {
		sent = append(sent, message)
		return nil
	}
	t.Cleanup(func() { notify = orig })

	app := NewApp(s, testConfig())
	app.notifyRecord(5)()
	if len(sent) != 1 || !strings.Contains(sent[0], "5 days") {
		t.Fatalf("sent = %v", sent)
	}

	// Stored preference off
	s.SetSetting(store.SettingNotify, "off")
	app.notifyRecord(6)()
	if len(sent) != 1 {
		t.Fatal("notification sent despite setting off")
	}

	// Disabled in config
	cfg := testConfig()
	cfg.Notify = false
	if NewApp(s, cfg).notifyRecord(7) != nil {
		t.Fatal("disabled config should not build a notify command")
	}
}

func TestAppExport(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := newTestStore(t)
	addEntry(t, s, "a", "2024-03-11T08:00:00.000Z", false)
	app := NewApp(s, testConfig())

	for format, ext := range map[int]string{0: ".json", 1: ".csv"} {
		msg := app.doExport(format)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: expected exportDoneMsg, got %+v", format, msg)
		}
		if filepath.Dir(done.path) != home || filepath.Ext(done.path) != ext {
			t.Fatalf("format %d: unexpected path %q", format, done.path)
		}
		if _, err := os.Stat(done.path); err != nil {
			t.Fatalf("format %d: file not written: %v", format, err)
		}
	}
}

func TestAppExportPicker(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, testConfig())

	m, _ := app.Update(runeKey("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = m.(App)
	if app.exportCursor != 1 {
		t.Fatalf("cursor = %d, want 1", app.exportCursor)
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"streak", func() string { return streakStyle.Render("test") }},
		{"dot", func() string { return dotStyle.Render("test") }},
		{"soloDot", func() string { return soloDotStyle.Render("test") }},
		{"today", func() string { return todayStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
