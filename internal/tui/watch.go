package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/sadopc/moanitor/internal/logger"
)

const debounceInterval = 200 * time.Millisecond

// dbWatcher reports writes to the database file and its WAL/SHM siblings,
// so entries added from another process (e.g. the CLI) show up live.
type dbWatcher struct {
	watcher  *fsnotify.Watcher
	base     string
	changes  chan struct{}
	stopChan chan struct{}
	debounce *time.Timer
}

func watchDB(path string) (*dbWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory (SQLite replaces and creates sibling files)
	if err := w.Add(filepath.Dir(path)); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	d := &dbWatcher{
		watcher:  w,
		base:     filepath.Base(path),
		changes:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
	go d.loop()
	return d, nil
}

func (d *dbWatcher) loop() {
	for {
		select {
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), d.base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if d.debounce != nil {
				d.debounce.Stop()
			}
			d.debounce = time.AfterFunc(debounceInterval, d.notify)

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("database watcher error", "error", err)

		case <-d.stopChan:
			if d.debounce != nil {
				d.debounce.Stop()
			}
			return
		}
	}
}

// notify never blocks; one pending change is enough to trigger a reload.
func (d *dbWatcher) notify() {
	select {
	case d.changes <- struct{}{}:
	default:
	}
}

// Close stops the watcher.
func (d *dbWatcher) Close() error {
	close(d.stopChan)
	return d.watcher.Close()
}

// waitForChange returns a command that waits for the next database change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}
