package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/moanitor/internal/model"
)

const entryColumns = `id, date, solo`

func (s *Store) AddEntry(e model.Entry) error {
	if e.ID == "" {
		return fmt.Errorf("add entry: empty id")
	}
	_, err := s.db.Exec(
		`INSERT INTO entries (id, date, solo) VALUES (?, ?, ?)`,
		e.ID, e.Date, e.Solo,
	)
	if err != nil {
		return fmt.Errorf("add entry %q: %w", e.ID, err)
	}
	return nil
}

func (s *Store) GetEntry(id string) (*model.Entry, error) {
	var e model.Entry
	err := s.db.QueryRow(
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Date, &e.Solo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entry %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %q: %w", id, err)
	}
	return &e, nil
}

func (s *Store) DeleteEntry(id string) error {
	res, err := s.db.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete entry %q: %w", id, ErrNotFound)
	}
	return nil
}

// ListEntries returns every entry in insertion order. Dates are stored as
// written, so ordering by them is left to callers that parse them.
func (s *Store) ListEntries() ([]model.Entry, error) {
	rows, err := s.db.Query(`SELECT ` + entryColumns + ` FROM entries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.Solo); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) CountEntries() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (s *Store) ClearEntries() error {
	if _, err := s.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	return nil
}

// ReplaceEntries swaps the whole collection in one transaction. Later
// duplicates of an id win.
func (s *Store) ReplaceEntries(entries []model.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO entries (id, date, solo) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("replace entries: entry with empty id")
		}
		if _, err := stmt.Exec(e.ID, e.Date, e.Solo); err != nil {
			return fmt.Errorf("insert entry %q: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}
