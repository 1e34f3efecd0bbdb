// Package export writes entries to JSON or CSV files and reads them back.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/moanitor/internal/model"
)

// LegacyStorageKey is the key the mobile app kept its entries under.
const LegacyStorageKey = "@moanitor_entries"

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Entries    []model.Entry `json:"entries"`
}

// valueEnvelope is how the mobile app wrapped its entry list.
type valueEnvelope struct {
	Value []model.Entry `json:"value"`
}

func ToJSON(entries []model.Entry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Entries:    entries,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FromJSON reads entries from path. It accepts a file written by ToJSON, a
// bare array of entries, a {"value": [...]} envelope, and a key/value dump
// holding that envelope under LegacyStorageKey (as an object or a string).
func FromJSON(path string) ([]model.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json file: %w", err)
	}
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}

func decodeEntries(data []byte) ([]model.Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if data[0] == '[' {
		var entries []model.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if raw, ok := doc["entries"]; ok {
		var entries []model.Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("entries: %w", err)
		}
		return entries, nil
	}
	if raw, ok := doc["value"]; ok {
		var entries []model.Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		return entries, nil
	}
	if raw, ok := doc[LegacyStorageKey]; ok {
		return decodeLegacy(raw)
	}
	return nil, fmt.Errorf("no entries found")
}

// decodeLegacy handles the storage dump, where the envelope was usually
// stored as a JSON string.
func decodeLegacy(raw json.RawMessage) ([]model.Entry, error) {
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		raw = json.RawMessage(inner)
	}
	var env valueEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", LegacyStorageKey, err)
	}
	return env.Value, nil
}
