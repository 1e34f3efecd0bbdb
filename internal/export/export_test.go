package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/moanitor/internal/model"
)

func sampleEntries() []model.Entry {
	return []model.Entry{
		{ID: "1", Date: "2024-03-10T10:00:00.000Z", Solo: true},
		{ID: "2", Date: "2024-03-11T23:30:00.000Z"},
		{ID: "3", Date: "garbled"},
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	tokyo := time.FixedZone("JST", 9*60*60)

	if err := ToCSV(sampleEntries(), tokyo, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Date", "Local Date", "Solo"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	if records[1][2] != "2024-03-10 19:00" {
		t.Fatalf("Local Date = %q, want 2024-03-10 19:00", records[1][2])
	}
	if records[1][3] != "true" || records[2][3] != "false" {
		t.Fatalf("solo column wrong: %q, %q", records[1][3], records[2][3])
	}
	// Crosses midnight in Tokyo.
	if records[2][2] != "2024-03-12 08:30" {
		t.Fatalf("Local Date = %q, want 2024-03-12 08:30", records[2][2])
	}
	// Unparseable dates are exported raw with no local date.
	if records[3][1] != "garbled" || records[3][2] != "" {
		t.Fatalf("malformed row = %v", records[3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleEntries(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Count != 3 || len(result.Entries) != 3 {
		t.Fatalf("count = %d, entries = %d; want 3", result.Count, len(result.Entries))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	if !result.Entries[0].Solo || result.Entries[0].Date != "2024-03-10T10:00:00.000Z" {
		t.Fatalf("entry mangled: %+v", result.Entries[0])
	}
	// solo is omitted when false, like the mobile app.
	if strings.Count(string(data), `"solo"`) != 1 {
		t.Fatalf("expected one solo key, got:\n%s", data)
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") || !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be pretty-printed with indentation")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.json")
	want := sampleEntries()
	if err := ToJSON(want, path); err != nil {
		t.Fatal(err)
	}

	got, err := FromJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// ============================================================
// Import formats
// ============================================================

func TestFromJSONFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bare array", `[{"id":"a","date":"2024-01-01T00:00:00.000Z","solo":true},{"id":"b","date":"2024-01-02T00:00:00.000Z"}]`},
		{"value envelope", `{"value":[{"id":"a","date":"2024-01-01T00:00:00.000Z","solo":true},{"id":"b","date":"2024-01-02T00:00:00.000Z"}]}`},
		{"legacy dump string", `{"@moanitor_entries":"{\"value\":[{\"id\":\"a\",\"date\":\"2024-01-01T00:00:00.000Z\",\"solo\":true},{\"id\":\"b\",\"date\":\"2024-01-02T00:00:00.000Z\"}]}","theme":"dark"}`},
		{"legacy dump object", `{"@moanitor_entries":{"value":[{"id":"a","date":"2024-01-01T00:00:00.000Z","solo":true},{"id":"b","date":"2024-01-02T00:00:00.000Z"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := FromJSON(writeTemp(t, "in.json", tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(entries))
			}
			if entries[0].ID != "a" || !entries[0].Solo || entries[1].Solo {
				t.Fatalf("unexpected entries: %+v", entries)
			}
		})
	}
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "  "},
		{"not json", "hello"},
		{"no entries", `{"theme":"dark"}`},
		{"bad legacy", `{"@moanitor_entries":"not json"}`},
		{"wrong type", `{"entries":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromJSON(writeTemp(t, "bad.json", tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFromJSONMissingFile(t *testing.T) {
	if _, err := FromJSON("/nonexistent/file.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
