package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/moanitor/internal/model"
)

// ToCSV writes one row per entry. Local Date is the entry instant in loc;
// it is left empty when the stored date cannot be parsed.
func ToCSV(entries []model.Entry, loc *time.Location, path string) error {
	if loc == nil {
		loc = time.UTC
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Date", "Local Date", "Solo"}); err != nil {
		return err
	}

	for _, e := range entries {
		local := ""
		if t, err := e.Time(); err == nil {
			local = t.In(loc).Format("2006-01-02 15:04")
		}
		row := []string{
			e.ID,
			e.Date,
			local,
			strconv.FormatBool(e.Solo),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
