package stats

import (
	"time"

	"github.com/sadopc/moanitor/internal/model"
)

// DateKeyLayout is the layout of calendar marker keys.
const DateKeyLayout = "2006-01-02"

// Marker is one dot on a calendar day.
type Marker struct {
	Key  string
	Solo bool
}

// MarkedDates groups entries by their calendar date in loc. Entries keep
// their input order within a day; unparseable entries are skipped.
func MarkedDates(entries []model.Entry, loc *time.Location) map[string][]Marker {
	if loc == nil {
		loc = time.UTC
	}
	out := make(map[string][]Marker)
	for _, e := range entries {
		t, err := e.Time()
		if err != nil {
			continue
		}
		k := DateKey(t, loc)
		out[k] = append(out[k], Marker{Key: e.ID, Solo: e.Solo})
	}
	return out
}

// DateKey returns the local calendar date of t in loc as YYYY-MM-DD.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}
