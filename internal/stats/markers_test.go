package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/moanitor/internal/model"
)

func TestMarkedDatesUsesViewerDate(t *testing.T) {
	entries := []model.Entry{{ID: "late", Date: "2024-03-10T23:30:00Z"}}

	newYork := time.FixedZone("EST", -5*60*60)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Contains(t, MarkedDates(entries, time.UTC), "2024-03-10")
	assert.Contains(t, MarkedDates(entries, newYork), "2024-03-10")
	assert.Contains(t, MarkedDates(entries, tokyo), "2024-03-11")
}

func TestMarkedDatesGroupsByDay(t *testing.T) {
	entries := []model.Entry{
		{ID: "a", Date: "2024-01-01T08:00:00Z"},
		{ID: "b", Date: "2024-01-02T08:00:00Z", Solo: true},
		{ID: "c", Date: "2024-01-01T20:00:00Z", Solo: true},
		{ID: "bad", Date: "garbage"},
	}
	marked := MarkedDates(entries, time.UTC)

	require.Len(t, marked, 2)
	assert.Equal(t, []Marker{{Key: "a"}, {Key: "c", Solo: true}}, marked["2024-01-01"])
	assert.Equal(t, []Marker{{Key: "b", Solo: true}}, marked["2024-01-02"])
}

func TestMarkedDatesEmpty(t *testing.T) {
	assert.Empty(t, MarkedDates(nil, nil))
}

func TestDateKey(t *testing.T) {
	instant := time.Date(2024, time.December, 31, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31", DateKey(instant, time.UTC))
	assert.Equal(t, "2025-01-01", DateKey(instant, time.FixedZone("CET", 3*60*60)))
}
