package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/sadopc/moanitor/internal/model"
	"github.com/sadopc/moanitor/internal/stats"
)

// trendMonths is how many months the trend line covers, ending this month.
const trendMonths = 12

// weekdayOrder lists weekdays Monday first, as the calendar does.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

type statsModel struct {
	loc    *time.Location
	now    func() time.Time
	width  int
	height int

	summary  stats.Summary
	warnings int
	trend    []float64

	chart barchart.Model
}

func newStatsModel(loc *time.Location) statsModel {
	return statsModel{
		loc:   loc,
		now:   time.Now,
		chart: barchart.New(60, 10),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	s.buildChart()
}

func (s *statsModel) setSnapshot(msg snapshotMsg) {
	s.summary = msg.result.Summary
	s.warnings = len(msg.result.Warnings)
	s.trend = monthlySeries(msg.entries, s.loc, s.now(), trendMonths)
	s.buildChart()
}

func (s *statsModel) buildChart() {
	chartWidth := max(s.width/2-8, 28)
	chartHeight := 10
	if s.height > 40 {
		chartHeight = 14
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, d := range weekdayOrder {
		bars = append(bars, barchart.BarData{
			Label: d.String()[:3],
			Values: []barchart.BarValue{{
				Name:  d.String(),
				Value: float64(s.summary.Frequency.Weekday(d)),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

// monthlySeries counts entries per calendar month in loc for the n months
// ending with now's month. Unparseable entries are ignored.
func monthlySeries(entries []model.Entry, loc *time.Location, now time.Time, n int) []float64 {
	end := firstOfMonth(now.In(loc))
	start := end.AddDate(0, -(n - 1), 0)
	series := make([]float64, n)
	for _, e := range entries {
		t, err := e.Time()
		if err != nil {
			continue
		}
		t = t.In(loc)
		i := (t.Year()-start.Year())*12 + int(t.Month()) - int(start.Month())
		if i >= 0 && i < n {
			series[i]++
		}
	}
	return series
}

func (s statsModel) view() string {
	w := s.width - 4
	sum := s.summary

	if sum.TotalEntries == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Stats"),
			"",
			mutedStyle.Render("No entries yet. Statistics show up after the first log."),
		))
	}

	left := s.renderSummary()
	right := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("By weekday"),
		s.chart.View(),
	)
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(w/2).Render(left),
		right,
	)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		top,
		"",
		titleStyle.Render("Last 12 months"),
		s.renderTrend(w-8),
	))
}

func (s statsModel) renderSummary() string {
	sum := s.summary
	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(22).Render(label), highlightStyle.Render(value))
	}

	rows := []string{
		titleStyle.Render("Summary"),
		row("Total", fmt.Sprint(sum.TotalEntries)),
		row("Solo / not solo", fmt.Sprintf("%d / %d", sum.SoloCount, sum.NotSoloCount)),
		row("First entry", formatInstant(sum.FirstEntry, s.loc)),
		row("Last entry", formatInstant(sum.LastEntry, s.loc)),
		"",
		row("Daily streak", fmt.Sprintf("%s (best %d)", plural(sum.CurrentDailyStreak, "day", "days"), sum.LongestDailyStreak)),
		row("Weekly streak", fmt.Sprintf("%s (best %d)", plural(sum.CurrentWeeklyStreak, "week", "weeks"), sum.LongestWeeklyStreak)),
		row("Longest gap", plural(sum.LongestGapDays, "day", "days")),
		"",
		row("Busiest days", joinWeekdays(sum.MostFrequentDays)),
		row("Busiest months", joinMonths(sum.MostFrequentMonths)),
		row("Favorite time", sum.FavoriteTimeOfDay),
		row("Earliest / latest", sum.EarliestHour+" / "+sum.LatestHour),
		row("Per month / week", fmt.Sprintf("%.2f / %.2f", sum.AvgPerMonth, sum.AvgPerWeek)),
	}
	if s.warnings > 0 {
		rows = append(rows, "", warningStyle.Render(fmt.Sprintf("  %s skipped (bad date)", plural(s.warnings, "entry", "entries"))))
	}
	return strings.Join(rows, "\n")
}

func (s statsModel) renderTrend(width int) string {
	if len(s.trend) == 0 {
		return mutedStyle.Render("  No data available")
	}
	start := firstOfMonth(s.now().In(s.loc)).AddDate(0, -(len(s.trend) - 1), 0)
	caption := fmt.Sprintf("%s to %s", start.Format("Jan 2006"), s.now().In(s.loc).Format("Jan 2006"))
	return asciigraph.Plot(s.trend,
		asciigraph.Height(6),
		asciigraph.Width(max(width, 20)),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Purple),
		asciigraph.Caption(caption),
	)
}

func formatInstant(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("Jan 02 2006 15:04")
}

func joinWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return "-"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

func joinMonths(months []time.Month) string {
	if len(months) == 0 {
		return "-"
	}
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}
