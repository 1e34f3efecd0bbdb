package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sadopc/moanitor/internal/export"
	"github.com/sadopc/moanitor/internal/logger"
	"github.com/sadopc/moanitor/internal/model"
	"github.com/sadopc/moanitor/internal/stats"
	"github.com/sadopc/moanitor/internal/store"
)

const listLayout = "Mon 2006-01-02 15:04"

func newAddCmd() *cobra.Command {
	var at string
	var solo bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an entry (now, unless --at is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			when := time.Now()
			if at != "" {
				when, err = parseWhen(at, cfg.Location)
				if err != nil {
					return err
				}
			}

			e := model.Entry{ID: uuid.NewString(), Date: model.FormatDate(when), Solo: solo}
			if err := s.AddEntry(e); err != nil {
				return err
			}

			entries, err := s.ListEntries()
			if err != nil {
				return err
			}
			sum := newEngine(cfg).Compute(entries).Summary
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s)\ncurrent streak: %d days, longest: %d days\n",
				when.In(cfg.Location).Format(listLayout), e.ID, sum.CurrentDailyStreak, sum.LongestDailyStreak)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", `entry time, RFC3339 or "YYYY-MM-DD HH:MM" in the configured zone`)
	cmd.Flags().BoolVar(&solo, "solo", false, "mark the entry as solo")
	return cmd
}

// parseWhen accepts RFC3339 or the form layout interpreted in loc.
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DD HH:MM", s)
}

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.ListEntries()
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries, cfg.Location, limit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries (0 = all)")
	return cmd
}

type listedEntry struct {
	entry model.Entry
	at    time.Time
	err   error
}

func printEntries(w io.Writer, entries []model.Entry, loc *time.Location, limit int) {
	rows := make([]listedEntry, len(entries))
	for i, e := range entries {
		t, err := e.Time()
		rows[i] = listedEntry{entry: e, at: t.In(loc), err: err}
	}
	slices.SortStableFunc(rows, func(a, b listedEntry) int {
		if (a.err == nil) != (b.err == nil) {
			if a.err == nil {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.at.UnixNano(), a.at.UnixNano())
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}
	for _, r := range rows {
		when := r.at.Format(listLayout)
		if r.err != nil {
			when = fmt.Sprintf("invalid date %q", r.entry.Date)
		}
		solo := ""
		if r.entry.Solo {
			solo = "  solo"
		}
		fmt.Fprintf(w, "%-36s  %s%s\n", r.entry.ID, when, solo)
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteEntry(args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no entry with id %q", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// statsOutput is the JSON shape of `stats --json`: the summary with day and
// month names instead of numbers, plus any skipped entries.
type statsOutput struct {
	stats.Summary
	MostFrequentDays   []string `json:"most_frequent_days"`
	MostFrequentMonths []string `json:"most_frequent_months"`
	Warnings           []string `json:"warnings,omitempty"`
}

func newStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streaks, frequencies and averages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.ListEntries()
			if err != nil {
				return err
			}
			res := newEngine(cfg).Compute(entries)
			for _, w := range res.Warnings {
				logger.Warn("skipping entry", "id", w.ID, "date", w.Date, "error", w.Err)
			}

			if asJSON {
				return writeStatsJSON(cmd.OutOrStdout(), res)
			}
			writeStatsText(cmd.OutOrStdout(), res, cfg.Location)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeStatsJSON(w io.Writer, res stats.Result) error {
	out := statsOutput{
		Summary:            res.Summary,
		MostFrequentDays:   make([]string, len(res.Summary.MostFrequentDays)),
		MostFrequentMonths: make([]string, len(res.Summary.MostFrequentMonths)),
	}
	for i, d := range res.Summary.MostFrequentDays {
		out.MostFrequentDays[i] = d.String()
	}
	for i, m := range res.Summary.MostFrequentMonths {
		out.MostFrequentMonths[i] = m.String()
	}
	for _, warn := range res.Warnings {
		out.Warnings = append(out.Warnings, warn.Error())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeStatsText(w io.Writer, res stats.Result, loc *time.Location) {
	sum := res.Summary
	if sum.TotalEntries == 0 {
		fmt.Fprintln(w, "No entries yet.")
		return
	}

	row := func(label, format string, args ...any) {
		fmt.Fprintf(w, "%-22s %s\n", label, fmt.Sprintf(format, args...))
	}
	row("Total entries", "%d (solo %d, not solo %d)", sum.TotalEntries, sum.SoloCount, sum.NotSoloCount)
	row("First entry", "%s", sum.FirstEntry.In(loc).Format(listLayout))
	row("Last entry", "%s", sum.LastEntry.In(loc).Format(listLayout))
	row("Daily streak", "%d (longest %d)", sum.CurrentDailyStreak, sum.LongestDailyStreak)
	row("Weekly streak", "%d (longest %d)", sum.CurrentWeeklyStreak, sum.LongestWeeklyStreak)
	row("Longest gap", "%d days", sum.LongestGapDays)
	row("Most frequent days", "%s", joinNames(sum.MostFrequentDays))
	row("Most frequent months", "%s", joinNames(sum.MostFrequentMonths))
	row("Favorite time of day", "%s", sum.FavoriteTimeOfDay)
	row("Earliest / latest", "%s / %s", sum.EarliestHour, sum.LatestHour)
	row("Average per month", "%.2f", sum.AvgPerMonth)
	row("Average per week", "%.2f", sum.AvgPerWeek)
	if n := len(res.Warnings); n > 0 {
		row("Skipped", "%d entries with invalid dates", n)
	}
}

func joinNames[T fmt.Stringer](items []T) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.String()
	}
	return strings.Join(names, ", ")
}

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export entries to JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = "json"
				if strings.EqualFold(filepath.Ext(path), ".csv") {
					format = "csv"
				}
			}
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}

			cfg, s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.ListEntries()
			if err != nil {
				return err
			}
			if format == "csv" {
				err = export.ToCSV(entries, cfg.Location, path)
			} else {
				err = export.ToJSON(entries, path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or csv (default: from the file extension)")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace all entries with the contents of a JSON export or app backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := export.FromJSON(args[0])
			if err != nil {
				return err
			}

			_, s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ReplaceEntries(entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", len(entries))
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if !yes {
				n, err := s.CountEntries()
				if err != nil {
					return err
				}
				confirm := false
				err = huh.NewConfirm().
					Title(fmt.Sprintf("Delete all %d entries?", n)).
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirm).
					Run()
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := s.ClearEntries(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All entries removed.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// debugObserver logs intermediate engine results at debug level.
type debugObserver struct{}

func (debugObserver) Sorted(entries []stats.TimedEntry) {
	if len(entries) == 0 {
		return
	}
	logger.Debug("entries sorted",
		"count", len(entries),
		"first", entries[0].At.Format(time.RFC3339),
		"last", entries[len(entries)-1].At.Format(time.RFC3339),
	)
}

func (debugObserver) Counted(f stats.Frequency) {
	logger.Debug("frequencies counted", "weekdays", f.Weekdays, "months", f.Months, "times_of_day", f.TimesOfDay)
}
