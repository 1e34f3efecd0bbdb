// Package main provides the CLI entrypoint for moanitor.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"

	"github.com/sadopc/moanitor/internal/config"
	"github.com/sadopc/moanitor/internal/logger"
	"github.com/sadopc/moanitor/internal/stats"
	"github.com/sadopc/moanitor/internal/store"
	"github.com/sadopc/moanitor/internal/tui"
)

var (
	flagConfig  string
	flagDB      string
	flagTZ      string
	flagVerbose bool
)

func main() {
	beeep.AppName = "moanitor"

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:              "moanitor",
		Short:            "Personal activity log with streaks and stats",
		SilenceUsage:     true,
		SilenceErrors:    false,
		RunE:             runTUI,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Init(cmd.ErrOrStderr(), logLevel())
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/moanitor/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path")
	rootCmd.PersistentFlags().StringVar(&flagTZ, "tz", "", "IANA time zone for day and week boundaries (default: local)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newClearCmd())

	return rootCmd
}

func logLevel() slog.Level {
	if flagVerbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Overrides{
		ConfigPath: flagConfig,
		DBPath:     flagDB,
		Timezone:   flagTZ,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore loads the configuration and opens the database it points at.
func openStore() (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("opened database", "path", cfg.DBPath, "timezone", cfg.Location.String())
	return cfg, s, nil
}

func newEngine(cfg *config.Config) *stats.Engine {
	if flagVerbose {
		return stats.New(cfg.Location, stats.WithObserver(debugObserver{}))
	}
	return stats.New(cfg.Location)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger.Init(logFile, logLevel())

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer s.Close()

	app := tui.NewApp(s, cfg)
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.Error("failed to close watcher", "error", cerr)
		}
	}()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
