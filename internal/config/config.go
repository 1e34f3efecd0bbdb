package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables consulted by Load.
const (
	EnvDBPath   = "MOANITOR_DB_PATH"
	EnvTimezone = "MOANITOR_TZ"
	EnvNotify   = "MOANITOR_NOTIFY"
)

// Config holds the resolved application configuration.
type Config struct {
	ConfigPath string
	DBPath     string
	LogPath    string
	Timezone   string
	Location   *time.Location
	Notify     bool
}

// Overrides carries command-line values. Empty fields are ignored.
type Overrides struct {
	ConfigPath string
	DBPath     string
	Timezone   string
}

// Load resolves configuration with the precedence flags > environment
// (including .env files) > config file > defaults.
func Load(o Overrides) (*Config, error) {
	for _, path := range envPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		ConfigPath: DefaultConfigPath(),
		DBPath:     DefaultDBPath(),
		LogPath:    DefaultLogPath(),
		Notify:     true,
	}
	if o.ConfigPath != "" {
		cfg.ConfigPath = o.ConfigPath
	}

	file, err := LoadFile(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if file.General.DBPath != nil && *file.General.DBPath != "" {
		cfg.DBPath = *file.General.DBPath
	}
	if file.General.Timezone != nil {
		cfg.Timezone = *file.General.Timezone
	}
	if file.Notify.Enabled != nil {
		cfg.Notify = *file.Notify.Enabled
	}

	cfg.DBPath = getEnvString(EnvDBPath, cfg.DBPath)
	cfg.Timezone = getEnvString(EnvTimezone, cfg.Timezone)
	cfg.Notify = getEnvBool(EnvNotify, cfg.Notify)

	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Timezone != "" {
		cfg.Timezone = o.Timezone
	}

	loc, err := ParseLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	cfg.Location = loc
	return cfg, nil
}

// envPaths returns a list of paths to check for .env files.
func envPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(XDGConfigHome(), appName, ".env"))
	return paths
}

// ParseLocation resolves a time-zone name. "" and "Local" select the
// system zone; anything else must be an IANA identifier or "UTC".
func ParseLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool accepts anything strconv.ParseBool does; other values keep the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
