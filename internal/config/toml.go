package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	General GeneralConfig `toml:"general"`
	Notify  NotifyConfig  `toml:"notify"`
}

// GeneralConfig maps storage and time-zone settings.
type GeneralConfig struct {
	DBPath   *string `toml:"db-path"`
	Timezone *string `toml:"timezone"`
}

// NotifyConfig maps desktop notification settings.
type NotifyConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
