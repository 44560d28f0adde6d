package sched

import (
	"errors"
	"io/fs"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	LogLevel  string `yaml:"log_level"`  // info (by default)
	LogFormat string `yaml:"log_format"` // console or json
	EventLog  string `yaml:"event_log"`  // CSV path, empty = disabled
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads YAML and overrides defaults; empty path or a missing file =
// defaults only. A file that does not parse yields defaults and the error.
// Keys this package does not know are ignored.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), err
	}

	// sanity clamps
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat != "json" {
		cfg.LogFormat = "console"
	}

	return cfg, nil
}
