package job

import (
	"errors"
	"io/fs"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// DemoConfig drives the parent/child demo; it lives under the `demo` key
// of config.yml.
type DemoConfig struct {
	Iterations int `yaml:"iterations"` // 6 (by default)
	KillAt     int `yaml:"kill_at"`    // 3 (by default), 0 = never kill the child
}

func defaultDemoConfig() DemoConfig {
	return DemoConfig{Iterations: 6, KillAt: 3}
}

// LoadDemo reads the `demo` section of the YAML file at path. Empty path or
// a missing file = defaults only.
func LoadDemo(path string) (DemoConfig, error) {
	doc := struct {
		Demo DemoConfig `yaml:"demo"`
	}{Demo: defaultDemoConfig()}

	if path == "" {
		return doc.Demo, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc.Demo, nil
	}
	if err != nil {
		return doc.Demo, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return defaultDemoConfig(), err
	}

	// sanity clamps
	cfg := doc.Demo
	if cfg.Iterations <= 0 {
		cfg.Iterations = 6
	}
	if cfg.KillAt < 0 {
		cfg.KillAt = 0
	}
	if cfg.KillAt > cfg.Iterations {
		cfg.KillAt = cfg.Iterations
	}
	return cfg, nil
}
