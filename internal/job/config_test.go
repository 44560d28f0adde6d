package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDemo(t *testing.T) {
	tt := []struct {
		name string
		body string
		want DemoConfig
	}{
		{"Missing", "log_level: debug\n", DemoConfig{Iterations: 6, KillAt: 3}},
		{"Override", "demo:\n  iterations: 10\n  kill_at: 4\n", DemoConfig{Iterations: 10, KillAt: 4}},
		{"NeverKill", "demo:\n  kill_at: 0\n", DemoConfig{Iterations: 6, KillAt: 0}},
		{"KillPastEnd", "demo:\n  iterations: 4\n  kill_at: 9\n", DemoConfig{Iterations: 4, KillAt: 4}},
		{"Negative", "demo:\n  iterations: -1\n  kill_at: -2\n", DemoConfig{Iterations: 6, KillAt: 0}},
	}
	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadDemo(writeConfig(t, tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg)
		})
	}
}

func TestLoadDemoDefaultsAndErrors(t *testing.T) {
	cfg, err := LoadDemo("")
	require.NoError(t, err)
	assert.Equal(t, defaultDemoConfig(), cfg)

	cfg, err = LoadDemo(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, defaultDemoConfig(), cfg)

	cfg, err = LoadDemo(writeConfig(t, "demo: [unterminated"))
	assert.Error(t, err)
	assert.Equal(t, defaultDemoConfig(), cfg)
}
