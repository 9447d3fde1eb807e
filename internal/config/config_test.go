package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default("/tmp/tb")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/tmp/tb/timerboard.db", cfg.DBPath)
	assert.Equal(t, []int{30, 60, 90}, cfg.Presets)
	assert.Equal(t, 30, cfg.DefaultMinutes)
	assert.Equal(t, 5, cfg.Alarm.Beeps)
	assert.Equal(t, 600*time.Millisecond, cfg.Alarm.Interval)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	def := Default(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), def)
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoadFileRequiresFile(t *testing.T) {
	def := Default(t.TempDir())
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), def)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeConfig(t, "default_minutes: 45\n")
	cfg, err := LoadFile(path, def)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.DefaultMinutes)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/tb.db
listen: 127.0.0.1:9090
presets: [15, 45]
default_minutes: 45
warning_seconds: 120
alarm:
  beeps: 3
  interval: 1s
`)
	cfg, err := Load(path, Default("/d"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tb.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9090", cfg.Listen)
	assert.Equal(t, []int{15, 45}, cfg.Presets)
	assert.Equal(t, 45, cfg.DefaultMinutes)
	assert.Equal(t, 120, cfg.BoardOptions().WarningSeconds)
	assert.Equal(t, 10, cfg.BoardOptions().SaveEverySeconds, "untouched keys keep defaults")

	a := cfg.AlarmOptions()
	assert.Equal(t, 3, a.Beeps)
	assert.Equal(t, time.Second, a.Interval)
	assert.Equal(t, 500*time.Millisecond, a.Pulse)
	assert.Equal(t, 800.0, a.Frequency)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "presets: [1, 2",
		"empty presets":   "presets: []",
		"preset too long": "presets: [1000]",
		"zero default":    "default_minutes: 0",
		"gain":            "alarm:\n  gain: 2",
		"beeps":           "alarm:\n  beeps: -1",
		"interval":        "alarm:\n  interval: 0s",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body), Default("/d"))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(path)))
}
