// Package config loads the timerboard YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/timerboard/internal/alarm"
	"github.com/sadopc/timerboard/internal/board"
)

const AppName = "timerboard"

// Config is the on-disk configuration. Zero values mean "use the default".
type Config struct {
	DBPath           string `yaml:"db_path"`
	LogFile          string `yaml:"log_file"`
	LogLevel         string `yaml:"log_level"`
	Listen           string `yaml:"listen"`
	Presets          []int  `yaml:"presets"`
	DefaultMinutes   int    `yaml:"default_minutes"`
	WarningSeconds   int    `yaml:"warning_seconds"`
	SaveEverySeconds int    `yaml:"save_every_seconds"`
	Alarm            Alarm  `yaml:"alarm"`
}

// Alarm configures the expiry beeps.
type Alarm struct {
	Beeps     int           `yaml:"beeps"`
	Interval  time.Duration `yaml:"interval"`
	Pulse     time.Duration `yaml:"pulse"`
	Frequency float64       `yaml:"frequency"`
	Gain      float64       `yaml:"gain"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	a := alarm.DefaultOptions()
	b := board.DefaultOptions()
	return Config{
		DBPath:           filepath.Join(dir, AppName+".db"),
		LogFile:          filepath.Join(dir, AppName+".log"),
		LogLevel:         "info",
		Listen:           ":8080",
		Presets:          append([]int(nil), board.DefaultPresets...),
		DefaultMinutes:   board.DefaultMinutes,
		WarningSeconds:   b.WarningSeconds,
		SaveEverySeconds: b.SaveEverySeconds,
		Alarm: Alarm{
			Beeps:     a.Beeps,
			Interval:  a.Interval,
			Pulse:     a.Pulse,
			Frequency: a.Frequency,
			Gain:      a.Gain,
		},
	}
}

// Dir returns ~/.config/timerboard.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, AppName), nil
}

// DefaultPath returns ~/.config/timerboard/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg, err := LoadFile(path, defaults)
	if errors.Is(err, os.ErrNotExist) {
		return defaults, nil
	}
	return cfg, err
}

// LoadFile is Load for a path the user named. The file must exist.
func LoadFile(path string, defaults Config) (Config, error) {
	cfg := defaults
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if len(c.Presets) == 0 {
		return errors.New("presets: at least one preset is required")
	}
	for _, p := range c.Presets {
		if p < 1 || p > board.MaxCustomMinutes {
			return fmt.Errorf("presets: %d is outside 1..%d minutes", p, board.MaxCustomMinutes)
		}
	}
	if c.DefaultMinutes < 1 || c.DefaultMinutes > board.MaxCustomMinutes {
		return fmt.Errorf("default_minutes: %d is outside 1..%d", c.DefaultMinutes, board.MaxCustomMinutes)
	}
	if c.WarningSeconds < 1 {
		return fmt.Errorf("warning_seconds: must be positive, got %d", c.WarningSeconds)
	}
	if c.SaveEverySeconds < 1 {
		return fmt.Errorf("save_every_seconds: must be positive, got %d", c.SaveEverySeconds)
	}
	if c.Alarm.Beeps < 1 {
		return fmt.Errorf("alarm.beeps: must be positive, got %d", c.Alarm.Beeps)
	}
	if c.Alarm.Interval <= 0 || c.Alarm.Pulse <= 0 {
		return errors.New("alarm: interval and pulse must be positive")
	}
	if c.Alarm.Gain <= 0 || c.Alarm.Gain > 1 {
		return fmt.Errorf("alarm.gain: %v is outside (0, 1]", c.Alarm.Gain)
	}
	return nil
}

// BoardOptions maps the config onto board options.
func (c Config) BoardOptions() board.Options {
	return board.Options{
		WarningSeconds:   c.WarningSeconds,
		SaveEverySeconds: c.SaveEverySeconds,
	}
}

// AlarmOptions maps the config onto alarm options.
func (c Config) AlarmOptions() alarm.Options {
	return alarm.Options{
		Beeps:     c.Alarm.Beeps,
		Interval:  c.Alarm.Interval,
		Pulse:     c.Alarm.Pulse,
		Frequency: c.Alarm.Frequency,
		Gain:      c.Alarm.Gain,
	}
}
