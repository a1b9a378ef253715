// Package config loads timetable's configuration from defaults, a TOML file
// and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Grid    GridConfig    `toml:"grid"`
	Layout  LayoutConfig  `toml:"layout"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"` // empty means ~/.config/timetable/timetable.db
}

// GridConfig controls how the day grid maps onto terminal rows.
type GridConfig struct {
	MinutesPerRow int `toml:"minutes_per_row"`
}

// LayoutConfig holds the stacking parameters, in minutes.
type LayoutConfig struct {
	GapMinutes       int `toml:"gap_minutes"`
	MinHeightMinutes int `toml:"min_height_minutes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `toml:"file"`  // empty disables logging
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	WeekStart string `toml:"week_start"` // "monday" or "sunday"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			MinutesPerRow: 15,
		},
		Layout: LayoutConfig{
			GapMinutes:       5,
			MinHeightMinutes: 15,
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			WeekStart: "monday",
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timetable", "config.toml")
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom starts with defaults, overlays the file at path if it exists,
// then applies environment overrides and validates the result.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TIMETABLE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TIMETABLE_MINUTES_PER_ROW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIMETABLE_MINUTES_PER_ROW: %w", err)
		}
		cfg.Grid.MinutesPerRow = n
	}
	if v := os.Getenv("TIMETABLE_GAP_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIMETABLE_GAP_MINUTES: %w", err)
		}
		cfg.Layout.GapMinutes = n
	}
	if v := os.Getenv("TIMETABLE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("TIMETABLE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TIMETABLE_WEEK_START"); v != "" {
		cfg.UI.WeekStart = v
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Grid.MinutesPerRow < 1 || c.Grid.MinutesPerRow > 60 {
		return fmt.Errorf("minutes_per_row must be between 1 and 60, got %d", c.Grid.MinutesPerRow)
	}
	if 60%c.Grid.MinutesPerRow != 0 {
		return fmt.Errorf("minutes_per_row must divide an hour, got %d", c.Grid.MinutesPerRow)
	}
	if c.Layout.GapMinutes < 0 {
		return errors.New("gap_minutes must not be negative")
	}
	if c.Layout.MinHeightMinutes < 1 {
		return errors.New("min_height_minutes must be at least 1")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := parseWeekday(c.UI.WeekStart); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

// WeekStart returns the configured first day of the week.
func (c *Config) WeekStart() time.Weekday {
	d, _ := parseWeekday(c.UI.WeekStart)
	return d
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "monday", "":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	}
	return time.Monday, fmt.Errorf("week_start must be monday or sunday, got %q", s)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
