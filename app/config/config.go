package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from a YAML file.
type Config struct {
	// Listen is the HTTP listen address for the calendar UI.
	Listen string `yaml:"listen"`

	// StoreURL is the base URL of the remote events collection.
	StoreURL string `yaml:"store_url"`

	// StatsURL is the base URL of the dashboard statistics service.
	// Empty disables the stats side effects.
	StatsURL string `yaml:"stats_url"`

	// WeekStart is the first day of the week in the month grid:
	// "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start"`

	// RefreshCron is a cron expression for the background refresh of the
	// event list and stats resync. Empty disables the scheduler.
	RefreshCron string `yaml:"refresh"`
}

var AppConfig *Config

// Init loads the configuration into the package-level AppConfig. A missing
// file is not an error; defaults apply.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Get returns the loaded application configuration.
func Get() *Config {
	return AppConfig
}

// Load reads the YAML config at path and fills in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Listen:      ":8080",
		StoreURL:    "http://localhost:9090",
		WeekStart:   "monday",
		RefreshCron: "*/15 * * * *",
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	switch cfg.WeekStart {
	case "", "monday", "sunday":
	default:
		return nil, fmt.Errorf("config: unsupported week_start %q", cfg.WeekStart)
	}
	return cfg, nil
}

// WeekStartDay maps the configured week_start onto a weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}
