package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if cfg.WeekStartDay() != time.Monday {
		t.Errorf("WeekStartDay = %v, want Monday", cfg.WeekStartDay())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("listen: \":9000\"\nstore_url: \"http://store:9090\"\nweek_start: sunday\nrefresh: \"\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.StoreURL != "http://store:9090" {
		t.Errorf("StoreURL = %q", cfg.StoreURL)
	}
	if cfg.WeekStartDay() != time.Sunday {
		t.Errorf("WeekStartDay = %v, want Sunday", cfg.WeekStartDay())
	}
	if cfg.RefreshCron != "" {
		t.Errorf("RefreshCron = %q, want empty", cfg.RefreshCron)
	}
}

func TestLoadRejectsBadWeekStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("week_start: tuesday\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("want an error for unsupported week_start")
	}
}
