package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Parallelism != 3 {
		t.Errorf("Parallelism = %d, want 3", cfg.Parallelism)
	}
	if cfg.CacheCapacity != 100 {
		t.Errorf("CacheCapacity = %d, want 100", cfg.CacheCapacity)
	}
	if got := cfg.DownloadTimeout(); got != 120*time.Second {
		t.Errorf("DownloadTimeout = %s, want 120s", got)
	}
	if got := cfg.PlaybackTimeout(); got != 10*time.Second {
		t.Errorf("PlaybackTimeout = %s, want 10s", got)
	}
	if cfg.PythonExecutable != "python" {
		t.Errorf("PythonExecutable = %q, want python", cfg.PythonExecutable)
	}
	if cfg.WarningBehavior != "summary" {
		t.Errorf("WarningBehavior = %q, want summary", cfg.WarningBehavior)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{Parallelism: 5, DownloadTimeoutSec: 30}
	cfg.ApplyDefaults()
	if cfg.Parallelism != 5 {
		t.Errorf("Parallelism = %d, want 5", cfg.Parallelism)
	}
	if got := cfg.DownloadTimeout(); got != 30*time.Second {
		t.Errorf("DownloadTimeout = %s, want 30s", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	saved := &Config{
		DownloadLocation: "/music",
		Parallelism:      2,
		PythonExecutable: "python3",
	}
	if err := SaveConfig(path, saved); err != nil {
		t.Fatal(err)
	}

	loaded := &Config{}
	if err := LoadConfig(path, loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.DownloadLocation != "/music" || loaded.Parallelism != 2 {
		t.Errorf("loaded = %+v", loaded)
	}
	// LoadConfig also applies defaults to fields the file omits.
	if loaded.CacheCapacity != 100 {
		t.Errorf("CacheCapacity = %d, want defaulted 100", loaded.CacheCapacity)
	}
}

func TestEnsureConfigExistsCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	created, err := EnsureConfigExists(path)
	if err != nil {
		t.Fatal(err)
	}
	if created.Parallelism != 3 {
		t.Errorf("fresh config Parallelism = %d, want 3", created.Parallelism)
	}

	// Second call loads the file written by the first.
	loaded, err := EnsureConfigExists(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.DownloadLocation != created.DownloadLocation {
		t.Errorf("reloaded DownloadLocation = %q, want %q", loaded.DownloadLocation, created.DownloadLocation)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"), &Config{}); err == nil {
		t.Error("LoadConfig on a missing file returned nil error")
	}
}
