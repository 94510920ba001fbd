package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultParallelism is the download concurrency ceiling.
	DefaultParallelism = 3
	// DefaultCacheCapacity bounds the backend result cache.
	DefaultCacheCapacity = 100
	// DefaultDownloadTimeout is the hard limit on one backend download call.
	DefaultDownloadTimeout = 120 * time.Second
	// DefaultPlaybackTimeout is the hard limit on starting playback.
	DefaultPlaybackTimeout = 10 * time.Second
)

// Configuration structure
type Config struct {
	DownloadLocation    string `json:"DownloadLocation"`
	LibraryFile         string `json:"LibraryFile"`
	Parallelism         int    `json:"Parallelism"`
	CacheCapacity       int    `json:"CacheCapacity"`
	DownloadTimeoutSec  int    `json:"DownloadTimeoutSec"`
	PlaybackTimeoutSec  int    `json:"PlaybackTimeoutSec"`
	PythonExecutable    string `json:"PythonExecutable"`
	BackendPath         string `json:"BackendPath"`
	SpotifyClientID     string `json:"SpotifyClientID"`
	SpotifyClientSecret string `json:"SpotifyClientSecret"`
	NavidromeURL        string `json:"NavidromeURL"`
	NavidromeUsername   string `json:"NavidromeUsername"`
	NavidromePassword   string `json:"NavidromePassword"`
	SaveAlbumArt        bool   `json:"SaveAlbumArt"`
	WarningBehavior     string `json:"WarningBehavior"` // "summary" or "silent"
	DisableMetadataEnrichment bool `json:"DisableMetadataEnrichment"`
	DisableUpdateCheck  bool   `json:"DisableUpdateCheck"`
	UpdateRepo          string `json:"UpdateRepo,omitempty"`
}

// DownloadTimeout returns the configured download timeout, falling back to
// the default when unset.
func (cfg *Config) DownloadTimeout() time.Duration {
	if cfg.DownloadTimeoutSec > 0 {
		return time.Duration(cfg.DownloadTimeoutSec) * time.Second
	}
	return DefaultDownloadTimeout
}

// PlaybackTimeout returns the configured playback-start timeout, falling
// back to the default when unset.
func (cfg *Config) PlaybackTimeout() time.Duration {
	if cfg.PlaybackTimeoutSec > 0 {
		return time.Duration(cfg.PlaybackTimeoutSec) * time.Second
	}
	return DefaultPlaybackTimeout
}

// ApplyDefaults fills zero-valued tuning fields with their defaults.
func (cfg *Config) ApplyDefaults() {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}
	if cfg.DownloadTimeoutSec <= 0 {
		cfg.DownloadTimeoutSec = int(DefaultDownloadTimeout.Seconds())
	}
	if cfg.PlaybackTimeoutSec <= 0 {
		cfg.PlaybackTimeoutSec = int(DefaultPlaybackTimeout.Seconds())
	}
	if cfg.PythonExecutable == "" {
		cfg.PythonExecutable = "python"
	}
	if cfg.WarningBehavior == "" {
		cfg.WarningBehavior = "summary"
	}
}

// GetDefaultConfig returns a config with sensible defaults for a fresh
// install.
func GetDefaultConfig() *Config {
	cfg := &Config{
		DownloadLocation: filepath.Join(os.Getenv("HOME"), "Music", "tunedeck"),
		LibraryFile:      filepath.Join(os.Getenv("HOME"), "Music", "tunedeck", "library.json"),
	}
	cfg.ApplyDefaults()
	return cfg
}

// EnsureConfigExists loads the config file, creating it with defaults when
// missing.
func EnsureConfigExists(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		cfg := GetDefaultConfig()
		if err := SaveConfig(filePath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	cfg := &Config{}
	if err := LoadConfig(filePath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ApplyDefaults()
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
