// ABOUTME: Configuration management for the catalog CLI
// ABOUTME: JSON config in the XDG config dir carrying data paths and the browse/filter settings

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hkern/mediathek/internal/storage"
)

// DefaultListURL is the film-list download location used when the config
// does not name one.
const DefaultListURL = "https://liste.mediathekview.de/Filmliste-akt"

// dbFilename is the catalog database file inside the data directory.
const dbFilename = "catalog.db"

// Config stores mediathek configuration.
type Config struct {
	// DataDir is the root directory for the catalog database. Supports ~
	// expansion. Defaults to ~/.local/share/mediathek.
	DataDir string `json:"data_dir,omitempty"`

	// ListURL overrides the film-list download URL.
	ListURL string `json:"list_url,omitempty"`

	// PreferHighQuality picks the HD playback URL when a film has one.
	PreferHighQuality bool `json:"prefer_high_quality"`

	// ExcludeFutureFilms hides films whose air time is still ahead.
	ExcludeFutureFilms bool `json:"exclude_future_films"`

	// MinimumDurationSeconds hides films shorter than this (0 disables).
	MinimumDurationSeconds int `json:"minimum_duration_seconds"`

	// GroupShowsAcrossChannels merges same-named shows when browsing all
	// channels.
	GroupShowsAcrossChannels bool `json:"group_shows_across_channels"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetListURL returns the configured film-list URL or the default.
func (c *Config) GetListURL() string {
	if c.ListURL == "" {
		return DefaultListURL
	}
	return c.ListURL
}

// DBPath returns the catalog database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), dbFilename)
}

// ListCachePath returns the sidecar file holding the film list's cache
// headers between updates.
func (c *Config) ListCachePath() string {
	return filepath.Join(c.GetDataDir(), "listcache.json")
}

// StorageOptions maps the settings onto store options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		ExcludeFuture: c.ExcludeFutureFilms,
		MinLength:     c.MinimumDurationSeconds,
		GroupShows:    c.GroupShowsAcrossChannels,
	}
}

// OpenStore opens the catalog store with the configured settings.
func (c *Config) OpenStore(reset bool, log logrus.FieldLogger, notifier storage.Notifier) (*storage.Store, error) {
	return storage.Open(c.DBPath(), reset, c.StorageOptions(), log, notifier)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "mediathek", "config.json")
}

// Load reads config from disk. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mediathek")
}
