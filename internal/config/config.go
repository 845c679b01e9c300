// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Model type identifiers accepted by the classification service.
const (
	ModelBERT       = "bert"
	ModelNaiveBayes = "naive_bayes"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Storage backend names.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// DefaultAPIURL is the classification endpoint used when nothing is
// configured; it matches the development server's default address.
const DefaultAPIURL = "http://127.0.0.1:5000/predict"

// =============================================================================
// SETTINGS
// =============================================================================

// Settings holds the user-facing settings mirrored to durable storage.
// The settings UI replaces the whole struct on every change; fields are
// never patched individually.
type Settings struct {
	// Theme is the UI theme: "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// APIURL is the classification service endpoint.
	APIURL string `toml:"api_url" json:"apiUrl"`
	// ModelType selects the classifier: "bert" or "naive_bayes".
	ModelType string `toml:"model_type" json:"modelType"`
	// ShowModelAnalysis toggles token-importance rendering.
	ShowModelAnalysis bool `toml:"show_model_analysis" json:"showModelAnalysis"`
}

// DefaultSettings returns the hard-coded settings defaults.
func DefaultSettings() Settings {
	return Settings{
		Theme:             ThemeDark,
		APIURL:            DefaultAPIURL,
		ModelType:         ModelBERT,
		ShowModelAnalysis: false,
	}
}

// Normalize clamps invalid fields back to their defaults. Unknown themes or
// model types from an old or hand-edited payload degrade gracefully instead
// of failing the load.
func (s *Settings) Normalize() {
	if s.Theme != ThemeDark && s.Theme != ThemeLight {
		s.Theme = ThemeDark
	}
	if s.ModelType != ModelBERT && s.ModelType != ModelNaiveBayes {
		s.ModelType = ModelBERT
	}
	if s.APIURL == "" {
		s.APIURL = DefaultAPIURL
	}
}

// Validate reports whether the settings are usable.
func (s *Settings) Validate() error {
	if s.Theme != ThemeDark && s.Theme != ThemeLight {
		return fmt.Errorf("invalid theme %q", s.Theme)
	}
	if s.ModelType != ModelBERT && s.ModelType != ModelNaiveBayes {
		return fmt.Errorf("invalid model type %q", s.ModelType)
	}
	u, err := url.Parse(s.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url %q", s.APIURL)
	}
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

// Config is the resolved startup configuration: settings defaults plus
// process-level options that are not part of the persisted settings payload.
type Config struct {
	Settings Settings `toml:"settings"`

	// Storage selects the key-value backend: "file" or "sqlite".
	Storage string `toml:"storage"`
	// DataDir overrides the state directory (default ~/.moodlens/state).
	DataDir string `toml:"data_dir"`
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Settings: DefaultSettings(),
		Storage:  StorageFile,
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// ConfigDir returns the moodlens configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".moodlens"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultDataDir returns the default state directory for the key-value store.
func DefaultDataDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state"), nil
}

// LogPath returns the path of the application log file.
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "moodlens.log"), nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load resolves configuration: defaults, then the optional config file, then
// environment overrides. A missing config file is not an error; a malformed
// one is.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Settings.Normalize()
	if cfg.Storage != StorageFile && cfg.Storage != StorageSQLite {
		return nil, fmt.Errorf("invalid storage backend %q", cfg.Storage)
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML config file over the current values.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies MOODLENS_* environment variables over the
// current values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MOODLENS_API_URL"); v != "" {
		c.Settings.APIURL = v
	}
	if v := os.Getenv("MOODLENS_MODEL"); v != "" {
		c.Settings.ModelType = v
	}
	if v := os.Getenv("MOODLENS_THEME"); v != "" {
		c.Settings.Theme = v
	}
	if v := os.Getenv("MOODLENS_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("MOODLENS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// ResolveDataDir returns the configured data directory, falling back to the
// default and creating it if needed.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		var err error
		dir, err = DefaultDataDir()
		if err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}
