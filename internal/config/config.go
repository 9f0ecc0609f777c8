// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Stats contains ingestion settings.
	Stats StatsConfig `toml:"stats"`

	// Analysis contains analytics settings.
	Analysis AnalysisConfig `toml:"analysis"`

	// Database contains storage settings.
	Database DatabaseConfig `toml:"database"`

	// API contains HTTP server settings.
	API APIConfig `toml:"api"`
}

// StatsConfig contains stats-file ingestion settings.
type StatsConfig struct {
	Dir       string `toml:"dir"`        // Kovaak's stats directory
	MaxImport int    `toml:"max_import"` // Max files per import (0 = unlimited)
	SteamID   string `toml:"steam_id"`   // SteamID for leaderboard lookups
	TimeZone  string `toml:"time_zone"`  // IANA zone for timestamp resolution ("" = local)
}

// AnalysisConfig contains analytics settings.
type AnalysisConfig struct {
	SessionGapMinutes int    `toml:"session_gap_minutes"` // Idle gap that splits sessions
	Metric            string `toml:"metric"`              // "score" or "acc"
}

// DatabaseConfig contains storage settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // SQLite database path
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `toml:"port"` // Listen port for the JSON API
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Stats: StatsConfig{
			Dir:       "",
			MaxImport: 500,
		},
		Analysis: AnalysisConfig{
			SessionGapMinutes: 15,
			Metric:            "score",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		API: APIConfig{
			Port: 8091,
		},
	}
}

// configDir returns the application configuration directory, creating it
// if needed.
func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".refleks-insights")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultDatabasePath returns the database location used when none is
// configured.
func DefaultDatabasePath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "runs.db"), nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Analysis.SessionGapMinutes < 1 || c.Analysis.SessionGapMinutes > 240 {
		return fmt.Errorf("session gap must be between 1 and 240 minutes: %d", c.Analysis.SessionGapMinutes)
	}

	if c.Analysis.Metric != "score" && c.Analysis.Metric != "acc" {
		return fmt.Errorf("invalid metric %q: must be \"score\" or \"acc\"", c.Analysis.Metric)
	}

	if c.Stats.MaxImport < 0 {
		return fmt.Errorf("max import cannot be negative: %d", c.Stats.MaxImport)
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}

	return nil
}
