package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Remote   RemoteConfig   `json:"remote"`
	Tracking TrackingConfig `json:"tracking"`
	Voice    VoiceConfig    `json:"voice"`
	Display  DisplayConfig  `json:"display"`
	Server   ServerConfig   `json:"server"`
	Log      LogConfig      `json:"log"`
}

// RemoteConfig points the client at a runs service
type RemoteConfig struct {
	BaseURL string `json:"base_url"`
}

// TrackingConfig holds run session settings
type TrackingConfig struct {
	TreadmillSpeedKmh float64 `json:"treadmill_speed_kmh"`
	FixTimeoutSeconds int     `json:"fix_timeout_seconds"`
	// ReplayFile is a GPX track that drives outdoor runs
	ReplayFile    string  `json:"replay_file,omitempty"`
	ReplaySpeedup float64 `json:"replay_speedup"`
}

// FixTimeout returns the location fix timeout as a duration
func (t TrackingConfig) FixTimeout() time.Duration {
	return time.Duration(t.FixTimeoutSeconds) * time.Second
}

// VoiceConfig holds spoken feedback settings
type VoiceConfig struct {
	Enabled *bool `json:"enabled,omitempty"` // nil means enabled
}

// IsEnabled reports whether announcements are spoken
func (v VoiceConfig) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	PaceUnit     string `json:"pace_unit"`
}

// ServerConfig holds settings for `runtracker serve`
type ServerConfig struct {
	Addr              string `json:"addr"`
	DBPath            string `json:"db_path,omitempty"`
	TokenSecret       string `json:"token_secret"`
	TokenTTLHours     int    `json:"token_ttl_hours"`
	RequestsPerMinute int    `json:"requests_per_minute"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `json:"level"`
}

// SlogLevel converts the configured level name
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			BaseURL: "http://localhost:8080",
		},
		Tracking: TrackingConfig{
			TreadmillSpeedKmh: 8.0,
			FixTimeoutSeconds: 10,
			ReplaySpeedup:     1,
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			TokenTTLHours:     720,
			RequestsPerMinute: 120,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from ~/.runtracker/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration at path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills missing values
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = defaults.Remote.BaseURL
	}
	if c.Tracking.TreadmillSpeedKmh == 0 {
		c.Tracking.TreadmillSpeedKmh = defaults.Tracking.TreadmillSpeedKmh
	}
	if c.Tracking.FixTimeoutSeconds == 0 {
		c.Tracking.FixTimeoutSeconds = defaults.Tracking.FixTimeoutSeconds
	}
	if c.Tracking.ReplaySpeedup == 0 {
		c.Tracking.ReplaySpeedup = defaults.Tracking.ReplaySpeedup
	}
	if c.Display.DistanceUnit == "" {
		c.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if c.Display.PaceUnit == "" {
		c.Display.PaceUnit = defaults.Display.PaceUnit
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.TokenTTLHours == 0 {
		c.Server.TokenTTLHours = defaults.Server.TokenTTLHours
	}
	if c.Server.RequestsPerMinute == 0 {
		c.Server.RequestsPerMinute = defaults.Server.RequestsPerMinute
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// Save writes the configuration to ~/.runtracker/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path
func SaveTo(path string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Server.TokenSecret = "CHANGE_ME"
	return SaveTo(path, &example)
}

// Validate checks the client settings
func (c *Config) Validate() error {
	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	if c.Tracking.TreadmillSpeedKmh < 0 || c.Tracking.TreadmillSpeedKmh > 30 {
		return fmt.Errorf("tracking.treadmill_speed_kmh must be between 0 and 30, got %v", c.Tracking.TreadmillSpeedKmh)
	}
	if c.Tracking.FixTimeoutSeconds < 0 {
		return fmt.Errorf("tracking.fix_timeout_seconds must not be negative, got %d", c.Tracking.FixTimeoutSeconds)
	}
	if c.Tracking.ReplaySpeedup < 0 {
		return fmt.Errorf("tracking.replay_speedup must be positive, got %v", c.Tracking.ReplaySpeedup)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

// ValidateServer checks the settings `runtracker serve` needs
func (c *Config) ValidateServer() error {
	if c.Server.TokenSecret == "" || c.Server.TokenSecret == "CHANGE_ME" {
		return errors.New("server.token_secret is required to sign session tokens")
	}
	if len(c.Server.TokenSecret) < 16 {
		return errors.New("server.token_secret must be at least 16 characters")
	}
	if c.Server.TokenTTLHours < 0 {
		return fmt.Errorf("server.token_ttl_hours must not be negative, got %d", c.Server.TokenTTLHours)
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runtracker"), nil
}
