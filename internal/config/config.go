// Package config provides application configuration management for colorname.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Defaults used when the config file omits a value.
const (
	DefaultHost          = "localhost"
	DefaultPort          = 8791
	DefaultNeighborCount = 5
	DefaultDebounce      = 500 * time.Millisecond
)

// Config holds the colorname configuration.
type Config struct {
	PaletteFile   string       `json:"palette_file,omitempty"`   // Custom palette table (empty = bundled)
	Language      string       `json:"language,omitempty"`       // UI language tag (e.g. "en", "de")
	NeighborCount int          `json:"neighbor_count"`           // Default window for neighbors
	Server        ServerConfig `json:"server"`                   // HTTP API settings
	Watch         bool         `json:"watch"`                    // Reload palette_file on change while serving
	WatchDebounce string       `json:"watch_debounce,omitempty"` // Debounce duration (e.g. "500ms")
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Token string `json:"token,omitempty"` // Bearer token; COLORNAME_API_TOKEN takes precedence
}

// DebounceDuration returns the parsed watch debounce (default: 500ms).
func (c Config) DebounceDuration() time.Duration {
	if c.WatchDebounce != "" {
		if d, err := time.ParseDuration(c.WatchDebounce); err == nil && d > 0 {
			return d
		}
	}
	return DefaultDebounce
}

// APIToken returns the bearer token for the HTTP API, preferring the
// environment over the config file.
func (c Config) APIToken() string {
	if v := os.Getenv("COLORNAME_API_TOKEN"); v != "" {
		return v
	}
	return c.Server.Token
}

// Dir returns the path to the colorname config directory.
// COLORNAME_HOME overrides the default of ~/.colorname.
func Dir() (string, error) {
	if v := os.Getenv("COLORNAME_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".colorname"), nil
}

// Path returns the path to the main config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load loads the configuration, writing defaults on first run.
func Load() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		cfg := Default()
		_ = Save(cfg) // defaults are usable even if the dir is read-only
		return cfg, nil
	} else if err != nil {
		return Config{}, err
	}

	// Start from defaults so missing keys keep sensible values.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.NeighborCount <= 0 {
		c.NeighborCount = DefaultNeighborCount
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}

// Default returns a configuration with all defaults set.
func Default() Config {
	return Config{
		NeighborCount: DefaultNeighborCount,
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Watch:         true,
		WatchDebounce: DefaultDebounce.String(),
	}
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
