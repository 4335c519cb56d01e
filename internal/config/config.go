package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	DataDir      string  `toml:"data_dir"`
	Deck         string  `toml:"deck"`
	ListenAddr   string  `toml:"listen_addr"`
	TickRate     int     `toml:"tick_rate"`
	GridSnap     float64 `toml:"grid_snap"`
	RotationStep float64 `toml:"rotation_step"`
	EaseFactor   float64 `toml:"ease_factor"`
	LogLevel     string  `toml:"log_level"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		ListenAddr:   "127.0.0.1:8080",
		TickRate:     60,
		GridSnap:     0.1,
		RotationStep: 0.1,
		EaseFactor:   0.5,
		LogLevel:     "info",
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	if p := os.Getenv("CARDHOUSE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(GetXDGConfigHome(), "cardhouse", "config.toml")
}

// DataPath returns the directory saves and presets are kept in
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(GetXDGDataHome(), "cardhouse")
}

// Normalize replaces unusable values with defaults
func (c *Config) Normalize() {
	d := Default()
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.GridSnap < 0 {
		c.GridSnap = d.GridSnap
	}
	if c.RotationStep <= 0 {
		c.RotationStep = d.RotationStep
	}
	if c.EaseFactor <= 0 || c.EaseFactor > 1 {
		c.EaseFactor = d.EaseFactor
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// LoadConfig loads the config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(GetConfigFilePath())
}

// LoadConfigFrom loads the config file at path, creating it with defaults
// if it doesn't exist
func LoadConfigFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	config.Normalize()
	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	config := Default()
	if err := SaveConfigTo(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfigTo writes config to path
func SaveConfigTo(configPath string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return nil
}

// GetDeckPath resolves the configured deck file, either in the data
// directory or as a path. An empty name means the standard deck.
func (c *Config) GetDeckPath() (string, error) {
	if c.Deck == "" {
		return "", nil
	}

	libraryPath := filepath.Join(c.DataPath(), "decks", c.Deck)
	if _, err := os.Stat(libraryPath); err == nil {
		return libraryPath, nil
	}
	if _, err := os.Stat(libraryPath + ".toml"); err == nil {
		return libraryPath + ".toml", nil
	}
	if _, err := os.Stat(c.Deck); err == nil {
		return c.Deck, nil
	}
	return "", fmt.Errorf("deck not found: %s", c.Deck)
}
