package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Chrome     ChromeConfig     `toml:"chrome"`
	Automation AutomationConfig `toml:"automation"`
	Server     ServerConfig     `toml:"server"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ChromeConfig contains browser binary and profile settings.
type ChromeConfig struct {
	Binary       string `toml:"binary"`
	ProfilesDir  string `toml:"profiles_dir"`
	DebugHost    string `toml:"debug_host"`
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
}

// AutomationConfig contains timing budgets for session launch and page driving.
type AutomationConfig struct {
	DriveTimeoutSecs  int  `toml:"drive_timeout_secs"`
	LaunchTimeoutSecs int  `toml:"launch_timeout_secs"`
	PollIntervalMS    int  `toml:"poll_interval_ms"`
	ManualConfirm     bool `toml:"manual_confirm"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DriveTimeout returns the per-runner driver budget as a [time.Duration].
func (a AutomationConfig) DriveTimeout() time.Duration {
	return time.Duration(a.DriveTimeoutSecs) * time.Second
}

// LaunchTimeout returns the browser launch budget as a [time.Duration].
func (a AutomationConfig) LaunchTimeout() time.Duration {
	return time.Duration(a.LaunchTimeoutSecs) * time.Second
}

// PollInterval returns the endpoint/surface polling cadence as a [time.Duration].
func (a AutomationConfig) PollInterval() time.Duration {
	return time.Duration(a.PollIntervalMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidInput)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
