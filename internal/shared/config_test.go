package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "crosspub.db" {
			t.Errorf("expected database path crosspub.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8811 {
			t.Errorf("expected server port 8811, got %d", config.Server.Port)
		}

		if config.Chrome.DebugHost != "127.0.0.1" {
			t.Errorf("expected debug host 127.0.0.1, got %s", config.Chrome.DebugHost)
		}

		if !config.Automation.ManualConfirm {
			t.Error("manual confirm must default to on")
		}

		if config.Automation.DriveTimeout() != 45*time.Second {
			t.Errorf("expected 45s drive timeout, got %s", config.Automation.DriveTimeout())
		}

		if config.Automation.PollInterval() != 200*time.Millisecond {
			t.Errorf("expected 200ms poll interval, got %s", config.Automation.PollInterval())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[chrome]
binary = "/opt/chrome/chrome"
profiles_dir = "/data/profiles"
debug_host = "127.0.0.1"

[automation]
drive_timeout_secs = 90
manual_confirm = false

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected custom database path, got %s", config.Database.Path)
		}
		if config.Chrome.Binary != "/opt/chrome/chrome" {
			t.Errorf("expected custom chrome binary, got %s", config.Chrome.Binary)
		}
		if config.Automation.DriveTimeout() != 90*time.Second {
			t.Errorf("expected 90s drive timeout, got %s", config.Automation.DriveTimeout())
		}
		if config.Automation.ManualConfirm {
			t.Error("manual confirm should be off")
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected port 8080, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		if _, err := LoadConfig("/no/such/config.toml"); err == nil {
			t.Error("loading a missing config file should fail")
		}
	})
}
