package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8000/api" {
			t.Errorf("expected base URL http://localhost:8000/api, got %s", config.API.BaseURL)
		}

		if config.API.TimeoutOrDefault() != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", config.API.TimeoutOrDefault())
		}

		if config.UI.LoginRoute != "/login" {
			t.Errorf("expected login route /login, got %s", config.UI.LoginRoute)
		}

		if config.UI.HeatmapDays != 90 {
			t.Errorf("expected 90 heatmap days, got %d", config.UI.HeatmapDays)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

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

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "https://hub.example.com/api"
timeout = "3s"
rate_limit = 2.5

[database]
path = "/custom/hub.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://hub.example.com/api" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}
		if config.API.TimeoutOrDefault() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.API.TimeoutOrDefault())
		}
		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.API.RateLimit)
		}
		if config.Database.Path != "/custom/hub.db" {
			t.Errorf("expected database path /custom/hub.db, got %s", config.Database.Path)
		}
		if config.UI.LoginRoute != "/login" {
			t.Errorf("expected missing sections to keep defaults, got login route %q", config.UI.LoginRoute)
		}
	})

	t.Run("LoadConfig rejects bad values", func(t *testing.T) {
		tc := []struct {
			name    string
			content string
		}{
			{name: "non http base url", content: "[api]\nbase_url = \"ftp://hub\"\n"},
			{name: "bad duration", content: "[api]\ntimeout = \"soon\"\n"},
			{name: "negative rate", content: "[api]\nrate_limit = -1.0\n"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("ExpandPath", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if got := ExpandPath("~/.hobbyhub/hub.db"); got != filepath.Join(home, ".hobbyhub", "hub.db") {
			t.Errorf("ExpandPath() = %s", got)
		}
		if got := ExpandPath("/abs/path"); got != "/abs/path" {
			t.Errorf("ExpandPath() should leave absolute paths alone, got %s", got)
		}
	})
}
