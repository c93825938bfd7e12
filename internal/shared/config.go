package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultBaseURL is the backend the client talks to when nothing else is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// DefaultTimeout bounds every HTTP call when the config does not set one.
const DefaultTimeout = 15 * time.Second

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig contains the hobby hub backend connection settings.
type APIConfig struct {
	BaseURL   string   `toml:"base_url"`
	Timeout   duration `toml:"timeout"`
	RateLimit float64  `toml:"rate_limit"`
	UserAgent string   `toml:"user_agent"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// UIConfig contains settings shared by the CLI views and the TUI.
type UIConfig struct {
	LoginRoute  string `toml:"login_route"`
	HeatmapDays int    `toml:"heatmap_days"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level   string `toml:"level"`
	TUIFile string `toml:"tui_file"`
}

// duration lets TOML strings like "15s" decode into a [time.Duration].
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	d.Duration = parsed
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports configuration values the client cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("%w: api.base_url must be an http(s) URL, got %q", ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.UI.HeatmapDays < 0 {
		return fmt.Errorf("%w: ui.heatmap_days must not be negative", ErrInvalidConfig)
	}
	return nil
}

// TimeoutOrDefault returns the HTTP timeout, defaulting to [DefaultTimeout].
func (a APIConfig) TimeoutOrDefault() time.Duration {
	if a.Timeout.Duration <= 0 {
		return DefaultTimeout
	}
	return a.Timeout.Duration
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if !strings.HasPrefix(trimmed, "~") {
		return trimmed
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return trimmed
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
}
