// Package config loads the launcher configuration from the user's config
// directory, creating a default file on first run so the daemon always
// starts with a complete, valid record.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
)

// Config is the read-only record consumed by the daemon at startup.
type Config struct {
	User      UserConfig      `yaml:"user"`
	Weather   WeatherConfig   `yaml:"weather"`
	Shortcuts ShortcutsConfig `yaml:"shortcuts"`
	Network   NetworkConfig   `yaml:"network"`
	Hotkey    HotkeyConfig    `yaml:"hotkey"`
	Daemon    DaemonConfig    `yaml:"daemon"`
}

// UserConfig supplies the identity fields shown on the launcher card.
type UserConfig struct {
	DisplayName string `yaml:"display_name,omitempty"`
	Email       string `yaml:"email" validate:"omitempty,email"`
	GithubURL   string `yaml:"github_url" validate:"omitempty,url"`
}

// WeatherConfig controls the weather refresh task. The interval is clamped
// to [1, 1440] minutes after defaults are applied.
type WeatherConfig struct {
	Location              string `yaml:"location"`
	APIKey                string `yaml:"api_key,omitempty"`
	Provider              string `yaml:"provider" validate:"omitempty,oneof=stub openweathermap"`
	UpdateIntervalMinutes int    `yaml:"update_interval_minutes"`
}

// ShortcutsConfig defines the launcher link buttons and the commands used
// to open the app menu and the browser.
type ShortcutsConfig struct {
	LeftLinks      []LinkConfig `yaml:"left_links" validate:"dive"`
	RofiCommand    string       `yaml:"rofi_command"`
	BrowserCommand string       `yaml:"browser_command"`
}

// LinkConfig is one shortcut button.
type LinkConfig struct {
	Label    string `yaml:"label" validate:"required"`
	URL      string `yaml:"url" validate:"required,url"`
	IconName string `yaml:"icon_name"`
}

// NetworkConfig optionally pins the monitored interface and names the VPN
// connection toggled over IPC.
type NetworkConfig struct {
	MonitorInterface string `yaml:"monitor_interface,omitempty"`
	VPNName          string `yaml:"vpn_name,omitempty"`
}

// HotkeyConfig is consumed by the front-end; the daemon only persists it.
type HotkeyConfig struct {
	ToggleOverlay string `yaml:"toggle_overlay"`
}

// DaemonConfig tunes the IPC server. DebugAddr enables the Prometheus and
// pprof endpoint when set; it stays off otherwise.
type DaemonConfig struct {
	DebugAddr        string `yaml:"debug_addr,omitempty" validate:"omitempty,hostname_port"`
	MaxConnections   int    `yaml:"max_connections"`
	IOTimeoutSeconds int    `yaml:"io_timeout_seconds"`
}

// Interval bounds for the weather refresh task, in minutes.
const (
	minWeatherIntervalMinutes = 1
	maxWeatherIntervalMinutes = 1440
)

// IPC server fallbacks applied when the daemon section is absent.
const (
	defaultMaxConnections   = 64
	defaultIOTimeoutSeconds = 5
)

// Defaults returns the configuration written on first run.
func Defaults() *Config {
	return &Config{
		User: UserConfig{
			Email:     "user@example.com",
			GithubURL: "https://github.com",
		},
		Weather: WeatherConfig{
			Location:              "Seattle, WA",
			Provider:              "stub",
			UpdateIntervalMinutes: 15,
		},
		Shortcuts: ShortcutsConfig{
			LeftLinks: []LinkConfig{
				{Label: "GitHub", URL: "https://github.com", IconName: "github"},
				{Label: "Mail", URL: "https://protonmail.com", IconName: "mail"},
				{Label: "OSV", URL: "https://onyxdigital.dev/OnyxOSV", IconName: "osv"},
			},
			RofiCommand:    "rofi -show drun",
			BrowserCommand: "firefox",
		},
		Network: NetworkConfig{},
		Hotkey: HotkeyConfig{
			ToggleOverlay: "Super+Shift+Space",
		},
		Daemon: DaemonConfig{
			MaxConnections:   defaultMaxConnections,
			IOTimeoutSeconds: defaultIOTimeoutSeconds,
		},
	}
}

// DefaultPath resolves (and creates) the per-user config directory and
// returns the config file path inside it.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "could not resolve config directory")
	}
	dir := filepath.Join(base, "vacuum")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "could not create config directory")
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration at path, or at the default location when
// path is empty. A missing file is not an error: the defaults are written
// out and returned, matching first-run behavior.
func Load(path string) (*Config, error) {
	// A .env alongside the binary may carry e.g. the weather API key.
	// .env.local takes precedence since godotenv never overwrites keys.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Defaults()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "failed to read config file").
			WithContext("path", path)
	}

	// Expand environment variables so secrets can stay out of the file.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "failed to parse config file").
			WithContext("path", path)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg as YAML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "could not create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CategoryInternal, apperrors.SeverityFatal, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.CategoryConfig, apperrors.SeverityFatal, "failed to write config file").
			WithContext("path", path)
	}
	return nil
}

// applyDefaults fills unset fields and clamps the weather interval. Partial
// config files are common; every omission falls back to the stock value.
func applyDefaults(cfg *Config) {
	def := Defaults()

	if cfg.User.Email == "" {
		cfg.User.Email = def.User.Email
	}
	if cfg.User.GithubURL == "" {
		cfg.User.GithubURL = def.User.GithubURL
	}

	if cfg.Weather.Location == "" {
		cfg.Weather.Location = def.Weather.Location
	}
	if cfg.Weather.Provider == "" {
		cfg.Weather.Provider = def.Weather.Provider
	}
	if cfg.Weather.UpdateIntervalMinutes == 0 {
		cfg.Weather.UpdateIntervalMinutes = def.Weather.UpdateIntervalMinutes
	}
	if cfg.Weather.UpdateIntervalMinutes < minWeatherIntervalMinutes {
		cfg.Weather.UpdateIntervalMinutes = minWeatherIntervalMinutes
	}
	if cfg.Weather.UpdateIntervalMinutes > maxWeatherIntervalMinutes {
		cfg.Weather.UpdateIntervalMinutes = maxWeatherIntervalMinutes
	}

	if len(cfg.Shortcuts.LeftLinks) == 0 {
		cfg.Shortcuts.LeftLinks = def.Shortcuts.LeftLinks
	}
	if cfg.Shortcuts.RofiCommand == "" {
		cfg.Shortcuts.RofiCommand = def.Shortcuts.RofiCommand
	}
	if cfg.Shortcuts.BrowserCommand == "" {
		cfg.Shortcuts.BrowserCommand = def.Shortcuts.BrowserCommand
	}

	if cfg.Hotkey.ToggleOverlay == "" {
		cfg.Hotkey.ToggleOverlay = def.Hotkey.ToggleOverlay
	}

	if cfg.Daemon.MaxConnections <= 0 {
		cfg.Daemon.MaxConnections = def.Daemon.MaxConnections
	}
	if cfg.Daemon.IOTimeoutSeconds <= 0 {
		cfg.Daemon.IOTimeoutSeconds = def.Daemon.IOTimeoutSeconds
	}
}

// WeatherInterval is the clamped refresh cadence as a duration-friendly
// minute count.
func (c *Config) WeatherInterval() int {
	return c.Weather.UpdateIntervalMinutes
}

// VPNName returns the configured VPN connection name, or "vpn" when unset.
func (c *Config) VPNName() string {
	if c.Network.VPNName == "" {
		return "vpn"
	}
	return c.Network.VPNName
}

// IOTimeout is the per-connection read/write deadline for the IPC server.
func (c *Config) IOTimeout() time.Duration {
	return time.Duration(c.Daemon.IOTimeoutSeconds) * time.Second
}
