package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cosmobowz/cosmo/log"
)

const (
	ConfigFileName = "config.json"
	TOMLFileName   = "config.toml"

	defaultServerURL = "http://127.0.0.1:8095"
)

// GetConfigDir returns the path to the application's configuration directory,
// XDG-compliant ~/.config/cosmo/.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "cosmo"), nil
}

// Intervals holds the per-group poll intervals in seconds. Zero values fall
// back to the defaults via WithDefaults at scheduler construction.
type Intervals struct {
	// Data covers the projects/tasks/ideas/logs collections.
	Data int `json:"data" toml:"data"`
	// System covers the /api/system CPU/memory/disk stats.
	System int `json:"system" toml:"system"`
	// Tokens covers /api/tokens usage sessions.
	Tokens int `json:"tokens" toml:"tokens"`
	// Uptime covers /api/uptime service status.
	Uptime int `json:"uptime" toml:"uptime"`
	// GitHub covers /api/github/pending.
	GitHub int `json:"github" toml:"github"`
	// Subagents covers /api/subagents.
	Subagents int `json:"subagents" toml:"subagents"`
}

// Config represents the application configuration.
type Config struct {
	// ServerURL is the base URL of the command center server.
	ServerURL string `json:"server_url" toml:"server_url"`
	// PushURL is the websocket endpoint for real-time updates. When empty it
	// is derived from ServerURL (ws scheme, /ws path).
	PushURL string `json:"push_url,omitempty" toml:"push_url"`
	// Poll holds the per-group poll intervals in seconds.
	Poll Intervals `json:"poll" toml:"poll"`
	// DefaultAssignee is the name used for the ideas assignee filter and as
	// createdBy on new ideas.
	DefaultAssignee string `json:"default_assignee,omitempty" toml:"default_assignee"`
	// NotificationsEnabled controls whether push activity raises toasts.
	NotificationsEnabled *bool `json:"notifications_enabled,omitempty" toml:"notifications_enabled"`
	// TelemetryEnabled controls whether crash reporting via Sentry is active.
	// Defaults to false when not set.
	TelemetryEnabled *bool `json:"telemetry_enabled,omitempty" toml:"telemetry_enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	trueVal := true
	return &Config{
		ServerURL: defaultServerURL,
		Poll: Intervals{
			Data:      60,
			System:    30,
			Tokens:    5,
			Uptime:    30,
			GitHub:    30,
			Subagents: 10,
		},
		DefaultAssignee:      "Bowz",
		NotificationsEnabled: &trueVal,
	}
}

// WithDefaults returns the intervals with every unset (non-positive) group
// replaced by its default. A config file that predates a poll group, or omits
// the poll section entirely, unmarshals to zeroes; without this fallback those
// groups would register stopped and never poll again after the initial load.
func (i Intervals) WithDefaults() Intervals {
	out := DefaultConfig().Poll
	mergeIntervals(&out, i)
	return out
}

// AreNotificationsEnabled returns whether push activity toasts are enabled.
// Defaults to true when the field is not set.
func (c *Config) AreNotificationsEnabled() bool {
	if c.NotificationsEnabled == nil {
		return true
	}
	return *c.NotificationsEnabled
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled.
// Defaults to false when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return false
	}
	return *c.TelemetryEnabled
}

// WebSocketURL returns the push endpoint, deriving it from ServerURL when
// PushURL is not set explicitly.
func (c *Config) WebSocketURL() string {
	if c.PushURL != "" {
		return c.PushURL
	}
	u := c.ServerURL
	switch {
	case len(u) > 8 && u[:8] == "https://":
		u = "wss://" + u[8:]
	case len(u) > 7 && u[:7] == "http://":
		u = "ws://" + u[7:]
	}
	return u + "/ws"
}

// LoadConfig reads config.json from the config directory, creating it with
// defaults on first run, then overlays config.toml for any fields it sets.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return applyTOMLOverlay(defaultCfg, configDir)
		}

		log.WarningLog.Printf("failed to read config file: %v", err)
		return DefaultConfig()
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}
	if config.ServerURL == "" {
		config.ServerURL = defaultServerURL
	}
	config.Poll = config.Poll.WithDefaults()

	return applyTOMLOverlay(&config, configDir)
}

// applyTOMLOverlay merges config.toml into cfg. TOML is authority for the
// fields it sets; absent fields keep their JSON values.
func applyTOMLOverlay(cfg *Config, configDir string) *Config {
	tomlPath := filepath.Join(configDir, TOMLFileName)
	data, err := os.ReadFile(tomlPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WarningLog.Printf("failed to read TOML config: %v", err)
		}
		return cfg
	}

	var overlay Config
	if _, err := toml.Decode(string(data), &overlay); err != nil {
		log.WarningLog.Printf("failed to parse TOML config: %v", err)
		return cfg
	}

	if overlay.ServerURL != "" {
		cfg.ServerURL = overlay.ServerURL
	}
	if overlay.PushURL != "" {
		cfg.PushURL = overlay.PushURL
	}
	if overlay.DefaultAssignee != "" {
		cfg.DefaultAssignee = overlay.DefaultAssignee
	}
	if overlay.NotificationsEnabled != nil {
		cfg.NotificationsEnabled = overlay.NotificationsEnabled
	}
	if overlay.TelemetryEnabled != nil {
		cfg.TelemetryEnabled = overlay.TelemetryEnabled
	}
	mergeIntervals(&cfg.Poll, overlay.Poll)

	return cfg
}

func mergeIntervals(dst *Intervals, src Intervals) {
	if src.Data > 0 {
		dst.Data = src.Data
	}
	if src.System > 0 {
		dst.System = src.System
	}
	if src.Tokens > 0 {
		dst.Tokens = src.Tokens
	}
	if src.Uptime > 0 {
		dst.Uptime = src.Uptime
	}
	if src.GitHub > 0 {
		dst.GitHub = src.GitHub
	}
	if src.Subagents > 0 {
		dst.Subagents = src.Subagents
	}
}

// saveConfig saves the configuration to disk.
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0o644)
}

// SaveConfig exports the saveConfig function for use by other packages.
func SaveConfig(config *Config) error {
	return saveConfig(config)
}
