package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig maps each endpoint role onto a path relative to the base URL.
type EndpointConfig struct {
	Count       string `mapstructure:"count" yaml:"count"`
	List        string `mapstructure:"list" yaml:"list"`
	MarkRead    string `mapstructure:"mark_read" yaml:"mark_read"`
	MarkAllRead string `mapstructure:"mark_all_read" yaml:"mark_all_read"`
	Delete      string `mapstructure:"delete" yaml:"delete"`
}

// ServiceConfig holds the connection settings for the notification service.
type ServiceConfig struct {
	// BaseURL is the root URL of the hospital application.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PagePath is the shell page probed for element bindings and tokens.
	PagePath string `mapstructure:"page_path" yaml:"page_path"`

	// DetailRoute is the per-notification detail route; "{id}" is replaced.
	DetailRoute string `mapstructure:"detail_route" yaml:"detail_route"`

	// TimeoutSec bounds each HTTP request at the transport level.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	Endpoints EndpointConfig `mapstructure:"endpoints" yaml:"endpoints"`
}

// PollingConfig controls the background count refresh.
type PollingConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// ListConfig controls the notification list cache.
type ListConfig struct {
	// PageSize is the maximum number of notifications requested per load.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// RefetchImmediately reloads an open panel as soon as the cache is
	// invalidated instead of waiting for the next open.
	RefetchImmediately bool `mapstructure:"refetch_immediately" yaml:"refetch_immediately"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Title string `mapstructure:"title" yaml:"title"`
}

// LogConfig controls the log file of the terminal client.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Service ServiceConfig `mapstructure:"service" yaml:"service"`
	Polling PollingConfig `mapstructure:"polling" yaml:"polling"`
	List    ListConfig    `mapstructure:"list" yaml:"list"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// PollInterval returns the polling interval as a duration.
func (c *AppConfig) PollInterval() time.Duration {
	return time.Duration(c.Polling.IntervalSec) * time.Second
}

// Timeout returns the transport timeout as a duration.
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.Service.TimeoutSec) * time.Second
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// configDir returns ~/.config/notifcenter, or "." when the home directory
// cannot be determined.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "notifcenter")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/notifcenter/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultLogPath returns ~/.config/notifcenter/notifcenter.log.
func DefaultLogPath() string {
	return filepath.Join(configDir(), "notifcenter.log")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Service: ServiceConfig{
			PagePath:    "/",
			DetailRoute: "/notifications/{id}/",
			TimeoutSec:  30,
			Endpoints: EndpointConfig{
				Count:       "/notifications/api/conteo/",
				List:        "/notifications/api/lista/",
				MarkRead:    "/notifications/api/marcar-leida/",
				MarkAllRead: "/notifications/api/marcar-todas-leidas/",
				Delete:      "/notifications/api/eliminar/",
			},
		},
		Polling: PollingConfig{IntervalSec: 60},
		List:    ListConfig{PageSize: 10},
		Display: DisplayConfig{Title: "Registro Clínico"},
		Log: LogConfig{
			Path:  DefaultLogPath(),
			Level: "info",
		},
	}
}

// setDefaults registers every default on v so missing keys resolve to
// sensible values.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("service.base_url", d.Service.BaseURL)
	v.SetDefault("service.page_path", d.Service.PagePath)
	v.SetDefault("service.detail_route", d.Service.DetailRoute)
	v.SetDefault("service.timeout_sec", d.Service.TimeoutSec)
	v.SetDefault("service.endpoints.count", d.Service.Endpoints.Count)
	v.SetDefault("service.endpoints.list", d.Service.Endpoints.List)
	v.SetDefault("service.endpoints.mark_read", d.Service.Endpoints.MarkRead)
	v.SetDefault("service.endpoints.mark_all_read", d.Service.Endpoints.MarkAllRead)
	v.SetDefault("service.endpoints.delete", d.Service.Endpoints.Delete)
	v.SetDefault("polling.interval_sec", d.Polling.IntervalSec)
	v.SetDefault("list.page_size", d.List.PageSize)
	v.SetDefault("list.refetch_immediately", d.List.RefetchImmediately)
	v.SetDefault("display.title", d.Display.Title)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed with NOTIFCENTER_ override file values
// (e.g. NOTIFCENTER_SERVICE_BASE_URL).
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("notifcenter")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Service.BaseURL = strings.TrimRight(cfg.Service.BaseURL, "/")

	if cfg.Polling.IntervalSec <= 0 {
		cfg.Polling.IntervalSec = 60
	}
	if cfg.List.PageSize <= 0 {
		cfg.List.PageSize = 10
	}
	if cfg.Service.TimeoutSec <= 0 {
		cfg.Service.TimeoutSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("service", cfg.Service)
	v.Set("polling", cfg.Polling)
	v.Set("list", cfg.List)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
