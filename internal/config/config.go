package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration. Endpoints may be
// left empty, in which case the client runs in demo mode: lists and
// detail views serve synthesized records and the realtime channel
// reports a missing-endpoint status instead of connecting.
type Config struct {
	// APIBaseURL is the root URL of the delivery backend REST API.
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`

	// WSURL is the realtime websocket endpoint.
	WSURL string `mapstructure:"ws_url" yaml:"ws_url"`

	// RequestTimeoutSec bounds each API request.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// APIConfigured reports whether a backend base URL is configured.
func (c *Config) APIConfigured() bool {
	return c.APIBaseURL != ""
}

// RealtimeConfigured reports whether a websocket endpoint is configured.
func (c *Config) RealtimeConfigured() bool {
	return c.WSURL != ""
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/deliverytrack/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "deliverytrack", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		RequestTimeoutSec: 15,
	}
}

// Load reads configuration from the given YAML file path using Viper.
// Environment variables (DELIVERYTRACK_API_BASE_URL, DELIVERYTRACK_WS_URL,
// ...) override file values. A missing file resolves to defaults rather
// than an error; the client degrades to demo mode when endpoints are absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("deliverytrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "")
	v.SetDefault("ws_url", "")
	v.SetDefault("request_timeout_sec", 15)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return fromViper(v)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return fromViper(v)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	return fromViper(v)
}

// fromViper builds a Config by reading each key through viper so that
// AutomaticEnv overrides are honored (Unmarshal alone does not consult
// the environment).
func fromViper(v *viper.Viper) (*Config, error) {
	cfg := defaultConfig()
	cfg.APIBaseURL = strings.TrimRight(v.GetString("api_base_url"), "/")
	cfg.WSURL = v.GetString("ws_url")
	if sec := v.GetInt("request_timeout_sec"); sec > 0 {
		cfg.RequestTimeoutSec = sec
	}
	return cfg, nil
}
