// Package config loads aiswatch configuration from defaults, an optional
// YAML file and AISWATCH_-prefixed environment variables, in that order.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "AISWATCH_"

// Config is the full client configuration.
type Config struct {
	// ServerURL is the base URL of the AIS backend REST API.
	ServerURL string `koanf:"server_url"`
	// WebsocketURL is the streaming endpoint. Derived from ServerURL when
	// empty (http→ws, path /ws-ais).
	WebsocketURL string `koanf:"websocket_url"`
	// DataDir holds the local store and log file.
	DataDir string `koanf:"data_dir"`
	// CoastlineShapefile optionally points at a shapefile rendered as a
	// chart overlay.
	CoastlineShapefile string `koanf:"coastline_shapefile"`

	ReconnectDelay time.Duration `koanf:"reconnect_delay"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	LogLevel       string        `koanf:"log_level"`
}

func defaultConfig() Config {
	return Config{
		ServerURL:      "http://localhost:8080",
		DataDir:        defaultDataDir(),
		ReconnectDelay: 5 * time.Second,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "aiswatch")
	}
	return "data"
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply; a named file that does not exist
// is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.WebsocketURL == "" {
		wsURL, err := deriveWebsocketURL(cfg.ServerURL)
		if err != nil {
			return nil, err
		}
		cfg.WebsocketURL = wsURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.ServerURL); err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	u, err := url.ParseRequestURI(c.WebsocketURL)
	if err != nil {
		return fmt.Errorf("invalid websocket_url %q: %w", c.WebsocketURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("websocket_url scheme must be ws or wss, got %q", u.Scheme)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect_delay must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}

// OverrideServer replaces the server URL (a command line flag beats the file
// and the environment) and re-derives the websocket endpoint from it.
func (c *Config) OverrideServer(serverURL string) error {
	wsURL, err := deriveWebsocketURL(serverURL)
	if err != nil {
		return err
	}
	c.ServerURL = serverURL
	c.WebsocketURL = wsURL
	return nil
}

// deriveWebsocketURL maps the REST base URL to the streaming endpoint.
func deriveWebsocketURL(serverURL string) (string, error) {
	u, err := url.ParseRequestURI(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server_url %q: %w", serverURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("cannot derive websocket url from scheme %q", u.Scheme)
	}
	u.Path = "/ws-ais"
	return u.String(), nil
}
