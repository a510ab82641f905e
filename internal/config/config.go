package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// MinIdleTimeout is the shortest non-zero session idle timeout.
const MinIdleTimeout = time.Second

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Auth      AuthConfig      `yaml:"auth"`
	Map       MapConfig       `yaml:"map"`
	Session   SessionConfig   `yaml:"session"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HRL_SERVER_HOST"`
	Port int    `yaml:"port" env:"HRL_SERVER_PORT"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"HRL_DB_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"HRL_LOG_LEVEL"`
	Path  string `yaml:"path" env:"HRL_LOG_PATH"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"HRL_TRANSPORT"`
}

// CatalogConfig names a catalog file imported at startup, if any.
type CatalogConfig struct {
	Path string `yaml:"path" env:"HRL_CATALOG_PATH"`
}

// AuthConfig guards the admin endpoints. An empty token disables them.
type AuthConfig struct {
	AdminToken string `yaml:"admin_token" env:"HRL_ADMIN_TOKEN"`
}

// MapConfig sizes the headless map and fixes the camera-fit constants.
type MapConfig struct {
	Width      float64 `yaml:"width" env:"HRL_MAP_WIDTH"`
	Height     float64 `yaml:"height" env:"HRL_MAP_HEIGHT"`
	FocusZoom  float64 `yaml:"focus_zoom" env:"HRL_FOCUS_ZOOM"`
	FitPadding float64 `yaml:"fit_padding" env:"HRL_FIT_PADDING"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HRL_SESSION_IDLE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "hrl.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Map: MapConfig{
			Width:      800,
			Height:     600,
			FocusZoom:  12,
			FitPadding: 50,
		},
		Session: SessionConfig{
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file named by
// HRL_CONFIG_PATH, and environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("HRL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("invalid map size %vx%v", c.Map.Width, c.Map.Height)
	}
	if c.Map.FocusZoom < 0 || c.Map.FocusZoom > 18 {
		return fmt.Errorf("invalid focus zoom %v", c.Map.FocusZoom)
	}
	if c.Map.FitPadding < 0 {
		return fmt.Errorf("invalid fit padding %v", c.Map.FitPadding)
	}
	// Zero disables idle expiry.
	if c.Session.IdleTimeout < 0 || (c.Session.IdleTimeout > 0 && c.Session.IdleTimeout < MinIdleTimeout) {
		return fmt.Errorf("invalid session idle timeout %v (minimum %v, or 0 to disable)", c.Session.IdleTimeout, MinIdleTimeout)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
