package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Padsync.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Logging   LoggingConfig   `yaml:"logging"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// ServerConfig contains backend connection settings.
type ServerConfig struct {
	// URL is the WebSocket endpoint of the companion service,
	// e.g. "ws://127.0.0.1:9267/ws".
	URL string `yaml:"url"`

	// Token is an optional static session token sent on connect.
	Token string `yaml:"token"`
}

// WebSocketConfig contains WebSocket session settings.
// Intervals and timeouts are in seconds.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`

	// RequestTimeout bounds how long a request waits for its response.
	// Identify detection suspends on the backend for up to ~5 seconds,
	// so this must comfortably exceed that.
	RequestTimeout int `yaml:"request_timeout"`
}

// RefreshConfig contains snapshot re-fetch settings.
type RefreshConfig struct {
	// Interval is the periodic full-refresh interval in seconds.
	// Zero disables periodic refresh; pushes still apply.
	Interval int `yaml:"interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SimulatorConfig contains settings for the development backend simulator.
type SimulatorConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	Database SimulatorDatabaseConfig `yaml:"database"`

	// IdentifySlot is the slot index identify.detect resolves to.
	// A negative value simulates "no detection".
	IdentifySlot int `yaml:"identify_slot"`

	// IdentifyDelay is how long identify.detect suspends, in milliseconds.
	IdentifyDelay int `yaml:"identify_delay"`

	// Devices seeds the simulated device table.
	Devices []SimulatorDeviceConfig `yaml:"devices"`
}

// SimulatorDatabaseConfig contains the simulator's SQLite settings.
type SimulatorDatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// SimulatorDeviceConfig describes one seeded device.
type SimulatorDeviceConfig struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PADSYNC_SECTION_KEY
// For example: PADSYNC_SERVER_URL, PADSYNC_LOGGING_LEVEL
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration, used when no config file is
// present. The defaults point at a local simulator instance.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "ws://127.0.0.1:9267/ws",
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 65536,
			PingInterval:   30,
			PongTimeout:    10,
			RequestTimeout: 15,
		},
		Refresh: RefreshConfig{
			Interval: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Simulator: SimulatorConfig{
			Host: "127.0.0.1",
			Port: 9267,
			Database: SimulatorDatabaseConfig{
				Path:        "./data/padsync-sim.db",
				WALMode:     true,
				BusyTimeout: 5,
			},
			IdentifySlot:  0,
			IdentifyDelay: 100,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PADSYNC_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("PADSYNC_SERVER_TOKEN"); v != "" {
		cfg.Server.Token = v
	}
	if v := os.Getenv("PADSYNC_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PADSYNC_SIMULATOR_DATABASE_PATH"); v != "" {
		cfg.Simulator.Database.Path = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.URL == "" {
		errs = append(errs, "server.url is required")
	} else if u, err := url.Parse(c.Server.URL); err != nil {
		errs = append(errs, "server.url is not a valid URL")
	} else if u.Scheme != "ws" && u.Scheme != "wss" {
		errs = append(errs, "server.url scheme must be ws or wss")
	}

	if c.WebSocket.PingInterval < 1 {
		errs = append(errs, "websocket.ping_interval must be at least 1 second")
	}
	if c.WebSocket.PongTimeout < 1 {
		errs = append(errs, "websocket.pong_timeout must be at least 1 second")
	}
	if c.WebSocket.RequestTimeout < 1 {
		errs = append(errs, "websocket.request_timeout must be at least 1 second")
	}
	if c.WebSocket.MaxMessageSize < 1024 {
		errs = append(errs, "websocket.max_message_size must be at least 1024 bytes")
	}

	if c.Refresh.Interval < 0 {
		errs = append(errs, "refresh.interval must not be negative")
	}

	if c.Simulator.Port < 1 || c.Simulator.Port > 65535 {
		errs = append(errs, "simulator.port must be between 1 and 65535")
	}
	if c.Simulator.Database.Path == "" {
		errs = append(errs, "simulator.database.path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetRequestTimeout returns the request timeout as a Duration.
func (c *WebSocketConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetPingInterval returns the ping interval as a Duration.
func (c *WebSocketConfig) GetPingInterval() time.Duration {
	return time.Duration(c.PingInterval) * time.Second
}

// GetPongTimeout returns the pong timeout as a Duration.
func (c *WebSocketConfig) GetPongTimeout() time.Duration {
	return time.Duration(c.PongTimeout) * time.Second
}

// GetInterval returns the periodic refresh interval as a Duration.
func (c *RefreshConfig) GetInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}
