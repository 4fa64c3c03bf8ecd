package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  url: "ws://10.0.0.5:9000/ws"
websocket:
  max_message_size: 32768
  ping_interval: 20
  pong_timeout: 5
  request_timeout: 10
refresh:
  interval: 30
logging:
  level: debug
  format: text
simulator:
  host: "127.0.0.1"
  port: 9100
  database:
    path: "/tmp/sim.db"
  devices:
    - name: "Xbox Wireless Controller"
      type: "XInput"
      vendor_id: 1118
      product_id: 2835
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.URL != "ws://10.0.0.5:9000/ws" {
		t.Errorf("Server.URL = %q, want %q", cfg.Server.URL, "ws://10.0.0.5:9000/ws")
	}
	if cfg.WebSocket.PingInterval != 20 {
		t.Errorf("WebSocket.PingInterval = %d, want 20", cfg.WebSocket.PingInterval)
	}
	if cfg.Refresh.Interval != 30 {
		t.Errorf("Refresh.Interval = %d, want 30", cfg.Refresh.Interval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if len(cfg.Simulator.Devices) != 1 || cfg.Simulator.Devices[0].VendorID != 1118 {
		t.Errorf("Simulator.Devices = %+v, want one seeded device", cfg.Simulator.Devices)
	}
}

func TestLoad_DefaultsPreserved(t *testing.T) {
	// A minimal file keeps defaults for unspecified sections.
	cfg, err := Load(writeConfig(t, `server: {url: "ws://localhost:9267/ws"}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WebSocket.RequestTimeout != 15 {
		t.Errorf("WebSocket.RequestTimeout = %d, want default 15", cfg.WebSocket.RequestTimeout)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want default json", cfg.Logging.Format)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty url", content: `server: {url: ""}`},
		{name: "bad scheme", content: `server: {url: "http://localhost/ws"}`},
		{name: "zero ping interval", content: `websocket: {ping_interval: 0}`},
		{name: "negative refresh", content: `refresh: {interval: -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Load() expected validation error, got nil")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PADSYNC_SERVER_URL", "wss://tower:9999/ws")
	t.Setenv("PADSYNC_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, `server: {url: "ws://localhost:9267/ws"}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.URL != "wss://tower:9999/ws" {
		t.Errorf("Server.URL = %q, env override not applied", cfg.Server.URL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, env override not applied", cfg.Logging.Level)
	}
}

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}
