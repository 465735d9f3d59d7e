package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
service:
  id: "test-panels"
database:
  path: "/tmp/test.db"
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  port: 8080
wires:
  interaction_range: 2
  random_seed: 42
  feedback:
    wires-no-hands: "You have no hands."
boards:
  - id: "airlock-1"
    layout_id: "airlock"
    position: {x: 1, y: 2}
    providers: [door]
  - layout_id: "vendomat"
    obstructed: true
    providers: [vending, light]
operators:
  - name: "alice"
    hands: true
    tool: "wirecutter"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-panels" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-panels")
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
	if cfg.Wires.RandomSeed != 42 {
		t.Errorf("Wires.RandomSeed = %d, want 42", cfg.Wires.RandomSeed)
	}
	if len(cfg.Boards) != 2 {
		t.Fatalf("len(Boards) = %d, want 2", len(cfg.Boards))
	}
	if cfg.Boards[0].Position.Y != 2 || cfg.Boards[0].LayoutID != "airlock" {
		t.Errorf("Boards[0] = %+v", cfg.Boards[0])
	}
	if !cfg.Boards[1].Obstructed || cfg.Boards[1].ID != "" {
		t.Errorf("Boards[1] = %+v", cfg.Boards[1])
	}
	if len(cfg.Tools) != 3 {
		t.Errorf("len(Tools) = %d, want the 3 default tools", len(cfg.Tools))
	}
	if got := cfg.FeedbackText("wires-no-hands"); got != "You have no hands." {
		t.Errorf("FeedbackText() = %q", got)
	}
	if got := cfg.FeedbackText("wires-cant-reach"); got != "wires-cant-reach" {
		t.Errorf("FeedbackText() fallback = %q", got)
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
	_, err := Load(writeConfig(t, `
service:
  id: ""
`))
	if err == nil {
		t.Error("Load() expected validation error for empty service.id, got nil")
	}
}

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Boards = []BoardConfig{{ID: "airlock-1", Providers: []string{ProviderDoor}}}
	cfg.Operators = []OperatorConfig{{Name: "alice", Hands: true, Tool: "wirecutter"}}
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing service ID", func(c *Config) { c.Service.ID = "" }, "service.id"},
		{"missing database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"invalid QoS", func(c *Config) { c.MQTT.QoS = 3 }, "mqtt.qos"},
		{"invalid port low", func(c *Config) { c.API.Port = 0 }, "api.port"},
		{"invalid port high", func(c *Config) { c.API.Port = 70000 }, "api.port"},
		{"influx without url", func(c *Config) { c.InfluxDB.Enabled = true }, "influxdb.url"},
		{"zero range", func(c *Config) { c.Wires.InteractionRange = 0 }, "interaction_range"},
		{"unknown capability", func(c *Config) {
			c.Tools = append(c.Tools, ToolConfig{Kind: "crowbar", Capabilities: []string{"prying"}})
		}, "unknown capability"},
		{"duplicate tool", func(c *Config) {
			c.Tools = append(c.Tools, ToolConfig{Kind: "wirecutter"})
		}, "duplicate kind"},
		{"duplicate board", func(c *Config) {
			c.Boards = append(c.Boards, BoardConfig{ID: "airlock-1", Providers: []string{ProviderLight}})
		}, "duplicate id"},
		{"board without providers", func(c *Config) { c.Boards[0].Providers = nil }, "at least one provider"},
		{"unknown provider", func(c *Config) { c.Boards[0].Providers = []string{"toaster"} }, "unknown provider"},
		{"unnamed operator", func(c *Config) { c.Operators[0].Name = "" }, "operators[0].name"},
		{"duplicate operator", func(c *Config) {
			c.Operators = append(c.Operators, OperatorConfig{Name: "alice"})
		}, "duplicate name"},
		{"operator with unknown tool", func(c *Config) { c.Operators[0].Tool = "spanner" }, "unknown tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("WIREPANEL_DATABASE_PATH", "/custom/path.db")
	t.Setenv("WIREPANEL_MQTT_HOST", "mqtt.example.com")
	t.Setenv("WIREPANEL_MQTT_USERNAME", "testuser")
	t.Setenv("WIREPANEL_MQTT_PASSWORD", "testpass")
	t.Setenv("WIREPANEL_API_HOST", "192.168.1.1")
	t.Setenv("WIREPANEL_API_PORT", "9090")
	t.Setenv("WIREPANEL_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("WIREPANEL_WIRES_RANDOM_SEED", "1234")

	applyEnvOverrides(cfg)

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}
	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if cfg.Wires.RandomSeed != 1234 {
		t.Errorf("Wires.RandomSeed = %d, want 1234", cfg.Wires.RandomSeed)
	}
}

func TestApplyEnvOverrides_IgnoresMalformedNumbers(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("WIREPANEL_API_PORT", "eighty")
	applyEnvOverrides(cfg)
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want default 8080", cfg.API.Port)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Service.ID == "" {
		t.Error("defaultConfig should have non-empty Service.ID")
	}
	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}
	if cfg.MQTT.Enabled {
		t.Error("defaultConfig should leave MQTT disabled")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("defaultConfig API.Port = %d, want 8080", cfg.API.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig should validate: %v", err)
	}
}
