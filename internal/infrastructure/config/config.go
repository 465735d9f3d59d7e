package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the wire panel service.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service   ServiceConfig    `yaml:"service"`
	Database  DatabaseConfig   `yaml:"database"`
	MQTT      MQTTConfig       `yaml:"mqtt"`
	API       APIConfig        `yaml:"api"`
	WebSocket WebSocketConfig  `yaml:"websocket"`
	InfluxDB  InfluxDBConfig   `yaml:"influxdb"`
	Logging   LoggingConfig    `yaml:"logging"`
	Wires     WiresConfig      `yaml:"wires"`
	Tools     []ToolConfig     `yaml:"tools"`
	Boards    []BoardConfig    `yaml:"boards"`
	Operators []OperatorConfig `yaml:"operators"`
}

// ServiceConfig identifies this service instance.
type ServiceConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`

	// PanelDir serves the board viewer from disk instead of the embedded copy.
	PanelDir string `yaml:"panel_dir"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// WiresConfig contains settings shared by every wire board.
type WiresConfig struct {
	// InteractionRange is the maximum distance between an operator and a
	// board for wire and panel interactions.
	InteractionRange float64 `yaml:"interaction_range"`

	// RandomSeed makes wire shuffles and appearance draws reproducible.
	// 0 seeds from the system source.
	RandomSeed uint64 `yaml:"random_seed"`

	// Feedback maps feedback keys ("wires-no-hands") to operator-facing text.
	// Keys without an entry are sent as-is.
	Feedback map[string]string `yaml:"feedback"`
}

// ToolConfig describes a tool kind operators can hold.
type ToolConfig struct {
	Kind         string   `yaml:"kind"`
	Capabilities []string `yaml:"capabilities"`
	UseCue       string   `yaml:"use_cue"`
}

// PositionConfig is a point on the floor plan.
type PositionConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BoardConfig describes one device carrying a wire panel.
type BoardConfig struct {
	// ID is the board id. Generated when empty.
	ID string `yaml:"id"`

	// Name overrides the default board name shown to observers.
	Name string `yaml:"name"`

	// LayoutID groups boards of the same device type so they share one
	// wire layout. Empty disables layout caching for this board.
	LayoutID string `yaml:"layout_id"`

	Position PositionConfig `yaml:"position"`

	// Obstructed blocks every interaction regardless of distance.
	Obstructed bool `yaml:"obstructed"`

	// Providers lists the subsystems contributing wires: door, light, vending.
	Providers []string `yaml:"providers"`

	// CutWires lists wire keys ("door.power") that start cut.
	CutWires []string `yaml:"cut_wires"`
}

// OperatorConfig describes an operator that can act on boards.
type OperatorConfig struct {
	Name     string         `yaml:"name"`
	Hands    bool           `yaml:"hands"`
	Position PositionConfig `yaml:"position"`
	Tool     string         `yaml:"tool"`
}

// Capabilities a tool may declare.
const (
	CapabilityScrewing  = "screwing"
	CapabilityCutting   = "cutting"
	CapabilityMultitool = "multitool"
)

// Wire providers a board may list.
const (
	ProviderDoor    = "door"
	ProviderLight   = "light"
	ProviderVending = "vending"
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: WIREPANEL_SECTION_KEY
// For example: WIREPANEL_DATABASE_PATH, WIREPANEL_API_PORT
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

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			ID:   "wirepanel-001",
			Name: "Wire Panels",
		},
		Database: DatabaseConfig{
			Path:        "./data/wirepanel.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "wirepanel",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Wires: WiresConfig{
			InteractionRange: 1.5,
		},
		Tools: []ToolConfig{
			{Kind: "wirecutter", Capabilities: []string{CapabilityCutting}, UseCue: "wirecutter_use"},
			{Kind: "multitool", Capabilities: []string{CapabilityMultitool}, UseCue: "multitool_use"},
			{Kind: "screwdriver", Capabilities: []string{CapabilityScrewing}, UseCue: "screwdriver_use"},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: WIREPANEL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("WIREPANEL_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("WIREPANEL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("WIREPANEL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("WIREPANEL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("WIREPANEL_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("WIREPANEL_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// InfluxDB
	if v := os.Getenv("WIREPANEL_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Wires
	if v := os.Getenv("WIREPANEL_WIRES_RANDOM_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Wires.RandomSeed = seed
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Service.ID == "" {
		errs = append(errs, "service.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if c.Wires.InteractionRange <= 0 {
		errs = append(errs, "wires.interaction_range must be positive")
	}

	errs = append(errs, c.validateTools()...)
	errs = append(errs, c.validateBoards()...)
	errs = append(errs, c.validateOperators()...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (c *Config) validateTools() []string {
	var errs []string
	seen := make(map[string]bool, len(c.Tools))
	for i, t := range c.Tools {
		if t.Kind == "" {
			errs = append(errs, fmt.Sprintf("tools[%d].kind is required", i))
			continue
		}
		if seen[t.Kind] {
			errs = append(errs, fmt.Sprintf("tools[%d]: duplicate kind %q", i, t.Kind))
		}
		seen[t.Kind] = true
		for _, capability := range t.Capabilities {
			switch capability {
			case CapabilityScrewing, CapabilityCutting, CapabilityMultitool:
			default:
				errs = append(errs, fmt.Sprintf("tools[%d]: unknown capability %q", i, capability))
			}
		}
	}
	return errs
}

func (c *Config) validateBoards() []string {
	var errs []string
	seen := make(map[string]bool, len(c.Boards))
	for i, b := range c.Boards {
		if b.ID != "" {
			if seen[b.ID] {
				errs = append(errs, fmt.Sprintf("boards[%d]: duplicate id %q", i, b.ID))
			}
			seen[b.ID] = true
		}
		if len(b.Providers) == 0 {
			errs = append(errs, fmt.Sprintf("boards[%d]: at least one provider is required", i))
		}
		for _, p := range b.Providers {
			switch p {
			case ProviderDoor, ProviderLight, ProviderVending:
			default:
				errs = append(errs, fmt.Sprintf("boards[%d]: unknown provider %q", i, p))
			}
		}
		for _, k := range b.CutWires {
			if strings.TrimSpace(k) == "" {
				errs = append(errs, fmt.Sprintf("boards[%d]: empty cut_wires entry", i))
			}
		}
	}
	return errs
}

func (c *Config) validateOperators() []string {
	var errs []string
	tools := make(map[string]bool, len(c.Tools))
	for _, t := range c.Tools {
		tools[t.Kind] = true
	}
	seen := make(map[string]bool, len(c.Operators))
	for i, o := range c.Operators {
		if o.Name == "" {
			errs = append(errs, fmt.Sprintf("operators[%d].name is required", i))
			continue
		}
		if seen[o.Name] {
			errs = append(errs, fmt.Sprintf("operators[%d]: duplicate name %q", i, o.Name))
		}
		seen[o.Name] = true
		if o.Tool != "" && !tools[o.Tool] {
			errs = append(errs, fmt.Sprintf("operators[%d]: unknown tool %q", i, o.Tool))
		}
	}
	return errs
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// FeedbackText returns the operator-facing text for a feedback key.
func (c *Config) FeedbackText(key string) string {
	if text, ok := c.Wires.Feedback[key]; ok {
		return text
	}
	return key
}
