package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for camwatch.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Cameras  []CameraConfig `yaml:"cameras"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Events   EventsConfig   `yaml:"events"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Redis    RedisConfig    `yaml:"redis"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CameraConfig describes one configured device endpoint.
// Credentials are used to build the device base URL and are never exposed
// through the API or the notification payloads.
type CameraConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	TLS      bool   `yaml:"tls"`
}

// RefreshConfig contains status-refresh scheduler settings.
type RefreshConfig struct {
	// Interval is the fixed tick rate in seconds between refresh cycles.
	Interval int `yaml:"interval"`

	// DeviceConcurrency is the number of devices refreshed in parallel.
	DeviceConcurrency int `yaml:"device_concurrency"`
}

// SnapshotConfig contains image compositor settings.
type SnapshotConfig struct {
	// JPEGQuality is the re-encode quality for JPEG snapshots (1-100).
	JPEGQuality int `yaml:"jpeg_quality"`
}

// Supported notification transports.
const (
	TransportMQTT  = "mqtt"
	TransportRedis = "redis"
)

// EventsConfig selects the notification transport.
type EventsConfig struct {
	// Transport is "mqtt" or "redis".
	Transport string `yaml:"transport"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
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

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// RedisConfig contains Redis publisher settings.
// Only used when events.transport is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// InfluxDBConfig contains detection-history sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads, parses, and validates the configuration file at path.
//
// Order of precedence (lowest to highest): built-in defaults, YAML file,
// CAMWATCH_* environment variables.
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
		Refresh: RefreshConfig{
			Interval:          5,
			DeviceConcurrency: 10,
		},
		Snapshot: SnapshotConfig{
			JPEGQuality: 90,
		},
		Events: EventsConfig{
			Transport: TransportMQTT,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "camwatch",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 60,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: CAMWATCH_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAMWATCH_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("CAMWATCH_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("CAMWATCH_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("CAMWATCH_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("CAMWATCH_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("CAMWATCH_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("CAMWATCH_API_HOST"); v != "" {
		cfg.API.Host = v
	}
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if len(c.Cameras) == 0 {
		return fmt.Errorf("%w: at least one camera must be configured", ErrInvalidConfig)
	}
	for i, cam := range c.Cameras {
		if cam.Address == "" {
			return fmt.Errorf("%w: cameras[%d].address is required", ErrInvalidConfig, i)
		}
	}

	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("%w: refresh.interval must be positive", ErrInvalidConfig)
	}
	if c.Refresh.DeviceConcurrency <= 0 {
		return fmt.Errorf("%w: refresh.device_concurrency must be positive", ErrInvalidConfig)
	}

	if c.Snapshot.JPEGQuality < 1 || c.Snapshot.JPEGQuality > 100 {
		return fmt.Errorf("%w: snapshot.jpeg_quality must be in 1..100", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Events.Transport) {
	case TransportMQTT, TransportRedis:
	default:
		return fmt.Errorf("%w: events.transport must be \"mqtt\" or \"redis\"", ErrInvalidConfig)
	}

	if strings.ToLower(c.Events.Transport) == TransportRedis && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required for the redis transport", ErrInvalidConfig)
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("%w: mqtt.qos must be 0, 1, or 2", ErrInvalidConfig)
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			return fmt.Errorf("%w: influxdb.url is required when influxdb is enabled", ErrInvalidConfig)
		}
		if c.InfluxDB.Bucket == "" {
			return fmt.Errorf("%w: influxdb.bucket is required when influxdb is enabled", ErrInvalidConfig)
		}
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("%w: api.port must be in 1..65535", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: logging.level %q is not recognised", ErrInvalidConfig, c.Logging.Level)
	}

	return nil
}
